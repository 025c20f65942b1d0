package ukb

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PaulHuygen/ukb/blobstore"
	"github.com/PaulHuygen/ukb/snapshot"
)

var tracer = otel.Tracer("ukb")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteSnapshot encodes the knowledge base to w.
func (kb *KB) WriteSnapshot(w io.Writer) error {
	start := time.Now()
	cw := &countingWriter{w: w}
	err := snapshot.Write(cw, kb.g, kb.meta(), kb.opts.snapshotOptions()...)
	kb.opts.metricsCollector.RecordSnapshot("write", cw.n, time.Since(start), err)
	return err
}

// WriteToBinfile atomically writes a snapshot to filename.
func (kb *KB) WriteToBinfile(filename string) error {
	ctx, span := tracer.Start(context.Background(), "ukb.WriteToBinfile",
		trace.WithAttributes(attribute.String("ukb.file", filename)))
	defer span.End()

	err := snapshot.SaveToFile(filename, kb.WriteSnapshot)
	endSpan(span, err)
	kb.opts.logger.LogSnapshot(ctx, filename, err)
	return err
}

// SaveBlob writes a snapshot to store under name. A failed write leaves
// no blob behind on stores that support aborting.
func (kb *KB) SaveBlob(ctx context.Context, store blobstore.BlobStore, name string) error {
	ctx, span := tracer.Start(ctx, "ukb.SaveBlob",
		trace.WithAttributes(attribute.String("ukb.blob", name)))
	defer span.End()

	err := blobstore.WriteTo(ctx, store, name, kb.WriteSnapshot)
	endSpan(span, err)
	kb.opts.logger.LogSnapshot(ctx, name, err)
	return err
}

// Publish saves a snapshot under name and points the store's CURRENT blob at it.
func (kb *KB) Publish(ctx context.Context, store blobstore.BlobStore, name string) error {
	if err := kb.SaveBlob(ctx, store, name); err != nil {
		return err
	}
	return blobstore.SetCurrent(ctx, store, name)
}

// ReadSnapshot decodes a knowledge base from r.
func ReadSnapshot(r io.Reader, opts ...Option) (*KB, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ukb: read snapshot: %w", err)
	}
	return decodeSnapshot(context.Background(), data, "reader", applyOptions(opts))
}

// Load reads the snapshot file written by WriteToBinfile.
func Load(filename string, opts ...Option) (*KB, error) {
	o := applyOptions(opts)
	ctx, span := tracer.Start(context.Background(), "ukb.Load",
		trace.WithAttributes(attribute.String("ukb.file", filename)))
	defer span.End()

	start := time.Now()
	g, meta, err := snapshot.ReadFile(filename)
	endSpan(span, err)
	o.metricsCollector.RecordSnapshot("read", 0, time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, filename, 0, 0, err)
		return nil, err
	}
	o.logger.LogLoad(ctx, filename, g.Size(), g.NumEdges(), nil)
	return newKB(g, meta, o), nil
}

// LoadBlob reads the snapshot stored under name. An empty name loads the
// snapshot named by the store's CURRENT blob.
func LoadBlob(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*KB, error) {
	o := applyOptions(opts)
	if name == "" {
		current, err := blobstore.Current(ctx, store)
		if err != nil {
			return nil, err
		}
		name = current
	}

	ctx, span := tracer.Start(ctx, "ukb.LoadBlob",
		trace.WithAttributes(attribute.String("ukb.blob", name)))
	defer span.End()

	b, err := store.Open(ctx, name)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	defer b.Close()

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	kb, err := decodeSnapshot(ctx, data, name, o)
	endSpan(span, err)
	return kb, err
}

func decodeSnapshot(ctx context.Context, data []byte, location string, o options) (*KB, error) {
	start := time.Now()
	g, meta, err := snapshot.Decode(data)
	o.metricsCollector.RecordSnapshot("read", int64(len(data)), time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, location, 0, 0, err)
		return nil, err
	}
	o.logger.LogLoad(ctx, location, g.Size(), g.NumEdges(), nil)
	return newKB(g, meta, o), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
