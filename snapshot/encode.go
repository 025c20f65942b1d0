package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/PaulHuygen/ukb/graph"
)

type options struct {
	compression Compression
	blockSize   int
}

// Option configures Write.
type Option func(*options)

// WithCompression selects the body codec.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed size of compressed body blocks.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// encoder writes little-endian values and keeps the first error.
type encoder struct {
	w   io.Writer
	buf [8]byte
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) uint8(v uint8) {
	e.buf[0] = v
	e.write(e.buf[:1])
}

func (e *encoder) uint32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) float32(v float32) {
	e.uint32(math.Float32bits(v))
}

func (e *encoder) string(s string) {
	e.uint32(uint32(len(s)))
	if e.err == nil {
		_, e.err = io.WriteString(e.w, s)
	}
}

func (e *encoder) strings(ss []string) {
	e.uint32(uint32(len(ss)))
	for _, s := range ss {
		e.string(s)
	}
}

// Write encodes g and meta to w. Sources are written sorted and
// de-duplicated regardless of their order in meta.
func Write(w io.Writer, g *graph.Store, meta Meta, opts ...Option) error {
	o := options{blockSize: DefaultBlockSize}
	for _, fn := range opts {
		fn(&o)
	}
	if !o.compression.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCompression, o.compression)
	}

	h := Header{Magic: Magic, Version: Version, Compression: o.compression}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}

	var (
		sink io.Writer = w
		bw   *blockWriter
	)
	if o.compression != CompressionNone {
		bw = newBlockWriter(w, o.compression, o.blockSize)
		sink = bw
	}
	cw := newChecksumWriter(sink)

	if err := writeBody(cw, g, meta); err != nil {
		return fmt.Errorf("snapshot: write body: %w", err)
	}
	if bw != nil {
		if err := bw.Close(); err != nil {
			return fmt.Errorf("snapshot: write body: %w", err)
		}
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := w.Write(trailer[:]); err != nil {
		return fmt.Errorf("snapshot: write trailer: %w", err)
	}
	return nil
}

func writeBody(w io.Writer, g *graph.Store, meta Meta) error {
	e := &encoder{w: w}

	e.strings(g.Relations().Labels())

	sources := slices.Clone(meta.Sources)
	slices.Sort(sources)
	e.strings(slices.Compact(sources))

	e.strings(meta.Notes)

	e.uint32(uint32(g.Size()))
	for i := range g.Size() {
		v := graph.VertexID(i)
		e.string(g.Name(v))
		var flags uint8
		if g.IsWord(v) {
			flags = 1
		}
		e.uint8(flags)
		e.string(g.Gloss(v))
	}

	e.uint32(uint32(g.NumEdges()))
	for i := range g.NumEdges() {
		src, dst, weight, mask := g.Edge(graph.EdgeID(i))
		e.uint32(uint32(src))
		e.uint32(uint32(dst))
		e.float32(weight)
		e.uint32(uint32(mask))
	}
	return e.err
}
