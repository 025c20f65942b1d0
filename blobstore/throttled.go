package blobstore

import (
	"context"
	"io"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig bounds the I/O a ThrottledStore issues to its inner store.
type ThrottleConfig struct {
	// BytesPerSec limits transfer throughput. 0 means unlimited.
	BytesPerSec int
	// MaxConcurrent limits simultaneously open transfers. 0 means unlimited.
	MaxConcurrent int64
}

// ThrottledStore wraps a BlobStore with a byte-rate limiter and a bound on
// concurrent transfers, for shared object storage.
type ThrottledStore struct {
	inner   BlobStore
	limiter *rate.Limiter       // nil if unlimited
	sem     *semaphore.Weighted // nil if unlimited
}

// NewThrottledStore wraps inner.
func NewThrottledStore(inner BlobStore, cfg ThrottleConfig) *ThrottledStore {
	s := &ThrottledStore{inner: inner}
	if cfg.BytesPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSec), cfg.BytesPerSec)
	}
	if cfg.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return s
}

// waitN blocks until n bytes may be transferred. Requests larger than the
// burst are split.
func (s *ThrottledStore) waitN(ctx context.Context, n int) error {
	if s.limiter == nil {
		return nil
	}
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (s *ThrottledStore) acquire(ctx context.Context) error {
	if s.sem == nil {
		return nil
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *ThrottledStore) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

// Open opens a blob whose reads are rate limited.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{Blob: b, s: s}, nil
}

// Create starts a rate-limited write. The transfer slot is held until Close.
func (s *ThrottledStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		s.release()
		return nil, err
	}
	return &throttledWriter{w: w, s: s, ctx: ctx}, nil
}

// Put writes data after the limiter admits len(data) bytes.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if err := s.waitN(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists blobs.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type throttledBlob struct {
	Blob
	s *ThrottledStore
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.s.waitN(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.Blob.ReadAt(ctx, p, off)
}

func (b *throttledBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	rc, err := b.Blob.ReadRange(ctx, off, length)
	if err != nil {
		return nil, err
	}
	return &throttledReader{rc: rc, s: b.s, ctx: ctx}, nil
}

type throttledReader struct {
	rc  io.ReadCloser
	s   *ThrottledStore
	ctx context.Context
}

func (r *throttledReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if n > 0 {
		if werr := r.s.waitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (r *throttledReader) Close() error { return r.rc.Close() }

type throttledWriter struct {
	w      WritableBlob
	s      *ThrottledStore
	ctx    context.Context
	closed bool
}

func (w *throttledWriter) Write(p []byte) (int, error) {
	if err := w.s.waitN(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

func (w *throttledWriter) Sync() error { return w.w.Sync() }

func (w *throttledWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.s.release()
	return w.w.Close()
}

func (w *throttledWriter) Abort(ctx context.Context) error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.s.release()
	if a, ok := w.w.(Aborter); ok {
		return a.Abort(ctx)
	}
	return w.w.Close()
}
