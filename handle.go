package ukb

import (
	"context"
	"iter"

	"github.com/PaulHuygen/ukb/blobstore"
)

// Handle owns the knowledge base of a process. Create calls build a new
// graph and, only when that succeeds, swap it into the KB returned by
// Instance, so holders of that *KB observe the new graph.
//
// Handle has no internal locking; it has a single owner.
type Handle struct {
	kb   *KB
	opts []Option
}

// NewHandle creates an uninitialized handle. opts apply to every KB it creates.
func NewHandle(opts ...Option) *Handle {
	return &Handle{opts: opts}
}

// Instance returns the current knowledge base.
func (h *Handle) Instance() (*KB, error) {
	if h.kb == nil {
		return nil, ErrUninitializedGraph
	}
	return h.kb, nil
}

// CreateFromTxt builds the graph from relation records accepted by sources.
func (h *Handle) CreateFromTxt(ctx context.Context, seq iter.Seq2[Relation, error], sources []string) (IngestStats, error) {
	kb, stats, err := Build(ctx, seq, sources, h.opts...)
	if err != nil {
		return stats, err
	}
	h.install(kb)
	return stats, nil
}

// CreateFromBinfile loads the graph from a snapshot file.
func (h *Handle) CreateFromBinfile(filename string) error {
	kb, err := Load(filename, h.opts...)
	if err != nil {
		return err
	}
	h.install(kb)
	return nil
}

// CreateFromBlob loads the graph from a blob store; an empty name follows
// the store's CURRENT pointer.
func (h *Handle) CreateFromBlob(ctx context.Context, store blobstore.BlobStore, name string) error {
	kb, err := LoadBlob(ctx, store, name, h.opts...)
	if err != nil {
		return err
	}
	h.install(kb)
	return nil
}

func (h *Handle) install(kb *KB) {
	if h.kb == nil {
		h.kb = kb
		return
	}
	*h.kb = *kb
}
