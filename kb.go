package ukb

import (
	"slices"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/rank"
	"github.com/PaulHuygen/ukb/snapshot"
)

// KB is a knowledge base: the graph store with its accepted relation
// sources, annotation log and PageRank coefficient cache.
//
// A KB has a single owner. Reads (traversal, ranking) may not overlap with
// mutations; RankBatch parallelizes internally.
type KB struct {
	g       *graph.Store
	sources map[string]struct{}
	notes   []string
	cache   *rank.Cache
	ranker  *rank.Ranker
	opts    options
}

// New creates an empty knowledge base.
func New(opts ...Option) *KB {
	return newKB(graph.New(), snapshot.Meta{}, applyOptions(opts))
}

func newKB(g *graph.Store, meta snapshot.Meta, o options) *KB {
	kb := &KB{
		g:       g,
		sources: make(map[string]struct{}, len(meta.Sources)),
		notes:   slices.Clone(meta.Notes),
		cache:   rank.NewCache(),
		opts:    o,
	}
	for _, s := range meta.Sources {
		kb.sources[s] = struct{}{}
	}
	kb.ranker = rank.NewRanker(g, kb.cache, o.rank, o.logger.Logger)
	return kb
}

// Graph returns the underlying store.
func (kb *KB) Graph() *graph.Store { return kb.g }

// Size returns the number of vertices.
func (kb *KB) Size() int { return kb.g.Size() }

// NumEdges returns the number of edges.
func (kb *KB) NumEdges() int { return kb.g.NumEdges() }

// Relations returns the registered relation labels in bit order.
func (kb *KB) Relations() []string { return kb.g.Relations().Labels() }

// Cache returns the PageRank coefficient cache.
func (kb *KB) Cache() *rank.Cache { return kb.cache }

// AddRelationSource adds origin to the accepted relation sources.
// AnySource accepts records from every origin.
func (kb *KB) AddRelationSource(origin string) {
	kb.sources[origin] = struct{}{}
	kb.opts.logger.WithSource(origin).Debug("relation source accepted")
}

// Sources returns the accepted relation sources, sorted.
func (kb *KB) Sources() []string {
	out := make([]string, 0, len(kb.sources))
	for s := range kb.sources {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Accepts reports whether records from origin pass the source filter.
func (kb *KB) Accepts(origin string) bool {
	if _, ok := kb.sources[AnySource]; ok {
		return true
	}
	_, ok := kb.sources[origin]
	return ok
}

// AddComment appends a line to the annotation log.
func (kb *KB) AddComment(s string) {
	kb.notes = append(kb.notes, s)
}

// Comments returns a copy of the annotation log.
func (kb *KB) Comments() []string {
	return slices.Clone(kb.notes)
}

// Lookup resolves name to a vertex, concepts first.
func (kb *KB) Lookup(name string) (graph.VertexID, error) {
	v, ok := kb.g.VertexByName(name)
	if !ok {
		return graph.NoVertex, &vertexError{name: name}
	}
	return v, nil
}

type vertexError struct{ name string }

func (e *vertexError) Error() string { return "ukb: vertex not found: " + e.name }

func (e *vertexError) Unwrap() error { return ErrVertexNotFound }

func (kb *KB) meta() snapshot.Meta {
	return snapshot.Meta{Sources: kb.Sources(), Notes: kb.notes}
}
