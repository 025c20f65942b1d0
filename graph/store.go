package graph

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/PaulHuygen/ukb/relation"
)

// VertexID is the dense, index-stable identifier of a vertex.
type VertexID uint32

// EdgeID is the dense, index-stable identifier of an edge.
type EdgeID uint32

// NoVertex marks the absence of a vertex (e.g. an unreached Dijkstra parent).
const NoVertex VertexID = math.MaxUint32

// Kind distinguishes the two vertex namespaces.
type Kind uint8

const (
	// KindConcept is a sense/synset-like vertex.
	KindConcept Kind = iota
	// KindWord is a surface word-form vertex.
	KindWord
)

func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "concept"
	case KindWord:
		return "word"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// flagWord is the on-disk flag bit for word vertices.
const flagWord uint8 = 1

var (
	// ErrVertexNotFound is returned by name-based lookups that fail.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrDuplicateVertex is returned when restoring a name twice in one namespace.
	ErrDuplicateVertex = errors.New("graph: duplicate vertex")

	// ErrDuplicateEdge is returned when restoring an ordered pair twice.
	ErrDuplicateEdge = errors.New("graph: duplicate edge")

	// ErrVertexOutOfRange is returned for ids that do not name a vertex.
	ErrVertexOutOfRange = errors.New("graph: vertex id out of range")

	// ErrInvalidMask is returned for masks referencing unregistered relations.
	ErrInvalidMask = errors.New("graph: relation mask references unregistered labels")
)

type vertex struct {
	name  string
	gloss string
	flags uint8
}

type edge struct {
	src    VertexID
	dst    VertexID
	weight float32
	mask   relation.Mask
}

// Store is the vertex/edge container of the knowledge graph.
//
// Vertices live in an arena indexed by VertexID and edges in a table indexed
// by EdgeID; both only grow. Out- and in-adjacency lists hold edge ids in
// insertion order. Every topology or weight change bumps Generation so that
// derived caches can detect staleness.
//
// Store is not safe for concurrent mutation.
type Store struct {
	vertices []vertex
	edges    []edge
	out      [][]EdgeID
	in       [][]EdgeID

	pairs    map[uint64]EdgeID
	concepts map[string]VertexID
	words    map[string]VertexID

	rels *relation.Registry
	gen  uint64
}

// New creates an empty store with an empty relation registry.
func New() *Store {
	return NewWithRegistry(relation.NewRegistry())
}

// NewWithRegistry creates an empty store that encodes edge labels with reg.
func NewWithRegistry(reg *relation.Registry) *Store {
	if reg == nil {
		reg = relation.NewRegistry()
	}
	return &Store{
		pairs:    make(map[uint64]EdgeID),
		concepts: make(map[string]VertexID),
		words:    make(map[string]VertexID),
		rels:     reg,
	}
}

func pairKey(u, v VertexID) uint64 {
	return uint64(u)<<32 | uint64(v)
}

// Relations returns the relation registry backing the edge masks.
func (s *Store) Relations() *relation.Registry {
	return s.rels
}

// Size returns the number of vertices.
func (s *Store) Size() int {
	return len(s.vertices)
}

// NumEdges returns the number of edges.
func (s *Store) NumEdges() int {
	return len(s.edges)
}

// Generation returns a counter that changes on every edge or weight mutation.
func (s *Store) Generation() uint64 {
	return s.gen
}

// Has reports whether v names a vertex.
func (s *Store) Has(v VertexID) bool {
	return int64(v) < int64(len(s.vertices))
}

// FindOrInsertConcept returns the concept vertex called name, creating it if needed.
func (s *Store) FindOrInsertConcept(name string) VertexID {
	return s.findOrInsert(s.concepts, name, 0)
}

// FindOrInsertWord returns the word vertex called name, creating it if needed.
func (s *Store) FindOrInsertWord(name string) VertexID {
	return s.findOrInsert(s.words, name, flagWord)
}

func (s *Store) findOrInsert(idx map[string]VertexID, name string, flags uint8) VertexID {
	if v, ok := idx[name]; ok {
		return v
	}
	v := s.appendVertex(name, "", flags)
	idx[name] = v
	return v
}

func (s *Store) appendVertex(name, gloss string, flags uint8) VertexID {
	v := VertexID(len(s.vertices))
	s.vertices = append(s.vertices, vertex{name: name, gloss: gloss, flags: flags})
	s.out = append(s.out, nil)
	s.in = append(s.in, nil)
	return v
}

// FindOrInsertEdge returns the edge u->v, creating it with weight w and an
// empty relation mask if it does not exist. The weight of an existing edge
// is left unchanged. Both ids must name vertices.
func (s *Store) FindOrInsertEdge(u, v VertexID, w float32) EdgeID {
	if e, ok := s.pairs[pairKey(u, v)]; ok {
		return e
	}
	return s.appendEdge(u, v, w, 0)
}

func (s *Store) appendEdge(u, v VertexID, w float32, mask relation.Mask) EdgeID {
	e := EdgeID(len(s.edges))
	s.edges = append(s.edges, edge{src: u, dst: v, weight: w, mask: mask})
	s.out[u] = append(s.out[u], e)
	s.in[v] = append(s.in[v], e)
	s.pairs[pairKey(u, v)] = e
	s.gen++
	return e
}

// FindEdge returns the edge u->v if present.
func (s *Store) FindEdge(u, v VertexID) (EdgeID, bool) {
	e, ok := s.pairs[pairKey(u, v)]
	return e, ok
}

// AddRelationLabel registers label if needed and sets its bit on edge e.
// On ErrRegistryFull the edge and registry are left untouched.
func (s *Store) AddRelationLabel(e EdgeID, label string) error {
	i, err := s.rels.Register(label)
	if err != nil {
		return err
	}
	s.edges[e].mask = s.edges[e].mask.With(i)
	return nil
}

// VertexByName looks name up in the concept namespace, then in the word namespace.
func (s *Store) VertexByName(name string) (VertexID, bool) {
	if v, ok := s.concepts[name]; ok {
		return v, true
	}
	v, ok := s.words[name]
	return v, ok
}

// ConceptByName looks name up in the concept namespace only.
func (s *Store) ConceptByName(name string) (VertexID, bool) {
	v, ok := s.concepts[name]
	return v, ok
}

// WordByName looks name up in the word namespace only.
func (s *Store) WordByName(name string) (VertexID, bool) {
	v, ok := s.words[name]
	return v, ok
}

// Name returns the name of v.
func (s *Store) Name(v VertexID) string {
	return s.vertices[v].name
}

// Gloss returns the gloss of v ("" when unset).
func (s *Store) Gloss(v VertexID) string {
	return s.vertices[v].gloss
}

// SetGloss replaces the gloss of v.
func (s *Store) SetGloss(v VertexID, gloss string) {
	s.vertices[v].gloss = gloss
}

// Kind returns the namespace of v.
func (s *Store) Kind(v VertexID) Kind {
	if s.vertices[v].flags&flagWord != 0 {
		return KindWord
	}
	return KindConcept
}

// IsConcept reports whether v is a concept vertex.
func (s *Store) IsConcept(v VertexID) bool {
	return s.Kind(v) == KindConcept
}

// IsWord reports whether v is a word vertex.
func (s *Store) IsWord(v VertexID) bool {
	return s.Kind(v) == KindWord
}

// Edge returns the endpoints, weight and relation mask of e.
func (s *Store) Edge(e EdgeID) (src, dst VertexID, weight float32, mask relation.Mask) {
	ed := s.edges[e]
	return ed.src, ed.dst, ed.weight, ed.mask
}

// Source returns the source vertex of e.
func (s *Store) Source(e EdgeID) VertexID { return s.edges[e].src }

// Target returns the target vertex of e.
func (s *Store) Target(e EdgeID) VertexID { return s.edges[e].dst }

// EdgeWeight returns the weight of e.
func (s *Store) EdgeWeight(e EdgeID) float32 { return s.edges[e].weight }

// EdgeMask returns the relation mask of e.
func (s *Store) EdgeMask(e EdgeID) relation.Mask { return s.edges[e].mask }

// SetEdgeWeight replaces the weight of e.
func (s *Store) SetEdgeWeight(e EdgeID, w float32) {
	s.edges[e].weight = w
	s.gen++
}

// EdgeLabels decodes the relation labels of e in registry order.
func (s *Store) EdgeLabels(e EdgeID) []string {
	return s.rels.Decode(s.edges[e].mask)
}

// OutEdges returns the outgoing edges of v. The slice must not be modified.
func (s *Store) OutEdges(v VertexID) []EdgeID {
	return s.out[v]
}

// InEdges returns the incoming edges of v. The slice must not be modified.
func (s *Store) InEdges(v VertexID) []EdgeID {
	return s.in[v]
}

// OutDegree returns the number of outgoing edges of v.
func (s *Store) OutDegree(v VertexID) int {
	return len(s.out[v])
}

// RandomVertex returns a uniformly chosen vertex, or false for an empty graph.
func (s *Store) RandomVertex(rng *rand.Rand) (VertexID, bool) {
	if len(s.vertices) == 0 {
		return NoVertex, false
	}
	if rng == nil {
		return VertexID(rand.IntN(len(s.vertices))), true
	}
	return VertexID(rng.IntN(len(s.vertices))), true
}

// RestoreVertex appends a vertex with a given kind and gloss. It is used by
// snapshot decoding, where ids must come back in their original order.
func (s *Store) RestoreVertex(name, gloss string, kind Kind) (VertexID, error) {
	idx, flags := s.concepts, uint8(0)
	if kind == KindWord {
		idx, flags = s.words, flagWord
	}
	if _, ok := idx[name]; ok {
		return NoVertex, fmt.Errorf("%w: %s %q", ErrDuplicateVertex, kind, name)
	}
	v := s.appendVertex(name, gloss, flags)
	idx[name] = v
	return v, nil
}

// RestoreEdge appends the edge u->v with its full state.
func (s *Store) RestoreEdge(u, v VertexID, w float32, mask relation.Mask) (EdgeID, error) {
	if !s.Has(u) || !s.Has(v) {
		return 0, fmt.Errorf("%w: %d->%d with %d vertices", ErrVertexOutOfRange, u, v, len(s.vertices))
	}
	if _, ok := s.pairs[pairKey(u, v)]; ok {
		return 0, fmt.Errorf("%w: %d->%d", ErrDuplicateEdge, u, v)
	}
	if !s.rels.Valid(mask) {
		return 0, fmt.Errorf("%w: 0x%08x", ErrInvalidMask, uint32(mask))
	}
	return s.appendEdge(u, v, w, mask), nil
}
