package ukb

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulHuygen/ukb/relation"
)

func records(recs ...Relation) iter.Seq2[Relation, error] {
	return func(yield func(Relation, error) bool) {
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func rel(src, dst, label, origin string) Relation {
	return Relation{Source: src, Target: dst, Weight: 1, Label: label, Origin: origin}
}

func TestBuildFiltersSources(t *testing.T) {
	ctx := context.Background()
	kb, stats, err := Build(ctx, records(
		rel("dog", "animal", "hypernym", "wn30"),
		rel("cat", "animal", "hypernym", "xwn"),
		rel("dog", "cat", "similar", "wn30"),
	), []string{"wn30"})
	require.NoError(t, err)

	assert.Equal(t, IngestStats{Read: 3, Applied: 2, Dropped: 1}, stats)
	assert.Equal(t, 3, kb.Size())
	assert.Equal(t, 2, kb.NumEdges())
	assert.Equal(t, []string{"wn30"}, kb.Sources())

	_, ok := kb.Graph().ConceptByName("cat")
	assert.True(t, ok, "cat is still inserted as target of an accepted record")
	_, ok = kb.Graph().FindEdge(mustLookup(t, kb, "cat"), mustLookup(t, kb, "animal"))
	assert.False(t, ok)
}

func TestAnySource(t *testing.T) {
	kb, stats, err := Build(context.Background(), records(
		rel("a", "b", "r", "x"),
		rel("b", "c", "r", "y"),
	), []string{AnySource})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Applied)
	assert.Equal(t, 0, stats.Dropped)
	assert.Equal(t, 2, kb.NumEdges())
}

func TestAddFromTxtLayers(t *testing.T) {
	ctx := context.Background()
	kb, _, err := Build(ctx, records(rel("a", "b", "hypernym", "wn")), []string{"wn"})
	require.NoError(t, err)

	stats, err := kb.AddFromTxt(ctx, records(rel("b", "c", "domain", "xwn")))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Dropped, "xwn is not accepted yet")

	kb.AddRelationSource("xwn")
	stats, err = kb.AddFromTxt(ctx, records(rel("b", "c", "domain", "xwn")))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 2, kb.NumEdges())
	assert.Equal(t, []string{"hypernym", "domain"}, kb.Relations())
	assert.Equal(t, []string{"wn", "xwn"}, kb.Sources())
}

func TestEdgeMergeOnIngest(t *testing.T) {
	kb, _, err := Build(context.Background(), records(
		Relation{Source: "a", Target: "b", Weight: 2, Label: "hypernym", Origin: "wn"},
		Relation{Source: "a", Target: "b", Weight: 5, Label: "similar", Origin: "wn"},
		Relation{Source: "a", Target: "b", Weight: 7, Label: "hypernym", Origin: "wn"},
	), []string{"wn"})
	require.NoError(t, err)

	g := kb.Graph()
	require.Equal(t, 1, g.NumEdges())
	e, ok := g.FindEdge(mustLookup(t, kb, "a"), mustLookup(t, kb, "b"))
	require.True(t, ok)
	assert.Equal(t, float32(2), g.EdgeWeight(e))
	assert.ElementsMatch(t, []string{"hypernym", "similar"}, g.EdgeLabels(e))
}

func TestUndirected(t *testing.T) {
	r := rel("a", "b", "related", "wn")
	r.Undirected = true
	self := rel("c", "c", "related", "wn")
	self.Undirected = true

	kb, _, err := Build(context.Background(), records(r, self), []string{"wn"})
	require.NoError(t, err)

	g := kb.Graph()
	a, b := mustLookup(t, kb, "a"), mustLookup(t, kb, "b")
	ab, ok := g.FindEdge(a, b)
	require.True(t, ok)
	ba, ok := g.FindEdge(b, a)
	require.True(t, ok)
	assert.Equal(t, []string{"related"}, g.EdgeLabels(ab))
	assert.Equal(t, []string{"related"}, g.EdgeLabels(ba))
	assert.Equal(t, 3, g.NumEdges(), "a self loop is added once")
}

func TestIngestRegistryFull(t *testing.T) {
	recs := make([]Relation, 0, relation.MaxRelations+2)
	for i := range relation.MaxRelations {
		recs = append(recs, rel("a", "b", fmt.Sprintf("r%02d", i), "wn"))
	}
	recs = append(recs, rel("x", "y", "overflow", "wn"), rel("a", "b", "r00", "wn"))

	kb := New()
	kb.AddRelationSource("wn")
	stats, err := kb.AddFromTxt(context.Background(), records(recs...))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRegistryFull)
	var ie *IngestError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, relation.MaxRelations, ie.Index)
	assert.Equal(t, "overflow", ie.Record.Label)
	assert.Equal(t, relation.MaxRelations, stats.Applied)

	// The failing record left nothing behind.
	_, ok := kb.Graph().ConceptByName("x")
	assert.False(t, ok)
	assert.Equal(t, 2, kb.Size())
	assert.Equal(t, 1, kb.NumEdges())
	assert.Len(t, kb.Relations(), relation.MaxRelations)
}

func TestIngestInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  Relation
		want error
	}{
		{"Negative", Relation{Source: "a", Target: "b", Weight: -1, Origin: "wn"}, ErrInvalidWeight},
		{"NaN", Relation{Source: "a", Target: "b", Weight: float32(math.NaN()), Origin: "wn"}, ErrInvalidWeight},
		{"Inf", Relation{Source: "a", Target: "b", Weight: float32(math.Inf(1)), Origin: "wn"}, ErrInvalidWeight},
		{"NoSource", Relation{Target: "b", Weight: 1, Origin: "wn"}, ErrInvalidRelation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := New()
			kb.AddRelationSource("wn")
			_, err := kb.AddFromTxt(context.Background(), records(tt.rec))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, kb.Size())
		})
	}
}

func TestIngestSequenceError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(Relation, error) bool) {
		if !yield(rel("a", "b", "r", "wn"), nil) {
			return
		}
		yield(Relation{}, boom)
	}

	kb := New()
	kb.AddRelationSource("wn")
	stats, err := kb.AddFromTxt(context.Background(), seq)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 1, kb.NumEdges())
}

func TestIngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kb := New()
	kb.AddRelationSource(AnySource)
	_, err := kb.AddFromTxt(ctx, records(rel("a", "b", "", "wn")))
	assert.ErrorIs(t, err, context.Canceled)
}

type mapDict struct {
	words   []string
	entries map[string][]DictEntry
}

func (d mapDict) Words() []string                 { return d.words }
func (d mapDict) Entries(word string) []DictEntry { return d.entries[word] }

func testDict() mapDict {
	return mapDict{
		words: []string{"bank", "river", "orphan"},
		entries: map[string][]DictEntry{
			"bank":  {{Concept: "bank.n.01", Weight: 0.75}, {Concept: "bank.n.02", Weight: 0.25}},
			"river": {{Concept: "river.n.01", Weight: 1}},
		},
	}
}

func TestAddToken(t *testing.T) {
	kb := New()
	dict := testDict()

	require.NoError(t, kb.AddToken(dict, "bank", true))
	g := kb.Graph()
	w, ok := g.WordByName("bank")
	require.True(t, ok)
	assert.True(t, g.IsWord(w))
	assert.Equal(t, 2, g.OutDegree(w))

	c, ok := g.ConceptByName("bank.n.01")
	require.True(t, ok)
	e, ok := g.FindEdge(w, c)
	require.True(t, ok)
	assert.Equal(t, float32(0.75), g.EdgeWeight(e))

	require.NoError(t, kb.AddToken(dict, "river", false))
	rw, _ := g.WordByName("river")
	assert.Equal(t, DefaultWeight, g.EdgeWeight(g.OutEdges(rw)[0]))

	err := kb.AddToken(dict, "unknown", false)
	assert.ErrorIs(t, err, ErrVertexNotFound)
	_, ok = g.WordByName("unknown")
	assert.False(t, ok)
}

func TestAddTokenInvalidWeight(t *testing.T) {
	kb := New()
	dict := mapDict{entries: map[string][]DictEntry{"w": {{Concept: "c", Weight: -1}}}}
	assert.ErrorIs(t, kb.AddToken(dict, "w", true), ErrInvalidWeight)
	assert.Equal(t, 0, kb.Size())
	assert.NoError(t, kb.AddToken(dict, "w", false), "weights are ignored without withWeight")
}

func TestAddDictionary(t *testing.T) {
	kb := New()
	stats, err := kb.AddDictionary(context.Background(), testDict(), true)
	require.NoError(t, err)
	assert.Equal(t, IngestStats{Read: 3, Applied: 2, Dropped: 1}, stats)
	assert.Equal(t, 5, kb.Size())
	assert.Equal(t, 3, kb.NumEdges())
}
