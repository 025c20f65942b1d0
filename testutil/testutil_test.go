package testutil

import (
	"testing"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGraph(t *testing.T) {
	rng := NewRNG(4711)
	g := rng.RandomGraph(50, 200, []string{"hypernym", "similar"})

	assert.Equal(t, 50, g.Size())
	assert.LessOrEqual(t, g.NumEdges(), 200)
	assert.Greater(t, g.NumEdges(), 0)
	assert.LessOrEqual(t, g.Relations().Len(), 2)

	for e := range g.NumEdges() {
		_, _, w, m := g.Edge(graph.EdgeID(e))
		assert.Greater(t, w, float32(0))
		assert.LessOrEqual(t, w, float32(1))
		assert.GreaterOrEqual(t, m.Count(), 1)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.RestartVector(20, 3)

	rng.Reset()
	b := rng.RestartVector(20, 3)

	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, Sum(a), 1e-6)
}

func TestReferencePageRank(t *testing.T) {
	g := Chain(4)
	ranks := ReferencePageRank(g, nil, 0.85, 50, false)
	require.Len(t, ranks, 4)
	assert.InDelta(t, 1.0, Sum(ranks), 1e-9)

	// Mass flows down the chain.
	assert.Less(t, ranks[0], ranks[3])
}

func TestDiamond(t *testing.T) {
	g := Diamond()
	assert.Equal(t, 5, g.Size())
	assert.Equal(t, 4, g.NumEdges())
}
