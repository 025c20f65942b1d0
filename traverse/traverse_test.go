package traverse

import (
	"math"
	"testing"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBFS(t *testing.T) {
	g := testutil.Diamond()
	a, _ := g.ConceptByName("a")
	d, _ := g.ConceptByName("d")
	e, _ := g.ConceptByName("e")

	t.Run("DiscoveryOrder", func(t *testing.T) {
		ok, order := BFS(g, a)
		require.True(t, ok)
		assert.Equal(t, []graph.VertexID{0, 1, 2, 3}, order)
	})

	t.Run("SourceWithoutOutEdges", func(t *testing.T) {
		ok, order := BFS(g, d)
		require.True(t, ok)
		assert.Equal(t, []graph.VertexID{d}, order)

		ok, order = BFS(g, e)
		require.True(t, ok)
		assert.Equal(t, []graph.VertexID{e}, order)
	})

	t.Run("MissingSource", func(t *testing.T) {
		ok, order := BFS(g, 99)
		assert.False(t, ok)
		assert.Nil(t, order)
		assert.True(t, Reachable(g, 99).IsEmpty())
	})

	t.Run("Cycle", func(t *testing.T) {
		g := testutil.Chain(3)
		g.FindOrInsertEdge(2, 0, 1)
		ok, order := BFS(g, 1)
		require.True(t, ok)
		assert.Equal(t, []graph.VertexID{1, 2, 0}, order)
	})
}

func TestBFSMatchesReachability(t *testing.T) {
	rng := testutil.NewRNG(4711)
	g := rng.RandomGraph(200, 300, nil)

	for src := range 20 {
		ok, order := BFS(g, graph.VertexID(src))
		require.True(t, ok)

		// Each vertex exactly once.
		seen := make(map[graph.VertexID]bool, len(order))
		for _, v := range order {
			require.False(t, seen[v], "vertex %d visited twice", v)
			seen[v] = true
		}

		// Closed under out-edges: nothing reachable is missing.
		for _, u := range order {
			for _, e := range g.OutEdges(u) {
				assert.True(t, seen[g.Target(e)])
			}
		}

		set := Reachable(g, graph.VertexID(src))
		assert.Equal(t, uint64(len(order)), set.GetCardinality())
	}
}

func TestWithRelationMask(t *testing.T) {
	g := graph.New()
	a := g.FindOrInsertConcept("a")
	b := g.FindOrInsertConcept("b")
	c := g.FindOrInsertConcept("c")
	ab := g.FindOrInsertEdge(a, b, 5)
	ac := g.FindOrInsertEdge(a, c, 1)
	cb := g.FindOrInsertEdge(c, b, 1)
	require.NoError(t, g.AddRelationLabel(ab, "hypernym"))
	require.NoError(t, g.AddRelationLabel(ac, "similar"))
	require.NoError(t, g.AddRelationLabel(cb, "similar"))

	hyp, err := g.Relations().Encode("hypernym")
	require.NoError(t, err)

	_, order := BFS(g, a, WithRelationMask(hyp))
	assert.Equal(t, []graph.VertexID{a, b}, order)

	sp, ok := Dijkstra(g, a, WithRelationMask(hyp))
	require.True(t, ok)
	assert.Equal(t, 5.0, sp.Dist[b])
	assert.False(t, sp.Reached(c))

	sp, _ = Dijkstra(g, a)
	assert.Equal(t, 2.0, sp.Dist[b])
	assert.Equal(t, []graph.VertexID{a, c, b}, sp.PathTo(b))
}

func TestDijkstra(t *testing.T) {
	g := testutil.Diamond()
	a, _ := g.ConceptByName("a")
	b, _ := g.ConceptByName("b")
	c, _ := g.ConceptByName("c")
	d, _ := g.ConceptByName("d")
	e, _ := g.ConceptByName("e")

	sp, ok := Dijkstra(g, a)
	require.True(t, ok)

	assert.Equal(t, a, sp.Parents[a])
	assert.Equal(t, a, sp.Parents[b])
	assert.Equal(t, b, sp.Parents[c])
	assert.Equal(t, c, sp.Parents[d])
	assert.Equal(t, graph.NoVertex, sp.Parents[e])

	assert.Equal(t, []float64{0, 1, 2, 3}, sp.Dist[:4])
	assert.True(t, math.IsInf(sp.Dist[e], 1))

	assert.Equal(t, []graph.VertexID{a, b, c, d}, sp.PathTo(d))
	assert.Equal(t, []graph.VertexID{a}, sp.PathTo(a))
	assert.Nil(t, sp.PathTo(e))

	_, ok = Dijkstra(g, 42)
	assert.False(t, ok)
}

func TestDijkstraParentsAreShortest(t *testing.T) {
	rng := testutil.NewRNG(7)
	g := rng.RandomGraph(150, 600, nil)

	sp, ok := Dijkstra(g, 0)
	require.True(t, ok)
	_, order := BFS(g, 0)

	reached := Reachable(g, 0)
	for v := range g.Size() {
		assert.Equal(t, reached.Contains(uint32(v)), sp.Reached(graph.VertexID(v)))
	}
	assert.Len(t, order, int(reached.GetCardinality()))

	for v := range g.Size() {
		id := graph.VertexID(v)
		if !sp.Reached(id) || id == 0 {
			continue
		}
		// The parent edge exists and is tight.
		p := sp.Parents[id]
		edge, ok := g.FindEdge(p, id)
		require.True(t, ok)
		assert.InDelta(t, sp.Dist[p]+float64(g.EdgeWeight(edge)), sp.Dist[id], 1e-9)

		// No edge can improve the distance.
		for _, in := range g.InEdges(id) {
			u := g.Source(in)
			if sp.Reached(u) {
				assert.LessOrEqual(t, sp.Dist[id], sp.Dist[u]+float64(g.EdgeWeight(in))+1e-9)
			}
		}
	}
}
