package ukb

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/rank"
	"github.com/PaulHuygen/ukb/traverse"
)

// PageRankPPV runs personalized PageRank with the given restart vector.
func (kb *KB) PageRankPPV(ctx context.Context, restart []float32, useWeight bool) *rank.Result {
	start := time.Now()
	res := kb.ranker.PageRankPPV(ctx, restart, useWeight)
	kb.opts.metricsCollector.RecordRank(res.Iterations, res.Converged, time.Since(start))
	return res
}

// PPVWeights sets every edge weight to the rank of its target vertex.
func (kb *KB) PPVWeights(ppv []float32) {
	kb.ranker.PPVWeights(ppv)
}

// RankBatch ranks several restart vectors concurrently.
func (kb *KB) RankBatch(ctx context.Context, restarts [][]float32, useWeight bool, parallelism int) ([]*rank.Result, error) {
	start := time.Now()
	results, err := kb.ranker.RankBatch(ctx, restarts, useWeight, parallelism)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	for _, res := range results {
		kb.opts.metricsCollector.RecordRank(res.Iterations, res.Converged, elapsed/time.Duration(max(len(results), 1)))
	}
	return results, nil
}

// ContextRestart builds a restart vector spreading unit mass uniformly over
// the vertices named in words. Each name is looked up as a word first, then
// as a concept; unknown names are skipped. It returns the vector and the
// number of names matched.
func (kb *KB) ContextRestart(words []string) ([]float32, int) {
	restart := make([]float32, kb.g.Size())
	var hits []graph.VertexID
	for _, w := range words {
		v, ok := kb.g.WordByName(w)
		if !ok {
			v, ok = kb.g.ConceptByName(w)
		}
		if ok {
			hits = append(hits, v)
		}
	}
	if len(hits) == 0 {
		return restart, 0
	}
	mass := 1 / float32(len(hits))
	for _, v := range hits {
		restart[v] += mass
	}
	return restart, len(hits)
}

// Ranked is a vertex with its PageRank score.
type Ranked struct {
	Vertex graph.VertexID
	Name   string
	Rank   float32
}

// TopConcepts returns the k highest ranked concept vertices, highest first,
// ties broken by vertex id. k <= 0 returns all concepts.
func (kb *KB) TopConcepts(ranks []float32, k int) []Ranked {
	n := min(len(ranks), kb.g.Size())
	out := make([]Ranked, 0, n)
	for i := range n {
		v := graph.VertexID(i)
		if kb.g.IsConcept(v) {
			out = append(out, Ranked{Vertex: v, Name: kb.g.Name(v), Rank: ranks[i]})
		}
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.Vertex, b.Vertex)
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// BFS returns the vertices reachable from src in discovery order.
func (kb *KB) BFS(ctx context.Context, src graph.VertexID, opts ...traverse.Option) (bool, []graph.VertexID) {
	start := time.Now()
	ok, order := traverse.BFS(kb.g, src, opts...)
	kb.recordTraversal(ctx, "bfs", src, len(order), start)
	return ok, order
}

// Reachable returns the set of vertices reachable from src.
func (kb *KB) Reachable(ctx context.Context, src graph.VertexID, opts ...traverse.Option) *roaring.Bitmap {
	start := time.Now()
	set := traverse.Reachable(kb.g, src, opts...)
	kb.recordTraversal(ctx, "reachable", src, int(set.GetCardinality()), start)
	return set
}

// Dijkstra computes the shortest-path tree rooted at src.
func (kb *KB) Dijkstra(ctx context.Context, src graph.VertexID, opts ...traverse.Option) (*traverse.ShortestPaths, bool) {
	start := time.Now()
	sp, ok := traverse.Dijkstra(kb.g, src, opts...)
	reached := 0
	if ok {
		for _, p := range sp.Parents {
			if p != graph.NoVertex {
				reached++
			}
		}
	}
	kb.recordTraversal(ctx, "dijkstra", src, reached, start)
	return sp, ok
}

func (kb *KB) recordTraversal(ctx context.Context, algorithm string, src graph.VertexID, reached int, start time.Time) {
	kb.opts.metricsCollector.RecordTraversal(algorithm, reached, time.Since(start))
	name := ""
	if kb.g.Has(src) {
		name = kb.g.Name(src)
	}
	kb.opts.logger.LogTraversal(ctx, algorithm, name, reached)
}
