package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/PaulHuygen/ukb/graph"
)

// RNG wraps a seeded generator. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a generator with the given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Reset rewinds the generator to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float32 returns a pseudo-random number in [0,1).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Rand returns an independent generator seeded from r, for APIs that take
// a *rand.Rand such as graph.Store.RandomVertex.
func (r *RNG) Rand() *rand.Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.New(rand.NewPCG(r.rand.Uint64(), r.rand.Uint64()))
}

// RandomGraph builds a concept graph with n vertices named c0..c{n-1} and up
// to edges random edges. Weights are uniform in (0,1] and each edge carries
// one label drawn from labels (no label when labels is empty).
func (r *RNG) RandomGraph(n, edges int, labels []string) *graph.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := graph.New()
	for i := range n {
		g.FindOrInsertConcept(fmt.Sprintf("c%d", i))
	}
	if n == 0 {
		return g
	}
	for range edges {
		u := graph.VertexID(r.rand.IntN(n))
		v := graph.VertexID(r.rand.IntN(n))
		e := g.FindOrInsertEdge(u, v, 1-r.rand.Float32())
		if len(labels) > 0 {
			// Fixture labels never exceed the registry width.
			_ = g.AddRelationLabel(e, labels[r.rand.IntN(len(labels))])
		}
	}
	return g
}

// RestartVector returns a length-n vector with uniform mass on k random
// entries (k is clamped to n).
func (r *RNG) RestartVector(n, k int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float32, n)
	if n == 0 || k <= 0 {
		return out
	}
	k = min(k, n)
	for _, i := range r.rand.Perm(n)[:k] {
		out[i] = 1 / float32(k)
	}
	return out
}

// Chain builds the directed path c0 -> c1 -> ... -> c{n-1} with unit weights.
func Chain(n int) *graph.Store {
	g := graph.New()
	var prev graph.VertexID
	for i := range n {
		v := g.FindOrInsertConcept(fmt.Sprintf("c%d", i))
		if i > 0 {
			g.FindOrInsertEdge(prev, v, 1)
		}
		prev = v
	}
	return g
}

// Diamond builds a -> b (1), a -> c (4), b -> c (1), c -> d (1) plus an
// isolated vertex e. The cheapest a..d path is a, b, c, d with cost 3.
func Diamond() *graph.Store {
	g := graph.New()
	a := g.FindOrInsertConcept("a")
	b := g.FindOrInsertConcept("b")
	c := g.FindOrInsertConcept("c")
	d := g.FindOrInsertConcept("d")
	g.FindOrInsertConcept("e")
	g.FindOrInsertEdge(a, b, 1)
	g.FindOrInsertEdge(a, c, 4)
	g.FindOrInsertEdge(b, c, 1)
	g.FindOrInsertEdge(c, d, 1)
	return g
}

// ReferencePageRank is a dense power iteration used as ground truth. It
// runs exactly iterations steps of
//
//	rank' = (1-d)*restart + d*(M*rank + dangling*restart/sum(restart))
//
// where M is the column-stochastic transition matrix built from out-edges
// (weighted or not). A zero restart vector is replaced by the uniform one.
func ReferencePageRank(g *graph.Store, restart []float32, damping float64, iterations int, useWeight bool) []float64 {
	n := g.Size()
	if n == 0 {
		return nil
	}

	p := make([]float64, n)
	var sum float64
	for i := 0; i < n && i < len(restart); i++ {
		p[i] = float64(restart[i])
		sum += p[i]
	}
	for i := range p {
		if sum > 0 {
			p[i] /= sum
		} else {
			p[i] = 1 / float64(n)
		}
	}

	out := make([]float64, n)
	for u := range n {
		for _, e := range g.OutEdges(graph.VertexID(u)) {
			if useWeight {
				out[u] += float64(g.EdgeWeight(e))
			} else {
				out[u]++
			}
		}
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for range iterations {
		var dangling float64
		for u := range n {
			if out[u] == 0 {
				dangling += rank[u]
			}
		}
		for i := range next {
			next[i] = 0
		}
		for u := range n {
			if out[u] == 0 {
				continue
			}
			for _, e := range g.OutEdges(graph.VertexID(u)) {
				w := 1.0
				if useWeight {
					w = float64(g.EdgeWeight(e))
				}
				next[g.Target(e)] += rank[u] * w / out[u]
			}
		}
		for i := range next {
			next[i] = (1-damping)*p[i] + damping*(next[i]+dangling*p[i])
		}
		rank, next = next, rank
	}
	return rank
}

// Sum returns the sum of xs.
func Sum[T float32 | float64](xs []T) float64 {
	var s float64
	for _, x := range xs {
		s += float64(x)
	}
	return s
}

// MaxAbsDiff returns the largest absolute difference between a and b.
func MaxAbsDiff(a []float32, b []float64) float64 {
	var m float64
	for i := range min(len(a), len(b)) {
		m = math.Max(m, math.Abs(float64(a[i])-b[i]))
	}
	return m
}
