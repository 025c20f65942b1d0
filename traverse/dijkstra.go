package traverse

import (
	"container/heap"
	"math"
	"slices"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/internal/visited"
)

// ShortestPaths is the single-source shortest-path tree computed by Dijkstra.
type ShortestPaths struct {
	// Source is the root of the tree.
	Source graph.VertexID
	// Parents[v] is the predecessor of v on a shortest path, Parents[Source]
	// is Source, and unreached vertices hold graph.NoVertex.
	Parents []graph.VertexID
	// Dist[v] is the path cost from Source, +Inf when unreached.
	Dist []float64
}

// Reached reports whether v lies in the shortest-path tree.
func (sp *ShortestPaths) Reached(v graph.VertexID) bool {
	return int(v) < len(sp.Parents) && sp.Parents[v] != graph.NoVertex
}

// PathTo returns the vertices of a shortest path from Source to v, both
// ends included, or nil when v was not reached.
func (sp *ShortestPaths) PathTo(v graph.VertexID) []graph.VertexID {
	if !sp.Reached(v) {
		return nil
	}
	var path []graph.VertexID
	for {
		path = append(path, v)
		if v == sp.Source {
			break
		}
		v = sp.Parents[v]
	}
	slices.Reverse(path)
	return path
}

// Dijkstra computes shortest paths from src using edge weights as costs.
// Weights are non-negative by construction of the store. It reports false
// only when src is not a vertex of g.
func Dijkstra(g *graph.Store, src graph.VertexID, opts ...Option) (*ShortestPaths, bool) {
	if !g.Has(src) {
		return nil, false
	}
	o := applyOptions(opts)
	n := g.Size()

	sp := &ShortestPaths{
		Source:  src,
		Parents: make([]graph.VertexID, n),
		Dist:    make([]float64, n),
	}
	for i := range sp.Parents {
		sp.Parents[i] = graph.NoVertex
		sp.Dist[i] = math.Inf(1)
	}
	sp.Parents[src] = src
	sp.Dist[src] = 0

	settled := visited.Get(n)
	defer visited.Put(settled)

	pq := make(frontier, 0, 64)
	heap.Push(&pq, item{v: src, dist: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(item)
		// Stale entry left behind by a later, shorter push.
		if !settled.Visit(uint32(cur.v)) {
			continue
		}
		for _, e := range g.OutEdges(cur.v) {
			if !o.follows(g.EdgeMask(e)) {
				continue
			}
			v := g.Target(e)
			if settled.Visited(uint32(v)) {
				continue
			}
			d := cur.dist + float64(g.EdgeWeight(e))
			if d < sp.Dist[v] {
				sp.Dist[v] = d
				sp.Parents[v] = cur.v
				heap.Push(&pq, item{v: v, dist: d})
			}
		}
	}
	return sp, true
}

type item struct {
	v    graph.VertexID
	dist float64
}

// frontier is a min-heap on dist with lazy decrease-key.
type frontier []item

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist == f[j].dist {
		return f[i].v < f[j].v
	}
	return f[i].dist < f[j].dist
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(item)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}
