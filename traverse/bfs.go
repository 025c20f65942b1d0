// Package traverse implements reachability and shortest-path queries over a
// graph.Store. All functions treat the graph as read-only and follow
// outgoing edges only.
package traverse

import (
	"github.com/PaulHuygen/ukb/graph"
	"github.com/RoaringBitmap/roaring/v2"
)

// BFS explores the vertices reachable from src over outgoing edges and
// returns them in discovery order, starting with src. It reports false
// only when src is not a vertex of g.
func BFS(g *graph.Store, src graph.VertexID, opts ...Option) (bool, []graph.VertexID) {
	if !g.Has(src) {
		return false, nil
	}
	o := applyOptions(opts)

	seen := roaring.New()
	seen.Add(uint32(src))
	order := []graph.VertexID{src}

	for head := 0; head < len(order); head++ {
		u := order[head]
		for _, e := range g.OutEdges(u) {
			if !o.follows(g.EdgeMask(e)) {
				continue
			}
			v := g.Target(e)
			if seen.CheckedAdd(uint32(v)) {
				order = append(order, v)
			}
		}
	}
	return true, order
}

// Reachable returns the set of vertices reachable from src, src included.
// The set is empty when src is not a vertex of g.
func Reachable(g *graph.Store, src graph.VertexID, opts ...Option) *roaring.Bitmap {
	ok, order := BFS(g, src, opts...)
	out := roaring.New()
	if !ok {
		return out
	}
	ids := make([]uint32, len(order))
	for i, v := range order {
		ids[i] = uint32(v)
	}
	out.AddMany(ids)
	return out
}
