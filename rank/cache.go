package rank

import "github.com/PaulHuygen/ukb/graph"

// Mode records which transition coefficients a Cache currently holds.
type Mode uint8

const (
	// ModeInvalid means the coefficients must be recomputed before use.
	ModeInvalid Mode = iota
	// ModeUnweighted holds 1/outdegree per edge.
	ModeUnweighted
	// ModeWeighted holds weight/outweight per edge.
	ModeWeighted
)

func (m Mode) String() string {
	switch m {
	case ModeUnweighted:
		return "unweighted"
	case ModeWeighted:
		return "weighted"
	default:
		return "invalid"
	}
}

func modeFor(useWeight bool) Mode {
	if useWeight {
		return ModeWeighted
	}
	return ModeUnweighted
}

// Cache holds the per-edge transition coefficients of the random walk.
//
// Coefficients are tagged with the mode and the store generation they were
// computed at. Any edge insertion or weight change moves the generation,
// so a later Ensure recomputes them.
type Cache struct {
	mode  Mode
	gen   uint64
	coefs []float64

	// dangling lists vertices whose outgoing mass is zero.
	dangling []graph.VertexID
}

// NewCache returns an empty, invalid cache.
func NewCache() *Cache {
	return &Cache{}
}

// Mode returns the current tag.
func (c *Cache) Mode() Mode {
	return c.mode
}

// Invalidate resets the tag so the next Ensure recomputes.
func (c *Cache) Invalidate() {
	c.mode = ModeInvalid
}

// Valid reports whether the coefficients match g and the requested mode.
func (c *Cache) Valid(g *graph.Store, useWeight bool) bool {
	return c.mode == modeFor(useWeight) &&
		c.gen == g.Generation() &&
		len(c.coefs) == g.NumEdges()
}

// Ensure recomputes the coefficients in one pass over the edges unless they
// are already valid for g and useWeight. It reports whether it recomputed.
func (c *Cache) Ensure(g *graph.Store, useWeight bool) bool {
	if c.Valid(g, useWeight) {
		return false
	}

	n := g.Size()
	out := make([]float64, n)
	for v := range n {
		for _, e := range g.OutEdges(graph.VertexID(v)) {
			if useWeight {
				out[v] += float64(g.EdgeWeight(e))
			} else {
				out[v]++
			}
		}
	}

	c.coefs = growFloat64(c.coefs, g.NumEdges())
	for i := range c.coefs {
		e := graph.EdgeID(i)
		src := g.Source(e)
		switch {
		case out[src] == 0:
			c.coefs[i] = 0
		case useWeight:
			c.coefs[i] = float64(g.EdgeWeight(e)) / out[src]
		default:
			c.coefs[i] = 1 / out[src]
		}
	}

	c.dangling = c.dangling[:0]
	for v, w := range out {
		if w == 0 {
			c.dangling = append(c.dangling, graph.VertexID(v))
		}
	}

	c.mode = modeFor(useWeight)
	c.gen = g.Generation()
	return true
}

func growFloat64(s []float64, n int) []float64 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float64, n)
}
