// Package rank computes personalized PageRank vectors over a graph.Store.
//
// A Ranker runs the power iteration
//
//	rank' = (1-d)*p + d*(M*rank + dangling*p)
//
// where p is the restart vector normalized to sum 1 (uniform when it sums to
// zero), M is the transition matrix built from out-edges, and dangling is the
// mass sitting on vertices without outgoing mass. The transition
// coefficients live in a Cache shared by every ranking of the same graph.
package rank

import (
	"context"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/PaulHuygen/ukb/graph"
)

var tracer = otel.Tracer("ukb/rank")

// Result is the output of one personalized PageRank run.
type Result struct {
	// Ranks has one entry per vertex and sums to 1 (up to rounding).
	Ranks []float32

	// Iterations is the number of iterations performed.
	Iterations int

	// Converged is true when the L1 delta fell below the threshold.
	Converged bool

	// Delta is the L1 change of the last iteration.
	Delta float64
}

// Ranker runs personalized PageRank on a store. It is not safe for
// concurrent use, except for the parallel work RankBatch does internally.
type Ranker struct {
	g      *graph.Store
	cache  *Cache
	opts   Options
	logger *slog.Logger
}

// NewRanker creates a ranker. A nil cache gets a private one; a nil logger
// uses slog.Default.
func NewRanker(g *graph.Store, cache *Cache, opts Options, logger *slog.Logger) *Ranker {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts.Validate()
	return &Ranker{g: g, cache: cache, opts: opts, logger: logger}
}

// Options returns the validated options.
func (r *Ranker) Options() Options {
	return r.opts
}

// Cache returns the coefficient cache.
func (r *Ranker) Cache() *Cache {
	return r.cache
}

// PageRankPPV ranks every vertex with respect to restart. A restart vector
// shorter than the graph is zero-padded and a longer one is truncated. The
// result always has one entry per vertex. Cancelling ctx stops the
// iteration early and returns the current vector unconverged.
func (r *Ranker) PageRankPPV(ctx context.Context, restart []float32, useWeight bool) *Result {
	r.cache.Ensure(r.g, useWeight)
	return r.run(ctx, restart, useWeight)
}

// PPVWeights rewrites every edge weight to the rank of its target vertex,
// weight(u->v) = ppv[v], and invalidates the cache. Targets beyond the end
// of ppv, and negative or non-finite entries, give weight 0.
func (r *Ranker) PPVWeights(ppv []float32) {
	for i := range r.g.NumEdges() {
		e := graph.EdgeID(i)
		var w float32
		if v := r.g.Target(e); int(v) < len(ppv) {
			w = edgeWeight(ppv[v])
		}
		r.g.SetEdgeWeight(e, w)
	}
	r.cache.Invalidate()
}

func edgeWeight(x float32) float32 {
	f := float64(x)
	if f > 0 && !math.IsInf(f, 0) {
		return x
	}
	return 0
}

// RankBatch ranks several restart vectors. The cache is prepared once, then
// up to parallelism rankings run concurrently against it (parallelism <= 0
// means one per restart vector). Results are returned in input order.
func (r *Ranker) RankBatch(ctx context.Context, restarts [][]float32, useWeight bool, parallelism int) ([]*Result, error) {
	r.cache.Ensure(r.g, useWeight)

	out := make([]*Result, len(restarts))
	eg, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}
	for i, restart := range restarts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.run(ctx, restart, useWeight)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// run assumes the cache is valid and only reads shared state.
func (r *Ranker) run(ctx context.Context, restart []float32, useWeight bool) *Result {
	start := time.Now()
	n := r.g.Size()

	_, span := tracer.Start(ctx, "Ranker.PageRankPPV",
		trace.WithAttributes(
			attribute.Int("vertex_count", n),
			attribute.Int("edge_count", r.g.NumEdges()),
			attribute.Bool("weighted", useWeight),
		),
	)
	defer span.End()

	if n == 0 {
		span.AddEvent("empty_graph")
		return &Result{Ranks: []float32{}, Converged: true}
	}

	p := restartDistribution(restart, n)
	d := r.opts.Damping

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / float64(n)
	}
	next := make([]float64, n)

	var (
		iterations int
		converged  bool
		delta      float64
	)
	for iterations < r.opts.MaxIterations {
		if ctx.Err() != nil {
			span.AddEvent("cancelled", trace.WithAttributes(
				attribute.Int("iterations_completed", iterations),
			))
			break
		}

		var dangling float64
		for _, v := range r.cache.dangling {
			dangling += rank[v]
		}

		clear(next)
		for i, c := range r.cache.coefs {
			if c == 0 {
				continue
			}
			e := graph.EdgeID(i)
			next[r.g.Target(e)] += rank[r.g.Source(e)] * c
		}

		delta = 0
		for i := range next {
			next[i] = (1-d)*p[i] + d*(next[i]+dangling*p[i])
			delta += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank
		iterations++

		if delta < r.opts.Threshold {
			converged = true
			break
		}
	}

	ranks := make([]float32, n)
	for i, v := range rank {
		ranks[i] = float32(v)
	}

	r.logger.Debug("pagerank completed",
		slog.Int("iterations", iterations),
		slog.Bool("converged", converged),
		slog.Float64("delta", delta),
		slog.Int("vertex_count", n),
		slog.Duration("elapsed", time.Since(start)),
	)
	span.SetAttributes(
		attribute.Int("iterations", iterations),
		attribute.Bool("converged", converged),
		attribute.Float64("delta", delta),
	)

	return &Result{
		Ranks:      ranks,
		Iterations: iterations,
		Converged:  converged,
		Delta:      delta,
	}
}

// restartDistribution pads or truncates restart to n entries and normalizes
// it to sum 1. Negative and non-finite entries count as zero.
func restartDistribution(restart []float32, n int) []float64 {
	p := make([]float64, n)
	var sum float64
	for i := 0; i < n && i < len(restart); i++ {
		x := float64(restart[i])
		if x > 0 && !math.IsInf(x, 0) {
			p[i] = x
			sum += x
		}
	}
	if sum == 0 {
		for i := range p {
			p[i] = 1 / float64(n)
		}
		return p
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}
