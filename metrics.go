package ukb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a KB.
// observability.PrometheusCollector exports them to Prometheus.
type MetricsCollector interface {
	// RecordIngest is called after each text or dictionary ingestion.
	RecordIngest(applied, dropped int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot write ("write") or
	// load ("read"). size is the encoded size in bytes when known.
	RecordSnapshot(op string, size int64, duration time.Duration, err error)

	// RecordRank is called after each personalized PageRank run.
	RecordRank(iterations int, converged bool, duration time.Duration)

	// RecordTraversal is called after each BFS or Dijkstra run.
	RecordTraversal(algorithm string, reached int, duration time.Duration)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordSnapshot(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRank(int, bool, time.Duration)                {}
func (NoopMetricsCollector) RecordTraversal(string, int, time.Duration)         {}

// BasicMetricsCollector keeps in-memory counters.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	IngestCount      atomic.Int64
	IngestErrors     atomic.Int64
	IngestApplied    atomic.Int64
	IngestDropped    atomic.Int64
	SnapshotWrites   atomic.Int64
	SnapshotReads    atomic.Int64
	SnapshotErrors   atomic.Int64
	SnapshotBytes    atomic.Int64
	RankCount        atomic.Int64
	RankIterations   atomic.Int64
	RankUnconverged  atomic.Int64
	RankTotalNanos   atomic.Int64
	TraversalCount   atomic.Int64
	TraversalReached atomic.Int64
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(applied, dropped int, _ time.Duration, err error) {
	b.IngestCount.Add(1)
	b.IngestApplied.Add(int64(applied))
	b.IngestDropped.Add(int64(dropped))
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, size int64, _ time.Duration, err error) {
	if op == "read" {
		b.SnapshotReads.Add(1)
	} else {
		b.SnapshotWrites.Add(1)
	}
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(size)
}

// RecordRank implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRank(iterations int, converged bool, duration time.Duration) {
	b.RankCount.Add(1)
	b.RankIterations.Add(int64(iterations))
	b.RankTotalNanos.Add(duration.Nanoseconds())
	if !converged {
		b.RankUnconverged.Add(1)
	}
}

// RecordTraversal implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraversal(_ string, reached int, _ time.Duration) {
	b.TraversalCount.Add(1)
	b.TraversalReached.Add(int64(reached))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		IngestCount:      b.IngestCount.Load(),
		IngestErrors:     b.IngestErrors.Load(),
		IngestApplied:    b.IngestApplied.Load(),
		IngestDropped:    b.IngestDropped.Load(),
		SnapshotWrites:   b.SnapshotWrites.Load(),
		SnapshotReads:    b.SnapshotReads.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotBytes:    b.SnapshotBytes.Load(),
		RankCount:        b.RankCount.Load(),
		RankIterations:   b.RankIterations.Load(),
		RankUnconverged:  b.RankUnconverged.Load(),
		TraversalCount:   b.TraversalCount.Load(),
		TraversalReached: b.TraversalReached.Load(),
	}
	if stats.RankCount > 0 {
		stats.RankAvgNanos = b.RankTotalNanos.Load() / stats.RankCount
	}
	return stats
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IngestCount      int64
	IngestErrors     int64
	IngestApplied    int64
	IngestDropped    int64
	SnapshotWrites   int64
	SnapshotReads    int64
	SnapshotErrors   int64
	SnapshotBytes    int64
	RankCount        int64
	RankIterations   int64
	RankUnconverged  int64
	RankAvgNanos     int64
	TraversalCount   int64
	TraversalReached int64
}
