// Package observability exports ukb metrics to Prometheus.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/PaulHuygen/ukb"
)

const namespace = "ukb"

var _ ukb.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements ukb.MetricsCollector.
type PrometheusCollector struct {
	opLatency     *prometheus.HistogramVec
	ingested      *prometheus.CounterVec
	snapshotBytes *prometheus.CounterVec
	rankRuns      *prometheus.CounterVec
	rankIters     prometheus.Histogram
	reached       *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of graph operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relations_total",
			Help:      "Relation records seen during ingestion",
		}, []string{"result"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Snapshot bytes written or read",
		}, []string{"op"}),
		rankRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_runs_total",
			Help:      "Personalized PageRank runs",
		}, []string{"converged"}),
		rankIters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_iterations",
			Help:      "Power iterations per PageRank run",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
		reached: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_reached_vertices",
			Help:      "Vertices reached per traversal",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"algorithm"}),
	}
	reg.MustRegister(c.opLatency, c.ingested, c.snapshotBytes, c.rankRuns, c.rankIters, c.reached)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordIngest implements ukb.MetricsCollector.
func (c *PrometheusCollector) RecordIngest(applied, dropped int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("ingest", status(err)).Observe(d.Seconds())
	c.ingested.WithLabelValues("applied").Add(float64(applied))
	c.ingested.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordSnapshot implements ukb.MetricsCollector.
func (c *PrometheusCollector) RecordSnapshot(op string, size int64, d time.Duration, err error) {
	c.opLatency.WithLabelValues("snapshot_"+op, status(err)).Observe(d.Seconds())
	if err == nil && size > 0 {
		c.snapshotBytes.WithLabelValues(op).Add(float64(size))
	}
}

// RecordRank implements ukb.MetricsCollector.
func (c *PrometheusCollector) RecordRank(iterations int, converged bool, d time.Duration) {
	c.opLatency.WithLabelValues("rank", "success").Observe(d.Seconds())
	c.rankRuns.WithLabelValues(strconv.FormatBool(converged)).Inc()
	c.rankIters.Observe(float64(iterations))
}

// RecordTraversal implements ukb.MetricsCollector.
func (c *PrometheusCollector) RecordTraversal(algorithm string, reached int, d time.Duration) {
	c.opLatency.WithLabelValues(algorithm, "success").Observe(d.Seconds())
	c.reached.WithLabelValues(algorithm).Observe(float64(reached))
}
