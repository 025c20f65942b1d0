package ukb

import (
	"github.com/PaulHuygen/ukb/rank"
	"github.com/PaulHuygen/ukb/snapshot"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	rank             rank.Options
	compression      snapshot.Compression
	blockSize        int
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		rank:             rank.DefaultOptions(),
		compression:      snapshot.CompressionNone,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Option configures a KB or Handle.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. A nil collector disables metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithRankOptions sets damping, iteration cap and convergence threshold.
// Invalid values fall back to the rank defaults.
func WithRankOptions(ro rank.Options) Option {
	return func(o *options) {
		o.rank = ro
	}
}

// WithCompression selects the snapshot body codec used when writing.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed size of compressed snapshot blocks.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

func (o options) snapshotOptions() []snapshot.Option {
	out := []snapshot.Option{snapshot.WithCompression(o.compression)}
	if o.blockSize > 0 {
		out = append(out, snapshot.WithBlockSize(o.blockSize))
	}
	return out
}
