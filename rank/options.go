package rank

// Defaults of the power iteration.
const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 30
	DefaultThreshold     = 1e-4
)

// Options configures the power iteration.
type Options struct {
	// Damping is the probability of following an edge instead of
	// teleporting to the restart distribution. Must be in [0, 1].
	Damping float64

	// MaxIterations bounds the number of iterations. Must be > 0.
	MaxIterations int

	// Threshold stops the iteration once the L1 change between two
	// consecutive rank vectors falls below it. Must be > 0.
	Threshold float64
}

// DefaultOptions returns damping 0.85, 30 iterations and threshold 1e-4.
func DefaultOptions() Options {
	return Options{
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Threshold:     DefaultThreshold,
	}
}

// Validate replaces out-of-range values with their defaults.
func (o *Options) Validate() {
	if o.Damping < 0 || o.Damping > 1 || o.Damping != o.Damping {
		o.Damping = DefaultDamping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if !(o.Threshold > 0) {
		o.Threshold = DefaultThreshold
	}
}
