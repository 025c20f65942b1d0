package traverse

import "github.com/PaulHuygen/ukb/relation"

type options struct {
	mask relation.Mask
}

// Option configures a traversal.
type Option func(*options)

// WithRelationMask restricts a traversal to edges carrying at least one of
// the relation bits in m. A zero mask follows every edge.
func WithRelationMask(m relation.Mask) Option {
	return func(o *options) {
		o.mask = m
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) follows(m relation.Mask) bool {
	return o.mask == 0 || o.mask.Intersects(m)
}
