package lang

import (
	"math/rand/v2"
	"time"

	"github.com/ardnew/hermes/log"
)

// DefaultMaxDepth is the default maximum nesting depth of markers and calls.
const DefaultMaxDepth = 64

// options collects the configuration shared by registries, the parser and the
// evaluator. Each consumer reads only the fields it cares about.
type options struct {
	maxDepth int
	logger   log.Logger
	clock    func() time.Time
	rand     *rand.Rand
}

// Option configures a [Registry], [Parse], or [Evaluate].
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Non-positive values restore [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the time source used by current_time.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRand sets the random source used by the random_* built-ins.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// randomSource is seeded from the global generator so that two registries
// never share a sequence.
func randomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
