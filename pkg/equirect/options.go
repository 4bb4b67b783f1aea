package equirect

import (
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/pkg/remap"
)

// DegenerateWarnFraction is the share of degenerate rays above which a
// projection logs a warning.
const DegenerateWarnFraction = 1e-6

// degenerateEpsilon is the smallest rotated-ray norm that is normalized as is.
const degenerateEpsilon = 1e-12

type options struct {
	workers int
	logger  *zap.Logger
	remap   remap.Options
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		remap:  remap.DefaultOptions(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures projection and resampling.
type Option func(*options)

// WithWorkers sets how many scanline bands are processed at once.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
		o.remap.Workers = n
	}
}

// WithLogger sets the logger used for stage timings and degenerate ray warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithRemapOptions sets the interpolation and border policy of the resampler.
// The worker count set by WithWorkers is kept when it was given first.
func WithRemapOptions(r remap.Options) Option {
	return func(o *options) {
		if r.Workers == 0 {
			r.Workers = o.workers
		}
		o.remap = r
	}
}
