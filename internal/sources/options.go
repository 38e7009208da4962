package sources

import (
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Option customises a source.
type Option func(*options)

type options struct {
	logger    interfaces.Logger
	normalize posts.NormalizeOptions
}

func resolve(opts []Option) options {
	cfg := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger used to report skipped records and fallbacks.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNormalizeOptions overrides the author and read time defaults.
func WithNormalizeOptions(normalize posts.NormalizeOptions) Option {
	return func(o *options) {
		o.normalize = normalize
	}
}
