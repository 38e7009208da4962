package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ChainSource tries sources in order and returns the posts of the first one
// that loads successfully.
type ChainSource struct {
	sources []interfaces.PostSource
	options options
}

var _ interfaces.PostSource = (*ChainSource)(nil)

// NewChainSource builds a chain. Nil sources are ignored.
func NewChainSource(list []interfaces.PostSource, opts ...Option) *ChainSource {
	filtered := make([]interfaces.PostSource, 0, len(list))
	for _, source := range list {
		if source != nil {
			filtered = append(filtered, source)
		}
	}
	return &ChainSource{sources: filtered, options: resolve(opts)}
}

func (c *ChainSource) Name() string {
	names := make([]string, 0, len(c.sources))
	for _, source := range c.sources {
		names = append(names, source.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Load returns the first non-empty result. When every source fails it returns
// an empty slice and an error joining ErrAllSourcesFailed with each cause.
func (c *ChainSource) Load(ctx context.Context) ([]interfaces.Post, error) {
	causes := []error{ErrAllSourcesFailed}
	for _, source := range c.sources {
		if err := ctx.Err(); err != nil {
			return []interfaces.Post{}, err
		}

		loaded, err := source.Load(ctx)
		if err == nil && len(loaded) == 0 {
			err = fmt.Errorf("%w: %s", ErrSourceEmpty, source.Name())
		}
		if err != nil {
			logging.WithSourceContext(c.options.logger, source.Name(), "", "").
				Warn("sources.fallback", "error", err)
			causes = append(causes, err)
			continue
		}

		c.options.logger.Debug("sources.selected", "source", source.Name(), "count", len(loaded))
		return loaded, nil
	}
	return []interfaces.Post{}, errors.Join(causes...)
}

// LoadAll is Load for callers that never want an error: a total failure is
// logged and reported as an empty list.
func (c *ChainSource) LoadAll(ctx context.Context) []interfaces.Post {
	loaded, err := c.Load(ctx)
	if err != nil {
		c.options.logger.Error("sources.load_failed", "error", err)
		return []interfaces.Post{}
	}
	return loaded
}

// DefaultChain is the standard resolution: the content directory first, then
// the compiled-in dataset.
func DefaultChain(contentDir string, opts ...Option) *ChainSource {
	var list []interfaces.PostSource
	if strings.TrimSpace(contentDir) != "" {
		list = append(list, NewFilesystemSource(contentDir, opts...))
	}
	list = append(list, NewEmbeddedSource(opts...))
	return NewChainSource(list, opts...)
}
