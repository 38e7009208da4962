package query

import (
	"context"
	"errors"
	"net/url"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultPageSize is the number of posts revealed per page.
const DefaultPageSize = 6

// ErrNoPosts is returned by Load when neither source produced posts.
var ErrNoPosts = errors.New("query: no posts available")

// Option customises a Controller.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnChange registers a callback receiving the shareable values after every
// filter transition.
func WithOnChange(fn func(url.Values)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller keeps the listing view state: the active filters, how many posts
// are revealed, and whether posts are still loading. It is meant to be driven
// from a single goroutine and is not safe for concurrent use.
type Controller struct {
	repo         interfaces.PostRepository
	state        ViewState
	pageSize     int
	displayCount int
	loading      bool
	onChange     func(url.Values)
	logger       interfaces.Logger

	filtered []interfaces.Post
	stale    bool
}

// NewController builds a controller over repo. A nil repo yields a controller
// in the loading state with no posts until Load completes.
func NewController(repo interfaces.PostRepository, opts ...Option) *Controller {
	c := &Controller{
		repo:     repo,
		state:    DefaultState(),
		pageSize: DefaultPageSize,
		logger:   logging.NoOp(),
		stale:    true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.repo == nil {
		c.repo = posts.NewRepository(nil)
		c.loading = true
	}
	c.displayCount = c.pageSize
	return c
}

// Load resolves posts from primary and, when it fails or returns nothing, from
// fallback. The controller always leaves the loading state; when both sources
// fail it keeps an empty repository and returns ErrNoPosts joined with the
// causes.
func (c *Controller) Load(ctx context.Context, primary, fallback interfaces.PostSource) error {
	defer func() { c.loading = false }()

	var causes []error
	for _, source := range []interfaces.PostSource{primary, fallback} {
		if source == nil {
			continue
		}
		list, err := source.Load(ctx)
		if err == nil && len(list) > 0 {
			c.replace(posts.NewRepository(list, posts.WithLogger(c.logger)))
			c.logger.Debug("query.posts_loaded", "source", source.Name(), "count", len(list))
			return nil
		}
		if err == nil {
			err = errors.New("source " + source.Name() + " returned no posts")
		}
		c.logger.Warn("query.source_failed", "source", source.Name(), "error", err)
		causes = append(causes, err)
	}

	c.replace(posts.NewRepository(nil))
	return errors.Join(append([]error{ErrNoPosts}, causes...)...)
}

func (c *Controller) replace(repo interfaces.PostRepository) {
	c.repo = repo
	c.displayCount = c.pageSize
	c.stale = true
}

// SetSearch updates the search term and resets pagination.
func (c *Controller) SetSearch(term string) {
	c.state.Search = term
	c.changed()
}

// SetCategory selects a category and clears the tag filter.
func (c *Controller) SetCategory(category string) {
	if categoryUnset(category) {
		category = interfaces.AllCategories
	}
	c.state.Category = category
	c.state.Tag = ""
	c.changed()
}

// SetTag selects a tag and resets the category to All.
func (c *Controller) SetTag(tag string) {
	c.state.Tag = tag
	c.state.Category = interfaces.AllCategories
	c.changed()
}

// ClearFilters returns to the unfiltered first page.
func (c *Controller) ClearFilters() {
	c.state = DefaultState()
	c.changed()
}

// LoadMore reveals another page, capped at the filtered size. It reports
// whether anything new became visible.
func (c *Controller) LoadMore() bool {
	total := len(c.results())
	if c.displayCount >= total {
		return false
	}
	c.displayCount = min(c.displayCount+c.pageSize, total)
	return true
}

// ShowPages reveals the first n pages, as if LoadMore had been called n-1
// times after a reset.
func (c *Controller) ShowPages(n int) {
	c.displayCount = c.pageSize
	for i := 1; i < n; i++ {
		if !c.LoadMore() {
			return
		}
	}
}

// Restore applies state read from shareable values without notifying
// OnChange. When both a category and a tag are present the category wins and
// the tag is dropped, matching the repository filter precedence.
func (c *Controller) Restore(values url.Values) {
	state := FromValues(values)
	if !categoryUnset(state.Category) {
		state.Tag = ""
	}
	c.state = state
	c.displayCount = c.pageSize
	c.stale = true
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	return c.state
}

// Shareable returns the query parameters reproducing the current view.
func (c *Controller) Shareable() url.Values {
	return ToValues(c.state)
}

// VisiblePosts returns the revealed prefix of the filtered posts.
func (c *Controller) VisiblePosts() []interfaces.Post {
	list := c.results()
	visible := make([]interfaces.Post, min(c.displayCount, len(list)))
	copy(visible, list)
	return visible
}

// TotalFilteredCount is the size of the filtered set.
func (c *Controller) TotalFilteredCount() int {
	return len(c.results())
}

// DisplayCount is the number of posts currently revealed. It never exceeds
// TotalFilteredCount.
func (c *Controller) DisplayCount() int {
	return min(c.displayCount, len(c.results()))
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// HasMore reports whether LoadMore would reveal more posts.
func (c *Controller) HasMore() bool {
	return len(c.results()) > c.displayCount
}

// Empty reports the "no posts found" outcome for the current filters.
func (c *Controller) Empty() bool {
	return len(c.results()) == 0
}

// Categories returns the selectable categories with a leading All.
func (c *Controller) Categories() []string {
	return append([]string{interfaces.AllCategories}, c.repo.Categories()...)
}

// Tags returns the tags of the loaded posts.
func (c *Controller) Tags() []string {
	return c.repo.Tags()
}

// Loading reports whether the controller is still waiting on Load.
func (c *Controller) Loading() bool {
	return c.loading
}

func (c *Controller) changed() {
	c.displayCount = c.pageSize
	c.stale = true
	if c.onChange != nil {
		c.onChange(c.Shareable())
	}
}

func (c *Controller) results() []interfaces.Post {
	if c.stale {
		c.filtered = c.repo.Filter(c.state.Filter())
		c.stale = false
	}
	return c.filtered
}
