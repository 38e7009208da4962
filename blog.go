package blog

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/di"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/query"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Post exports the normalized post record.
type Post = interfaces.Post

// PostFilter exports the combined listing filter.
type PostFilter = interfaces.PostFilter

// PostSource exports the post store adapter contract.
type PostSource = interfaces.PostSource

// PostRepository exports the read-side repository contract.
type PostRepository = interfaces.PostRepository

// MarkdownRenderer exports the renderer contract.
type MarkdownRenderer = interfaces.MarkdownRenderer

// Controller exports the listing state controller.
type Controller = query.Controller

// ViewState exports the shareable listing state.
type ViewState = query.ViewState

// API exports the JSON API.
type API = bloghttp.BlogAPI

// ErrPostNotFound is returned by Module.Post for unknown or unpublished slugs.
var ErrPostNotFound = posts.ErrPostNotFound

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the loaded repository, loading it on first use.
func (m *Module) Posts(ctx context.Context) PostRepository {
	return m.container.Repository(ctx)
}

// Post looks up a published post by slug. Unknown slugs yield an error
// matching ErrPostNotFound.
func (m *Module) Post(ctx context.Context, slug string) (Post, error) {
	return m.container.Repository(ctx).Lookup(slug)
}

// Render converts Markdown into sanitized HTML.
func (m *Module) Render(ctx context.Context, markdown string) (string, error) {
	html, err := m.container.Renderer().Render(ctx, []byte(markdown))
	if err != nil {
		return "", err
	}
	return string(html), nil
}

// Controller returns a listing controller over the loaded posts.
func (m *Module) Controller(ctx context.Context, opts ...query.Option) *Controller {
	return m.container.Controller(ctx, opts...)
}

// API returns the JSON API over the loaded posts.
func (m *Module) API(ctx context.Context) *API {
	return m.container.API(ctx)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return errors.New("blog: module not initialised")
	}
	return m.container.Close()
}
