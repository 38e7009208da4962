package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/query"
	"github.com/goliatone/go-blog/internal/sources"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultBasePath is where the blog API mounts when no base path is set.
const DefaultBasePath = "/api/blog"

// BlogAPI serves the published posts of a repository as JSON.
type BlogAPI struct {
	basePath     string
	repository   interfaces.PostRepository
	renderer     interfaces.MarkdownRenderer
	pageSize     int
	relatedLimit int
	logger       interfaces.Logger
}

// Option mutates the BlogAPI configuration.
type Option func(*BlogAPI)

// NewBlogAPI constructs a BlogAPI instance.
func NewBlogAPI(opts ...Option) *BlogAPI {
	api := &BlogAPI{
		basePath:     DefaultBasePath,
		pageSize:     query.DefaultPageSize,
		relatedLimit: posts.DefaultRelatedLimit,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api/blog").
func WithBasePath(path string) Option {
	return func(api *BlogAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithRepository wires the post repository.
func WithRepository(repo interfaces.PostRepository) Option {
	return func(api *BlogAPI) {
		api.repository = repo
	}
}

// WithRenderer wires the Markdown renderer used by the detail endpoint.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(api *BlogAPI) {
		api.renderer = renderer
	}
}

// WithPageSize sets the listing page size.
func WithPageSize(size int) Option {
	return func(api *BlogAPI) {
		if size > 0 {
			api.pageSize = size
		}
	}
}

// WithRelatedLimit sets how many related posts the detail endpoint returns.
func WithRelatedLimit(limit int) Option {
	return func(api *BlogAPI) {
		if limit > 0 {
			api.relatedLimit = limit
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *BlogAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the blog endpoints to the provided mux.
func (api *BlogAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: blog api is nil")
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET "+base, api.handleSnapshot)
	mux.HandleFunc("GET "+joinPath(base, "posts"), api.handleList)
	mux.HandleFunc("GET "+joinPath(base, "posts")+"/{slug}", api.handleDetail)
	mux.HandleFunc("GET "+joinPath(base, "categories"), api.handleCategories)
	mux.HandleFunc("GET "+joinPath(base, "tags"), api.handleTags)
	return nil
}

type listResponse struct {
	Posts   []interfaces.Post `json:"posts"`
	Total   int               `json:"total"`
	HasMore bool              `json:"hasMore"`
	Page    int               `json:"page"`
	State   query.ViewState   `json:"state"`
}

type detailResponse struct {
	Post    interfaces.Post   `json:"post"`
	HTML    string            `json:"html"`
	Related []interfaces.Post `json:"related"`
}

func (api *BlogAPI) available(w http.ResponseWriter) bool {
	if api.repository == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *BlogAPI) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, sources.RemotePayload{
		Posts:      api.repository.All(),
		Categories: api.repository.Categories(),
		Success:    true,
	})
}

// handleList evaluates the query parameters through a per-request controller.
// page=n reveals the first n pages, mirroring n-1 "load more" actions.
func (api *BlogAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	values := r.URL.Query()
	page, err := parsePage(values.Get("page"))
	if err != nil {
		writeError(w, err)
		return
	}

	controller := query.NewController(api.repository, query.WithPageSize(api.pageSize))
	controller.Restore(values)
	controller.ShowPages(page)

	writeJSON(w, http.StatusOK, listResponse{
		Posts:   controller.VisiblePosts(),
		Total:   controller.TotalFilteredCount(),
		HasMore: controller.HasMore(),
		Page:    page,
		State:   controller.State(),
	})
}

func (api *BlogAPI) handleDetail(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	slug := strings.TrimSpace(r.PathValue("slug"))
	post, ok := api.repository.BySlug(slug)
	if !ok {
		api.logger.Debug("http.post_not_found", "slug", slug)
		writeError(w, posts.NotFoundError(slug))
		return
	}

	resp := detailResponse{
		Post:    post,
		Related: api.repository.Related(post, api.relatedLimit),
	}
	if api.renderer != nil {
		html, err := api.renderer.Render(r.Context(), []byte(post.Content))
		if err != nil {
			api.logger.Error("http.render_failed", "slug", slug, "error", err)
			writeError(w, err)
			return
		}
		resp.HTML = string(html)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *BlogAPI) handleCategories(w http.ResponseWriter, _ *http.Request) {
	if !api.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": api.repository.Categories()})
}

func (api *BlogAPI) handleTags(w http.ResponseWriter, _ *http.Request) {
	if !api.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": api.repository.Tags()})
}
