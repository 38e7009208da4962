package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/sources"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestBlogAPI_Snapshot(t *testing.T) {
	mux := setupBlogAPI(t)

	rec := doRequest(t, mux, "/api/blog", http.StatusOK)
	var payload sources.RemotePayload
	decodeJSONBody(t, rec, &payload)

	if !payload.Success {
		t.Fatalf("expected success flag")
	}
	if len(payload.Posts) != 18 {
		t.Fatalf("expected 18 posts got %d", len(payload.Posts))
	}
	if len(payload.Categories) == 0 || payload.Categories[0] == "All" {
		t.Fatalf("expected derived categories without All, got %v", payload.Categories)
	}
}

func TestBlogAPI_SnapshotFeedsRemoteSource(t *testing.T) {
	server := httptest.NewServer(setupBlogAPI(t))
	defer server.Close()

	list, err := sources.NewRemoteSource(sources.RemoteConfig{BaseURL: server.URL, Client: server.Client()}).Load(context.Background())
	if err != nil {
		t.Fatalf("remote load: %v", err)
	}
	if len(list) != 18 {
		t.Fatalf("expected 18 posts from remote source got %d", len(list))
	}
}

func TestBlogAPI_List(t *testing.T) {
	mux := setupBlogAPI(t)

	rec := doRequest(t, mux, "/api/blog/posts", http.StatusOK)
	var first listResponse
	decodeJSONBody(t, rec, &first)
	if len(first.Posts) != 6 || first.Total != 18 || !first.HasMore || first.Page != 1 {
		t.Fatalf("unexpected first page: posts=%d total=%d hasMore=%v page=%d", len(first.Posts), first.Total, first.HasMore, first.Page)
	}
	if first.State.Category != "All" {
		t.Fatalf("expected default category All got %q", first.State.Category)
	}

	rec = doRequest(t, mux, "/api/blog/posts?page=3", http.StatusOK)
	var third listResponse
	decodeJSONBody(t, rec, &third)
	if len(third.Posts) != 18 || third.HasMore {
		t.Fatalf("expected all posts on page 3, got %d hasMore=%v", len(third.Posts), third.HasMore)
	}
}

func TestBlogAPI_ListFilters(t *testing.T) {
	mux := setupBlogAPI(t)

	rec := doRequest(t, mux, "/api/blog/posts?category=AI&tag=Kubernetes", http.StatusOK)
	var byCategory listResponse
	decodeJSONBody(t, rec, &byCategory)
	if byCategory.State.Tag != "" {
		t.Fatalf("expected category to clear tag, got %+v", byCategory.State)
	}
	for _, post := range byCategory.Posts {
		if post.Category != "AI" {
			t.Fatalf("post %s has category %q", post.Slug, post.Category)
		}
	}

	rec = doRequest(t, mux, "/api/blog/posts?search=kubernetes", http.StatusOK)
	var bySearch listResponse
	decodeJSONBody(t, rec, &bySearch)
	found := false
	for _, post := range bySearch.Posts {
		if post.Slug == "kubernetes-best-practices" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected kubernetes-best-practices in search results")
	}

	rec = doRequest(t, mux, "/api/blog/posts?search=zzz-no-match", http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"posts":[]`) {
		t.Fatalf("expected an empty posts array, got %s", rec.Body.String())
	}
}

func TestBlogAPI_ListRejectsBadPage(t *testing.T) {
	mux := setupBlogAPI(t)
	for _, page := range []string{"0", "-1", "abc"} {
		rec := doRequest(t, mux, "/api/blog/posts?page="+page, http.StatusBadRequest)
		var resp errorResponse
		decodeJSONBody(t, rec, &resp)
		if resp.Error != "bad_request" {
			t.Fatalf("page %q: expected bad_request got %q", page, resp.Error)
		}
	}
}

func TestBlogAPI_Detail(t *testing.T) {
	mux := setupBlogAPI(t)

	rec := doRequest(t, mux, "/api/blog/posts/rag-systems-implementation", http.StatusOK)
	var detail detailResponse
	decodeJSONBody(t, rec, &detail)

	if !strings.Contains(detail.Post.Title, "RAG Systems") {
		t.Fatalf("unexpected title %q", detail.Post.Title)
	}
	if detail.HTML == "" || strings.Contains(strings.ToLower(detail.HTML), "<script") {
		t.Fatalf("expected sanitized html, got %q", detail.HTML)
	}
	if len(detail.Related) == 0 || len(detail.Related) > 3 {
		t.Fatalf("expected 1-3 related posts got %d", len(detail.Related))
	}
	for _, related := range detail.Related {
		if related.Slug == detail.Post.Slug {
			t.Fatalf("related posts include the post itself")
		}
	}
}

func TestBlogAPI_DetailNotFound(t *testing.T) {
	mux := setupBlogAPI(t)

	rec := doRequest(t, mux, "/api/blog/posts/does-not-exist", http.StatusNotFound)
	var resp errorResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Error != "not_found" {
		t.Fatalf("expected not_found got %q", resp.Error)
	}
}

func TestBlogAPI_DetailHidesUnpublished(t *testing.T) {
	repo := posts.NewRepository([]interfaces.Post{
		{ID: "1", Slug: "live", Title: "Live", Date: "2024-01-02", Published: true},
		{ID: "2", Slug: "draft", Title: "Draft", Date: "2024-01-03", Published: false},
	})
	mux := http.NewServeMux()
	if err := NewBlogAPI(WithRepository(repo)).Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}

	doRequest(t, mux, "/api/blog/posts/draft", http.StatusNotFound)
	doRequest(t, mux, "/api/blog/posts/live", http.StatusOK)
}

func TestBlogAPI_DetailRenderFailure(t *testing.T) {
	repo := posts.NewRepository([]interfaces.Post{{ID: "1", Slug: "a", Title: "A", Published: true}})
	mux := http.NewServeMux()
	api := NewBlogAPI(WithRepository(repo), WithRenderer(failingRenderer{}))
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec := doRequest(t, mux, "/api/blog/posts/a", http.StatusInternalServerError)
	var resp errorResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Error != "internal_error" {
		t.Fatalf("expected internal_error got %q", resp.Error)
	}
}

func TestBlogAPI_Facets(t *testing.T) {
	mux := setupBlogAPI(t)

	var categories map[string][]string
	decodeJSONBody(t, doRequest(t, mux, "/api/blog/categories", http.StatusOK), &categories)
	if len(categories["categories"]) == 0 {
		t.Fatalf("expected categories")
	}

	var tags map[string][]string
	decodeJSONBody(t, doRequest(t, mux, "/api/blog/tags", http.StatusOK), &tags)
	if len(tags["tags"]) == 0 {
		t.Fatalf("expected tags")
	}
}

func TestBlogAPI_CustomBasePath(t *testing.T) {
	mux := http.NewServeMux()
	api := NewBlogAPI(WithBasePath("/v1/articles/"), WithRepository(posts.NewRepository(nil)))
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	doRequest(t, mux, "/v1/articles", http.StatusOK)
	doRequest(t, mux, "/api/blog", http.StatusNotFound)
}

func TestBlogAPI_WithoutRepository(t *testing.T) {
	mux := http.NewServeMux()
	if err := NewBlogAPI().Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	doRequest(t, mux, "/api/blog", http.StatusServiceUnavailable)
}

func TestBlogAPI_RegisterRequiresMux(t *testing.T) {
	if err := NewBlogAPI().Register(nil); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, []byte) ([]byte, error) {
	return nil, errors.New("render exploded")
}

func setupBlogAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	list, err := sources.NewEmbeddedSource().Load(context.Background())
	if err != nil {
		t.Fatalf("load embedded posts: %v", err)
	}
	api := NewBlogAPI(
		WithRepository(posts.NewRepository(list)),
		WithRenderer(markdown.NewGoldmarkRenderer(markdown.DefaultOptions)),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux
}

func doRequest(t *testing.T, mux http.Handler, path string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
