package sources_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-blog/internal/sources"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestRemoteSourceLoadsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/blog" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(sources.RemotePayload{
			Success:    true,
			Categories: []string{"AI"},
			Posts: []interfaces.Post{
				{ID: "4", Slug: "rag-systems-enhancing-ai-real-time-data", Title: "RAG Systems", Date: "2024-02-28", Category: "AI", Published: true},
				{ID: "bad", Slug: "", Title: "No slug", Published: true},
			},
		})
	}))
	defer server.Close()

	loaded, err := sources.NewRemoteSource(sources.RemoteConfig{BaseURL: server.URL + "/"}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "4" {
		t.Fatalf("expected one valid post, got %+v", loaded)
	}
	if loaded[0].Tags == nil {
		t.Fatal("expected normalized tags")
	}
}

func TestRemoteSourcePublishedDefaultsToTrue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"posts":[` +
			`{"id":"x","slug":"x","title":"X","date":"2024-01-01"},` +
			`{"id":"y","slug":"y","title":"Y","date":"2024-01-02","published":false}]}`))
	}))
	defer server.Close()

	loaded, err := sources.NewRemoteSource(sources.RemoteConfig{BaseURL: server.URL}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected two posts, got %+v", loaded)
	}

	published := map[string]bool{}
	for _, post := range loaded {
		published[post.Slug] = post.Published
	}
	if !published["x"] {
		t.Fatal("expected post without published field to be published")
	}
	if published["y"] {
		t.Fatal("expected explicit published=false to be kept")
	}
}

func TestRemoteSourceFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		},
		"success false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"posts":[],"categories":[],"success":false}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			_, err := sources.NewRemoteSource(sources.RemoteConfig{BaseURL: server.URL}).Load(context.Background())
			if !sources.IsUnavailable(err) {
				t.Fatalf("expected ErrSourceUnavailable, got %v", err)
			}
		})
	}
}

func TestRemoteSourceFallsBackInChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	chain := sources.NewChainSource([]interfaces.PostSource{
		sources.NewRemoteSource(sources.RemoteConfig{BaseURL: server.URL}),
		sources.NewEmbeddedSource(),
	})
	if loaded := chain.LoadAll(context.Background()); len(loaded) == 0 {
		t.Fatal("expected embedded fallback after remote failure")
	}
}
