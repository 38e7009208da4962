package blog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	blog "github.com/goliatone/go-blog"
)

func newModule(t *testing.T) *blog.Module {
	t.Helper()
	cfg := blog.DefaultConfig()
	cfg.Features.Filesystem = false

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return module
}

func TestModuleLooksUpFallbackPost(t *testing.T) {
	module := newModule(t)

	post, err := module.Post(context.Background(), "rag-systems-implementation")
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if !strings.Contains(post.Title, "RAG Systems") {
		t.Fatalf("unexpected title %q", post.Title)
	}
}

func TestModulePostNotFound(t *testing.T) {
	module := newModule(t)

	_, err := module.Post(context.Background(), "privacy-policy")
	if !errors.Is(err, blog.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestModuleRender(t *testing.T) {
	module := newModule(t)

	html, err := module.Render(context.Background(), "# Title\n\n<script>alert(1)</script>\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") || strings.Contains(html, "<script") {
		t.Fatalf("unexpected html %q", html)
	}
}

func TestModuleControllerAndRepository(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	ai := module.Posts(ctx).ByCategory("AI")
	if len(ai) == 0 {
		t.Fatal("expected AI posts")
	}

	controller := module.Controller(ctx)
	controller.SetCategory("AI")
	if controller.TotalFilteredCount() != len(ai) {
		t.Fatalf("controller and repository disagree: %d vs %d", controller.TotalFilteredCount(), len(ai))
	}
	if got := controller.Shareable().Encode(); got != "category=AI" {
		t.Fatalf("unexpected shareable state %q", got)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Features.Remote = true

	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrRemoteBaseURLRequired) {
		t.Fatalf("expected ErrRemoteBaseURLRequired, got %v", err)
	}
}
