package sources_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/sources"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func postSlugs(list []interfaces.Post) []string {
	out := make([]string, 0, len(list))
	for _, post := range list {
		out = append(out, post.Slug)
	}
	return out
}

func TestFilesystemSourceSkipsMalformedFiles(t *testing.T) {
	source := sources.NewFilesystemSource(filepath.Join("testdata", "content"))

	loaded, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := []string{"draft-pricing-update", "edge-caching-primer", "observability-checklist"}
	if got := postSlugs(loaded); !slices.Equal(got, want) {
		t.Fatalf("slugs = %v, want %v", got, want)
	}

	byslug := map[string]interfaces.Post{}
	for _, post := range loaded {
		byslug[post.Slug] = post
	}
	obs := byslug["observability-checklist"]
	if obs.Date != "2024-03-28" {
		t.Fatalf("expected RFC3339 date normalized, got %q", obs.Date)
	}
	if obs.Author != posts.DefaultAuthor || obs.ReadTime != posts.DefaultReadTime {
		t.Fatalf("expected defaults, got author=%q readTime=%q", obs.Author, obs.ReadTime)
	}
	if obs.ID != "observability-checklist" {
		t.Fatalf("expected id from file name, got %q", obs.ID)
	}
	if byslug["draft-pricing-update"].Published {
		t.Fatal("expected draft to keep published=false")
	}
}

func TestFSSourceRecursive(t *testing.T) {
	source := sources.NewFSSource(os.DirFS(filepath.Join("testdata", "content")), sources.FSConfig{
		Recursive:        true,
		SlugFromFileName: true,
	})

	loaded, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !slices.Contains(postSlugs(loaded), "old-announcement") {
		t.Fatalf("expected nested post when recursive, got %v", postSlugs(loaded))
	}
}

func TestFilesystemSourceMissingDirectory(t *testing.T) {
	source := sources.NewFilesystemSource(filepath.Join(t.TempDir(), "does-not-exist"))

	loaded, err := source.Load(context.Background())
	if err == nil {
		t.Fatalf("expected error, got %d posts", len(loaded))
	}
	if !sources.IsUnavailable(err) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFSSourceEmptyWhenEverythingMalformed(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/no-title.md": {Data: []byte("---\ncategory: AI\n---\nbody")},
		"posts/broken.md":   {Data: []byte("---\ntitle: [\n---\nbody")},
		"posts/readme.txt":  {Data: []byte("ignored")},
	}
	source := sources.NewFSSource(fsys, sources.FSConfig{Root: "posts", SlugFromFileName: true})

	_, err := source.Load(context.Background())
	if !errors.Is(err, sources.ErrSourceEmpty) {
		t.Fatalf("expected ErrSourceEmpty, got %v", err)
	}
}

func TestFSSourceFrontMatterIdentity(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\nid: \"7\"\nslug: \"custom-slug\"\ntitle: \"A\"\ndate: 2024-01-01\n---\nbody")},
	}
	source := sources.NewFSSource(fsys, sources.FSConfig{Name: "mapfs"})

	loaded, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded[0].ID != "7" || loaded[0].Slug != "custom-slug" {
		t.Fatalf("expected front matter identity, got id=%q slug=%q", loaded[0].ID, loaded[0].Slug)
	}
	if source.Name() != "mapfs" {
		t.Fatalf("unexpected name %q", source.Name())
	}
}

func TestFSSourceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := sources.NewFilesystemSource(filepath.Join("testdata", "content"))
	if _, err := source.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFSSourceNormalizeOptions(t *testing.T) {
	fsys := fstest.MapFS{
		"hello.md": {Data: []byte("---\ntitle: Hello\n---\nbody")},
	}
	source := sources.NewFSSource(fsys, sources.FSConfig{SlugFromFileName: true},
		sources.WithNormalizeOptions(posts.NormalizeOptions{DefaultAuthor: "Guest Writer"}))

	loaded, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded[0].Author != "Guest Writer" {
		t.Fatalf("expected configured default author, got %q", loaded[0].Author)
	}
}
