package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
)

func TestConsoleLogger_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.WithFields(provider.GetLogger("blog.sources"), map[string]any{"module": "blog.sources"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-1"})
	logger = logger.WithContext(ctx)

	logger.Warn("sources.record_skipped",
		"path", "posts/bad post.md",
		"error", errors.New("missing slug"),
		"count", 2,
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26Z WARN sources.record_skipped count=2 error="missing slug" logger=blog.sources module=blog.sources path="posts/bad post.md" request_id=req-1`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("blog.test")
	logger.Debug("ignored.debug")
	logger.Info("included.info", "slug", "kubernetes-best-practices")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info entry, got %s", lines[0])
	}
}

func TestConsoleLogger_DanglingArgument(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("blog.test").Info("odd", "key", "value", "orphan")

	if !strings.Contains(buf.String(), "arg_1=orphan") {
		t.Fatalf("expected positional field for dangling arg, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to report ok=false")
	}
}
