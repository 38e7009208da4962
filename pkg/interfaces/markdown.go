package interfaces

import "context"

// MarkdownRenderer converts a post body into HTML that is safe to insert into a
// page without further sanitization. Implementations must be deterministic.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown []byte) ([]byte, error)
}

// RenderOptions customises Markdown rendering, keeping option names readable
// for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string
	HardWraps  bool
}

// RenderCache stores rendered HTML keyed by a digest of the Markdown input.
// Implementations must be safe for concurrent use; failures are treated as
// cache misses.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}
