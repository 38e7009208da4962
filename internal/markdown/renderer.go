package markdown

import (
	"bytes"
	"context"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultOptions enables autolinking and treats single newlines as line
// breaks.
var DefaultOptions = interfaces.RenderOptions{
	Extensions: []string{"linkify", "strikethrough"},
	HardWraps:  true,
}

// Option customises a GoldmarkRenderer.
type Option func(*GoldmarkRenderer)

// WithLogger sets the logger used to report degraded renders.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *GoldmarkRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSanitizer replaces the default allow-list sanitizer.
func WithSanitizer(s *Sanitizer) Option {
	return func(r *GoldmarkRenderer) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// GoldmarkRenderer converts Markdown with goldmark and passes the result
// through the allow-list sanitizer. Raw HTML in the input is never emitted.
// The engine is built once and is safe for concurrent use.
type GoldmarkRenderer struct {
	engine    goldmark.Markdown
	sanitizer *Sanitizer
	logger    interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer builds a renderer. Unknown extension names are ignored.
func NewGoldmarkRenderer(opts interfaces.RenderOptions, options ...Option) *GoldmarkRenderer {
	r := &GoldmarkRenderer{
		engine:    newEngine(opts),
		sanitizer: NewSanitizer(),
		logger:    logging.NoOp(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render returns sanitized HTML for markdown. Conversion errors degrade to an
// escaped paragraph of the input rather than failing.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		r.logger.Warn("markdown.render_degraded", "error", err)
		buf.Reset()
		buf.WriteString("<p>")
		buf.WriteString(html.EscapeString(string(markdown)))
		buf.WriteString("</p>")
	}
	return r.sanitizer.Sanitize(buf.Bytes()), nil
}

func newEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
}

func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		extenders = append(extenders, ext)
	}
	return extenders
}
