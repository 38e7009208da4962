package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// EnvPrefix namespaces the environment variables read by ConfigFromEnv.
const EnvPrefix = "BLOG_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Options captures overrides applied on top of the environment.
type Options struct {
	ContentDir     string
	Seed           bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the blog module and its root logger.
type Module struct {
	Module *blog.Module
	Logger interfaces.Logger
}

// ConfigFromEnv maps BLOG_* variables onto blog.DefaultConfig. Unset
// variables keep their defaults; malformed numbers, booleans or durations
// are reported.
func ConfigFromEnv(lookup LookupFunc) (blog.Config, error) {
	cfg := blog.DefaultConfig()
	env := envReader{lookup: lookup}

	env.str("CONTENT_DIR", &cfg.Content.Dir)
	env.str("CONTENT_PATTERN", &cfg.Content.Pattern)
	env.boolean("CONTENT_RECURSIVE", &cfg.Content.Recursive)
	env.boolean("EMBEDDED_FALLBACK", &cfg.Content.Embedded)
	env.boolean("FILESYSTEM_ENABLED", &cfg.Features.Filesystem)

	env.str("DEFAULT_AUTHOR", &cfg.Authors.DefaultAuthor)
	env.str("DEFAULT_READ_TIME", &cfg.Authors.DefaultReadTime)

	env.boolean("STORAGE_ENABLED", &cfg.Features.Storage)
	env.str("STORAGE_DRIVER", &cfg.Storage.Driver)
	env.str("STORAGE_DSN", &cfg.Storage.DSN)
	env.integer("STORAGE_MAX_ROWS", &cfg.Storage.MaxRows)
	env.boolean("STORAGE_SEED", &cfg.Storage.Seed)
	env.boolean("CACHE_ENABLED", &cfg.Cache.Enabled)
	env.duration("CACHE_TTL", &cfg.Cache.DefaultTTL)

	env.str("REMOTE_BASE_URL", &cfg.Remote.BaseURL)
	env.duration("REMOTE_TIMEOUT", &cfg.Remote.Timeout)
	if strings.TrimSpace(cfg.Remote.BaseURL) != "" {
		cfg.Features.Remote = true
	}

	env.list("MARKDOWN_EXTENSIONS", &cfg.Markdown.Extensions)
	env.boolean("MARKDOWN_HARD_WRAPS", &cfg.Markdown.HardWraps)
	env.boolean("RENDER_CACHE_ENABLED", &cfg.Features.RenderCache)
	env.str("RENDER_CACHE_PROVIDER", &cfg.Markdown.Cache.Provider)
	env.integer("RENDER_CACHE_CAPACITY", &cfg.Markdown.Cache.Capacity)
	env.duration("RENDER_CACHE_TTL", &cfg.Markdown.Cache.TTL)
	env.str("REDIS_ADDR", &cfg.Markdown.Cache.RedisAddr)
	env.str("REDIS_PASSWORD", &cfg.Markdown.Cache.RedisPassword)
	env.integer("REDIS_DB", &cfg.Markdown.Cache.RedisDB)

	env.integer("PAGE_SIZE", &cfg.Listing.PageSize)
	env.integer("RELATED_LIMIT", &cfg.Listing.RelatedLimit)

	env.str("HTTP_ADDR", &cfg.HTTP.Addr)
	env.str("HTTP_BASE_PATH", &cfg.HTTP.BasePath)
	env.duration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	env.duration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	env.duration("HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)

	env.boolean("LOG_ENABLED", &cfg.Features.Logger)
	env.str("LOG_PROVIDER", &cfg.Logging.Provider)
	env.str("LOG_LEVEL", &cfg.Logging.Level)
	env.str("LOG_FORMAT", &cfg.Logging.Format)
	env.list("LOG_FOCUS", &cfg.Logging.Focus)

	return cfg, env.err
}

// BuildModule constructs a blog module for cfg with opts applied.
func BuildModule(cfg blog.Config, opts Options) (*Module, error) {
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
		cfg.Features.Filesystem = true
	}
	if opts.Seed {
		cfg.Storage.Seed = true
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := blog.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}
	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), ""),
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type envReader struct {
	lookup LookupFunc
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	if r.lookup == nil {
		return "", false
	}
	value, ok := r.lookup(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("bootstrap: %s%s=%q: %w", EnvPrefix, key, value, err)
	}
}

func (r *envReader) str(key string, target *string) {
	if value, ok := r.get(key); ok {
		*target = value
	}
}

func (r *envReader) list(key string, target *[]string) {
	if value, ok := r.get(key); ok {
		*target = SplitList(value)
	}
}

func (r *envReader) boolean(key string, target *bool) {
	value, ok := r.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*target = parsed
}

func (r *envReader) integer(key string, target *int) {
	value, ok := r.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*target = parsed
}

func (r *envReader) duration(key string, target *time.Duration) {
	value, ok := r.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*target = parsed
}

// DefaultPreviewConfig reads only the embedded dataset unless a content
// directory is passed through Options.
func DefaultPreviewConfig() blog.Config {
	cfg := blog.DefaultConfig()
	cfg.Features.Filesystem = false
	return cfg
}
