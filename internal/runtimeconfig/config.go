package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("blog config: content directory is required when the filesystem source is enabled")
var ErrNoSourceEnabled = errors.New("blog config: at least one post source must be enabled")

// ErrStorageFeatureRequired indicates a DSN was configured without enabling SQL storage.
var ErrStorageFeatureRequired = errors.New("blog config: storage feature must be enabled to configure storage")
var ErrStorageDriverUnknown = errors.New("blog config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("blog config: storage dsn is required when storage is enabled")

// ErrRemoteBaseURLRequired ensures the remote source knows where to fetch from.
var ErrRemoteBaseURLRequired = errors.New("blog config: remote base url is required when the remote source is enabled")
var ErrRenderCacheProviderUnknown = errors.New("blog config: render cache provider is invalid")
var ErrRenderCacheRedisAddrRequired = errors.New("blog config: redis address is required for the redis render cache")
var ErrListingPageSizeInvalid = errors.New("blog config: listing page size must be positive")
var ErrListingRelatedLimitInvalid = errors.New("blog config: related limit must be positive")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the blog module.
type Config struct {
	Content  ContentConfig
	Authors  AuthorsConfig
	Storage  StorageConfig
	Remote   RemoteConfig
	Cache    CacheConfig
	Markdown MarkdownConfig
	Listing  ListingConfig
	HTTP     HTTPConfig
	Features Features
	Logging  LoggingConfig
}

// ContentConfig points the filesystem source at a directory of Markdown posts.
type ContentConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
	// Embedded keeps the compiled-in dataset as the last fallback.
	Embedded bool
}

// AuthorsConfig holds the values used when a record omits author or read time.
type AuthorsConfig struct {
	DefaultAuthor   string
	DefaultReadTime string
}

// StorageConfig configures the SQL post source.
type StorageConfig struct {
	Driver  string
	DSN     string
	MaxRows int
	// Seed copies the posts of the remaining sources into an empty table.
	Seed bool
}

// RemoteConfig configures loading posts from another instance.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig captures the repository cache used around SQL reads.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig mirrors interfaces.RenderOptions plus render caching.
type MarkdownConfig struct {
	Extensions []string
	HardWraps  bool
	Cache      RenderCacheConfig
}

// RenderCacheConfig selects where rendered HTML is memoised.
type RenderCacheConfig struct {
	Provider      string
	Capacity      int
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ListingConfig controls pagination and related posts.
type ListingConfig struct {
	PageSize     int
	RelatedLimit int
}

// HTTPConfig configures the blog API server.
type HTTPConfig struct {
	Addr            string
	BasePath        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Features toggles module functionality.
type Features struct {
	Filesystem  bool
	Storage     bool
	Remote      bool
	RenderCache bool
	Logger      bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig reads Markdown from ./content and falls back to the embedded
// dataset.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: false,
			Embedded:  true,
		},
		Authors: AuthorsConfig{
			DefaultAuthor:   "Samshodan Team",
			DefaultReadTime: "5 min read",
		},
		Storage: StorageConfig{
			Driver:  "sqlite",
			MaxRows: 1000,
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"linkify", "strikethrough"},
			HardWraps:  true,
			Cache: RenderCacheConfig{
				Provider: "memory",
				Capacity: 512,
				TTL:      time.Hour,
			},
		},
		Listing: ListingConfig{
			PageSize:     6,
			RelatedLimit: 3,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api/blog",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Features: Features{
			Filesystem: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Filesystem && !cfg.Features.Storage && !cfg.Features.Remote && !cfg.Content.Embedded {
		return ErrNoSourceEnabled
	}
	if cfg.Features.Filesystem && strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Features.Storage {
		if !isSupportedDriver(cfg.Storage.Driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	} else if strings.TrimSpace(cfg.Storage.DSN) != "" {
		return ErrStorageFeatureRequired
	}
	if cfg.Features.Remote && strings.TrimSpace(cfg.Remote.BaseURL) == "" {
		return ErrRemoteBaseURLRequired
	}
	if cfg.Features.RenderCache {
		switch normalize(cfg.Markdown.Cache.Provider) {
		case "memory":
		case "redis":
			if strings.TrimSpace(cfg.Markdown.Cache.RedisAddr) == "" {
				return ErrRenderCacheRedisAddrRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrRenderCacheProviderUnknown, cfg.Markdown.Cache.Provider)
		}
	}
	if cfg.Listing.PageSize <= 0 {
		return ErrListingPageSizeInvalid
	}
	if cfg.Listing.RelatedLimit <= 0 {
		return ErrListingRelatedLimitInvalid
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch normalize(driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
