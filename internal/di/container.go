package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/query"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/sources"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires the blog pipeline: configuration, loggers, post sources,
// the repository snapshot, the renderer and the HTTP API.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	httpClient  *http.Client
	redisClient markdown.RedisClient
	ownsRedis   bool
	renderCache interfaces.RenderCache

	sqlSource *sources.SQLSource
	source    interfaces.PostSource
	renderer  interfaces.MarkdownRenderer

	mu         sync.Mutex
	repository *posts.Repository
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by the SQL source.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used around SQL reads.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithHTTPClient sets the client used by the remote source.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithRedisClient supplies the client used by the redis render cache.
func WithRedisClient(client markdown.RedisClient) Option {
	return func(c *Container) {
		c.redisClient = client
	}
}

// WithRenderCache overrides the render cache selected by configuration.
func WithRenderCache(cache interfaces.RenderCache) Option {
	return func(c *Container) {
		c.renderCache = cache
	}
}

// WithSource replaces the configured source chain.
func WithSource(source interfaces.PostSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithRenderer replaces the goldmark renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// NewContainer validates cfg and wires every configured adapter.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureSources()
	c.configureRenderer()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return fmt.Errorf("di: configure go-logger: %w", err)
			}
			c.loggerProvider = provider
		default:
			level, _ := console.ParseLevel(c.Config.Logging.Level)
			c.loggerProvider = console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || !c.Config.Features.Storage {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("di.repository_cache_disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if !c.Config.Features.Storage {
		return nil
	}
	if c.bunDB == nil {
		db, err := sources.OpenDB(c.Config.Storage.Driver, c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open storage: %w", err)
		}
		c.bunDB = db
		c.ownsDB = true
	}
	c.sqlSource = sources.NewSQLSource(c.bunDB, sources.SQLConfig{
		MaxRows:       c.Config.Storage.MaxRows,
		CacheService:  c.cacheService,
		KeySerializer: c.keySerializer,
	}, c.sourceOptions()...)
	return nil
}

func (c *Container) sourceOptions() []sources.Option {
	return []sources.Option{
		sources.WithLogger(logging.SourcesLogger(c.loggerProvider)),
		sources.WithNormalizeOptions(posts.NormalizeOptions{
			DefaultAuthor:   c.Config.Authors.DefaultAuthor,
			DefaultReadTime: c.Config.Authors.DefaultReadTime,
		}),
	}
}

// configureSources builds the fallback chain: remote, SQL, the content
// directory, then the embedded dataset.
func (c *Container) configureSources() {
	if c.source != nil {
		return
	}
	opts := c.sourceOptions()

	var list []interfaces.PostSource
	if c.Config.Features.Remote {
		client := c.httpClient
		if client == nil && c.Config.Remote.Timeout > 0 {
			client = &http.Client{Timeout: c.Config.Remote.Timeout}
		}
		list = append(list, sources.NewRemoteSource(sources.RemoteConfig{
			BaseURL: c.Config.Remote.BaseURL,
			Client:  client,
		}, opts...))
	}
	if c.sqlSource != nil {
		list = append(list, c.sqlSource)
	}
	list = append(list, c.localSources()...)
	c.source = sources.NewChainSource(list, opts...)
}

// localSources are the file-backed sources, used both in the chain and to
// seed an empty SQL table.
func (c *Container) localSources() []interfaces.PostSource {
	opts := c.sourceOptions()
	var list []interfaces.PostSource
	if c.Config.Features.Filesystem {
		list = append(list, sources.NewFSSource(os.DirFS(c.Config.Content.Dir), sources.FSConfig{
			Name:             "filesystem",
			Root:             ".",
			Pattern:          c.Config.Content.Pattern,
			Recursive:        c.Config.Content.Recursive,
			SlugFromFileName: true,
		}, opts...))
	}
	if c.Config.Content.Embedded {
		list = append(list, sources.NewEmbeddedSource(opts...))
	}
	return list
}

func (c *Container) configureRenderer() {
	if c.renderer != nil {
		return
	}
	mdLogger := logging.MarkdownLogger(c.loggerProvider)
	base := markdown.NewGoldmarkRenderer(interfaces.RenderOptions{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
	}, markdown.WithLogger(mdLogger))

	if c.renderCache == nil && c.Config.Features.RenderCache {
		cacheCfg := c.Config.Markdown.Cache
		switch strings.ToLower(strings.TrimSpace(cacheCfg.Provider)) {
		case "redis":
			if c.redisClient == nil {
				c.redisClient = redis.NewClient(&redis.Options{
					Addr:     cacheCfg.RedisAddr,
					Password: cacheCfg.RedisPassword,
					DB:       cacheCfg.RedisDB,
				})
				c.ownsRedis = true
			}
			c.renderCache = markdown.NewRedisCache(c.redisClient, cacheCfg.TTL, mdLogger)
		default:
			c.renderCache = markdown.NewMemoryCache(markdown.MemoryCacheConfig{
				Capacity: cacheCfg.Capacity,
				TTL:      cacheCfg.TTL,
			})
		}
	}

	if c.renderCache == nil {
		c.renderer = base
		return
	}
	c.renderer = markdown.NewCachedRenderer(base, c.renderCache, mdLogger)
}

// Repository returns the loaded snapshot, loading it on first use. A load that
// exhausts every source yields an empty repository.
func (c *Container) Repository(ctx context.Context) *posts.Repository {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.repository == nil {
		c.repository = c.load(ctx)
	}
	return c.repository
}

// Reload replaces the snapshot with a fresh load.
func (c *Container) Reload(ctx context.Context) *posts.Repository {
	repo := c.load(ctx)
	c.mu.Lock()
	c.repository = repo
	c.mu.Unlock()
	return repo
}

func (c *Container) load(ctx context.Context) *posts.Repository {
	list, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Error("di.posts_unavailable", "source", c.source.Name(), "error", err)
	} else {
		c.logger.Info("di.posts_loaded", "source", c.source.Name(), "count", len(list))
	}
	return posts.NewRepository(list, posts.WithLogger(logging.PostsLogger(c.loggerProvider)))
}

// Seed creates the posts table and, when it is empty, copies the posts of the
// file-backed sources into it. It reports how many posts were written.
func (c *Container) Seed(ctx context.Context) (int, error) {
	if c.sqlSource == nil {
		return 0, errors.New("di: seed requires the storage feature")
	}
	if err := sources.CreateSchema(ctx, c.bunDB); err != nil {
		return 0, err
	}
	existing, err := c.sqlSource.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	list, err := sources.NewChainSource(c.localSources(), c.sourceOptions()...).Load(ctx)
	if err != nil {
		return 0, err
	}
	for i, post := range list {
		if _, err := c.sqlSource.Save(ctx, post); err != nil {
			return i, fmt.Errorf("di: seed %s: %w", post.Slug, err)
		}
	}
	c.logger.Info("di.storage_seeded", "count", len(list))
	return len(list), nil
}

// Controller returns a listing controller over the current snapshot.
func (c *Container) Controller(ctx context.Context, opts ...query.Option) *query.Controller {
	base := []query.Option{
		query.WithPageSize(c.Config.Listing.PageSize),
		query.WithLogger(logging.QueryLogger(c.loggerProvider)),
	}
	return query.NewController(c.Repository(ctx), append(base, opts...)...)
}

// API returns the JSON API over the current snapshot.
func (c *Container) API(ctx context.Context) *bloghttp.BlogAPI {
	return bloghttp.NewBlogAPI(
		bloghttp.WithBasePath(c.Config.HTTP.BasePath),
		bloghttp.WithRepository(c.Repository(ctx)),
		bloghttp.WithRenderer(c.renderer),
		bloghttp.WithPageSize(c.Config.Listing.PageSize),
		bloghttp.WithRelatedLimit(c.Config.Listing.RelatedLimit),
		bloghttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

func (c *Container) Source() interfaces.PostSource {
	return c.source
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// Close releases the database opened by the container and the redis client
// it created.
func (c *Container) Close() error {
	var errs []error
	if c.ownsDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
	}
	if client, ok := c.redisClient.(*redis.Client); ok && c.ownsRedis {
		errs = append(errs, client.Close())
	}
	return errors.Join(errs...)
}
