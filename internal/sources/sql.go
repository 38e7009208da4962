package sources

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultMaxRows caps the number of rows a SQLSource reads per load.
const DefaultMaxRows = 1000

// PostRecord is the blog_posts row backing SQLSource.
type PostRecord struct {
	bun.BaseModel `bun:"table:blog_posts,alias:bp"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	PostID        string     `bun:"post_id" json:"post_id"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug"`
	Title         string     `bun:"title,notnull" json:"title"`
	Excerpt       string     `bun:"excerpt" json:"excerpt"`
	Content       string     `bun:"content" json:"content"`
	Author        string     `bun:"author" json:"author"`
	Date          *time.Time `bun:"date" json:"date,omitempty"`
	Category      string     `bun:"category" json:"category"`
	Tags          []string   `bun:"tags" json:"tags"`
	ReadTime      string     `bun:"read_time" json:"read_time"`
	Published     bool       `bun:"published,notnull" json:"published"`
	FeaturedImage string     `bun:"featured_image" json:"featured_image,omitempty"`
	CreatedAt     time.Time  `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// NewPostRecordRepository returns the go-repository-bun repository for
// blog_posts, identified by slug.
func NewPostRecordRepository(db *bun.DB) repository.Repository[*PostRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PostRecord]{
		NewRecord: func() *PostRecord { return &PostRecord{} },
		GetID: func(r *PostRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *PostRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *PostRecord) string {
			return r.Slug
		},
	})
}

// SQLConfig configures SQLSource.
type SQLConfig struct {
	// Name identifies the source in logs and errors (defaults to "sql").
	Name string
	// MaxRows caps how many rows a load reads (defaults to DefaultMaxRows).
	MaxRows int
	// CacheService and KeySerializer, when both set, wrap the repository with
	// go-repository-cache.
	CacheService  cache.CacheService
	KeySerializer cache.KeySerializer
}

// SQLSource loads posts from the blog_posts table.
type SQLSource struct {
	db      *bun.DB
	repo    repository.Repository[*PostRecord]
	cfg     SQLConfig
	options options
}

var _ interfaces.PostSource = (*SQLSource)(nil)

// NewSQLSource builds a source over db.
func NewSQLSource(db *bun.DB, cfg SQLConfig, opts ...Option) *SQLSource {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "sql"
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	var repo repository.Repository[*PostRecord]
	if db != nil {
		repo = NewPostRecordRepository(db)
		if cfg.CacheService != nil && cfg.KeySerializer != nil {
			repo = repositorycache.New(repo, cfg.CacheService, cfg.KeySerializer)
		}
	}
	return &SQLSource{db: db, repo: repo, cfg: cfg, options: resolve(opts)}
}

func (s *SQLSource) Name() string {
	return s.cfg.Name
}

// Load lists rows newest first and normalizes them. Rows that fail validation
// are skipped and logged.
func (s *SQLSource) Load(ctx context.Context) ([]interfaces.Post, error) {
	if s.repo == nil {
		return nil, unavailable(s.cfg.Name, sql.ErrConnDone, "database not configured")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.date DESC NULLS LAST").
				OrderExpr("?TableAlias.slug ASC")
		}),
		repository.SelectPaginate(s.cfg.MaxRows, 0),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, unavailable(s.cfg.Name, err, "list blog posts")
	}

	logger := logging.WithSourceContext(s.options.logger, s.cfg.Name, "", "")
	loaded := make([]interfaces.Post, 0, len(records))
	for _, record := range records {
		post, err := posts.Normalize(record.raw(), s.options.normalize)
		if err != nil {
			logging.WithSourceContext(logger, "", "", record.Slug).Warn("sources.record_skipped", "error", err)
			continue
		}
		loaded = append(loaded, post)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSourceEmpty, s.cfg.Name)
	}
	return loaded, nil
}

// Count returns the number of stored rows, bypassing the repository cache.
func (s *SQLSource) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, unavailable(s.cfg.Name, sql.ErrConnDone, "database not configured")
	}
	return s.db.NewSelect().Model((*PostRecord)(nil)).Count(ctx)
}

// Save inserts post into blog_posts. The primary key is derived from the slug.
func (s *SQLSource) Save(ctx context.Context, post interfaces.Post) (*PostRecord, error) {
	if s.repo == nil {
		return nil, unavailable(s.cfg.Name, sql.ErrConnDone, "database not configured")
	}
	return s.repo.Create(ctx, RecordFromPost(post))
}

// RecordFromPost maps a normalized post onto a row.
func RecordFromPost(post interfaces.Post) *PostRecord {
	record := &PostRecord{
		ID:            identity.PostUUID(post.Slug),
		PostID:        post.ID,
		Slug:          post.Slug,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		Author:        post.Author,
		Category:      post.Category,
		Tags:          append([]string{}, post.Tags...),
		ReadTime:      post.ReadTime,
		Published:     post.Published,
		FeaturedImage: post.FeaturedImage,
	}
	if parsed, err := time.Parse(posts.DateLayout, post.Date); err == nil {
		record.Date = &parsed
	}
	return record
}

func (r *PostRecord) raw() posts.RawPost {
	published := r.Published
	return posts.RawPost{
		ID:            r.PostID,
		Slug:          r.Slug,
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Author:        r.Author,
		Date:          r.Date,
		Category:      r.Category,
		Tags:          r.Tags,
		ReadTime:      r.ReadTime,
		Published:     &published,
		FeaturedImage: r.FeaturedImage,
	}
}

// OpenDB opens a bun database for driver "sqlite" (or "sqlite3") or
// "postgres" (or "pgx").
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "postgresql", "pgx":
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("sources: unsupported database driver %q", driver)
	}
}

// CreateSchema creates the blog_posts table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*PostRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}
