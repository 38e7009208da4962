package sources

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// FSConfig configures how post files are discovered within a filesystem.
type FSConfig struct {
	// Name identifies the source in logs and errors.
	Name string
	// Root is the directory inside the filesystem that holds post files.
	Root string
	// Pattern limits discovered files by base name (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// SlugFromFileName derives id and slug from the file base name instead of
	// the front matter.
	SlugFromFileName bool
}

// FSSource loads posts from Markdown files with front matter. Files that fail
// to parse or validate are skipped and logged.
type FSSource struct {
	fsys    fs.FS
	cfg     FSConfig
	options options
}

var _ interfaces.PostSource = (*FSSource)(nil)

// NewFSSource builds a source reading from fsys.
func NewFSSource(fsys fs.FS, cfg FSConfig, opts ...Option) *FSSource {
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	cfg.Root = path.Clean(cfg.Root)
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "fs"
	}
	return &FSSource{fsys: fsys, cfg: cfg, options: resolve(opts)}
}

// NewFilesystemSource reads post files from dir on disk. The file base name is
// the canonical id and slug.
func NewFilesystemSource(dir string, opts ...Option) *FSSource {
	return NewFSSource(os.DirFS(dir), FSConfig{
		Name:             "filesystem",
		SlugFromFileName: true,
	}, opts...)
}

func (s *FSSource) Name() string {
	return s.cfg.Name
}

// Load walks the configured root in lexical order and returns every valid
// post. A missing or unreadable root yields ErrSourceUnavailable and a root
// without valid posts yields ErrSourceEmpty.
func (s *FSSource) Load(ctx context.Context) ([]interfaces.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.fsys == nil {
		return nil, unavailable(s.cfg.Name, fs.ErrNotExist, "content filesystem not configured")
	}

	info, err := fs.Stat(s.fsys, s.cfg.Root)
	if err != nil {
		return nil, unavailable(s.cfg.Name, err, "content directory unavailable")
	}
	if !info.IsDir() {
		return nil, unavailable(s.cfg.Name, fmt.Errorf("%s is not a directory", s.cfg.Root), "content directory unavailable")
	}

	logger := logging.WithSourceContext(s.options.logger, s.cfg.Name, "", "")

	var (
		loaded  []interfaces.Post
		skipped int
	)
	walkErr := fs.WalkDir(s.fsys, s.cfg.Root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != s.cfg.Root && !s.cfg.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.matches(p) {
			return nil
		}

		post, err := s.loadFile(p)
		if err != nil {
			skipped++
			logging.WithSourceContext(logger, "", p, "").Warn("sources.record_skipped", "error", err)
			return nil
		}
		loaded = append(loaded, post)
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, unavailable(s.cfg.Name, walkErr, "content directory unreadable")
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: %s (%d skipped)", ErrSourceEmpty, s.cfg.Name, skipped)
	}
	logger.Debug("sources.loaded", "count", len(loaded), "skipped", skipped)
	return loaded, nil
}

func (s *FSSource) loadFile(p string) (interfaces.Post, error) {
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return interfaces.Post{}, fmt.Errorf("read %s: %w", p, err)
	}
	raw, err := ParseDocument(data)
	if err != nil {
		return interfaces.Post{}, err
	}
	if s.cfg.SlugFromFileName {
		raw.FileName = p
	}
	return posts.Normalize(raw, s.options.normalize)
}

func (s *FSSource) matches(p string) bool {
	ok, err := path.Match(s.cfg.Pattern, path.Base(p))
	return err == nil && ok
}
