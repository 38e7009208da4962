package posts

import (
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultRelatedLimit is the number of related posts RelatedDefault returns.
// Related itself returns nothing for a non-positive limit.
const DefaultRelatedLimit = 3

// Option customises a Repository.
type Option func(*Repository)

// WithLogger sets the logger used to report dropped records.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Repository answers read-side queries over an immutable snapshot of
// published posts. It is safe for concurrent use.
type Repository struct {
	posts      []interfaces.Post
	bySlug     map[string]int
	categories []string
	tags       []string
	logger     interfaces.Logger
}

var _ interfaces.PostRepository = (*Repository)(nil)

// NewRepository builds a repository from list. Unpublished posts are dropped,
// the first published post for a slug wins, and the result is ordered by date
// descending with undated posts last.
func NewRepository(list []interfaces.Post, opts ...Option) *Repository {
	repo := &Repository{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(repo)
	}

	seen := make(map[string]struct{}, len(list))
	published := make([]interfaces.Post, 0, len(list))
	for _, post := range list {
		if !post.Published {
			repo.logger.Debug("posts.unpublished_dropped", "slug", post.Slug)
			continue
		}
		if _, dup := seen[post.Slug]; dup {
			repo.logger.Warn("posts.duplicate_slug_dropped", "slug", post.Slug, "id", post.ID)
			continue
		}
		seen[post.Slug] = struct{}{}
		published = append(published, clonePost(post))
	}

	sortByDateDesc(published)

	repo.posts = published
	repo.bySlug = make(map[string]int, len(published))
	for i, post := range published {
		repo.bySlug[post.Slug] = i
	}
	repo.categories = collectCategories(published)
	repo.tags = collectTags(published)
	return repo
}

// All returns every published post, most recent first.
func (r *Repository) All() []interfaces.Post {
	return r.collect(func(interfaces.Post) bool { return true })
}

// BySlug returns the post with the given slug. A missing post is reported by
// the boolean, never by an error.
func (r *Repository) BySlug(slug string) (interfaces.Post, bool) {
	idx, ok := r.bySlug[slug]
	if !ok {
		return interfaces.Post{}, false
	}
	return clonePost(r.posts[idx]), true
}

// Lookup is BySlug for callers that prefer an error. A missing post yields an
// error matching ErrPostNotFound and the go-errors NotFound category.
func (r *Repository) Lookup(slug string) (interfaces.Post, error) {
	post, ok := r.BySlug(slug)
	if !ok {
		return interfaces.Post{}, NotFoundError(slug)
	}
	return post, nil
}

func (r *Repository) ByCategory(category string) []interfaces.Post {
	return r.collect(func(p interfaces.Post) bool { return p.Category == category })
}

func (r *Repository) ByTag(tag string) []interfaces.Post {
	return r.collect(func(p interfaces.Post) bool { return p.HasTag(tag) })
}

// Categories returns the distinct non-empty categories, sorted ascending.
func (r *Repository) Categories() []string {
	return slices.Clone(r.categories)
}

// Tags returns the distinct tags, sorted ascending.
func (r *Repository) Tags() []string {
	return slices.Clone(r.tags)
}

// Recent returns up to limit posts, most recent first.
func (r *Repository) Recent(limit int) []interfaces.Post {
	if limit <= 0 {
		return []interfaces.Post{}
	}
	all := r.All()
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Related returns up to limit posts other than post that share its category or
// at least one of its tags. An empty category never counts as shared.
func (r *Repository) Related(post interfaces.Post, limit int) []interfaces.Post {
	if limit <= 0 {
		return []interfaces.Post{}
	}
	related := make([]interfaces.Post, 0, limit)
	for _, candidate := range r.posts {
		if len(related) == limit {
			break
		}
		if isSamePost(candidate, post) {
			continue
		}
		if sharesCategory(candidate, post) || sharesTag(candidate, post) {
			related = append(related, clonePost(candidate))
		}
	}
	return related
}

// RelatedDefault is Related with DefaultRelatedLimit.
func (r *Repository) RelatedDefault(post interfaces.Post) []interfaces.Post {
	return r.Related(post, DefaultRelatedLimit)
}

func (r *Repository) Count() int {
	return len(r.posts)
}

func (r *Repository) collect(keep func(interfaces.Post) bool) []interfaces.Post {
	out := make([]interfaces.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if keep(post) {
			out = append(out, clonePost(post))
		}
	}
	return out
}

func isSamePost(a, b interfaces.Post) bool {
	return (a.ID != "" && a.ID == b.ID) || (a.Slug != "" && a.Slug == b.Slug)
}

func sharesCategory(a, b interfaces.Post) bool {
	return a.Category != "" && a.Category == b.Category
}

func sharesTag(a, b interfaces.Post) bool {
	for _, tag := range b.Tags {
		if a.HasTag(tag) {
			return true
		}
	}
	return false
}

// sortByDateDesc orders posts newest first. Dates are YYYY-MM-DD so string
// comparison matches chronological order; empty dates sort last.
func sortByDateDesc(list []interfaces.Post) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Date, list[j].Date
		switch {
		case a == "":
			return false
		case b == "":
			return true
		default:
			return a > b
		}
	})
}

func collectCategories(list []interfaces.Post) []string {
	set := map[string]struct{}{}
	for _, post := range list {
		if post.Category != "" {
			set[post.Category] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func collectTags(list []interfaces.Post) []string {
	set := map[string]struct{}{}
	for _, post := range list {
		for _, tag := range post.Tags {
			set[tag] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func clonePost(post interfaces.Post) interfaces.Post {
	post.Tags = slices.Clone(post.Tags)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
