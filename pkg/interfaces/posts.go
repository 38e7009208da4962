package interfaces

import "context"

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "All"

// Post is the normalized, read-only representation of a blog post. Every field
// is populated by the normalization step so downstream code never has to apply
// defaults of its own.
type Post struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Author        string   `json:"author"`
	Date          string   `json:"date"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	ReadTime      string   `json:"readTime"`
	Published     bool     `json:"published"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
}

// HasTag reports whether tag is one of the post tags (exact match).
func (p Post) HasTag(tag string) bool {
	for _, candidate := range p.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// PostSource produces normalized posts from a backing store (filesystem,
// embedded dataset, database, remote endpoint).
type PostSource interface {
	Name() string
	Load(ctx context.Context) ([]Post, error)
}

// PostFilter describes the combined listing filter. Category takes precedence
// over Tag when both are set.
type PostFilter struct {
	Search   string
	Category string
	Tag      string
}

// PostRepository exposes read-side queries over a snapshot of published posts.
// Every listing is ordered by date, most recent first.
type PostRepository interface {
	All() []Post
	BySlug(slug string) (Post, bool)
	ByCategory(category string) []Post
	ByTag(tag string) []Post
	Categories() []string
	Tags() []string
	Recent(limit int) []Post
	Related(post Post, limit int) []Post
	Filter(filter PostFilter) []Post
	Count() int
}
