package sources

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-blog/internal/posts"
)

// frontMatter is the metadata block at the top of a post file. Date is kept
// as text so an unparseable value degrades to an undated post instead of a
// parse failure.
type frontMatter struct {
	ID            string   `yaml:"id"`
	Slug          string   `yaml:"slug"`
	Title         string   `yaml:"title"`
	Excerpt       string   `yaml:"excerpt"`
	Author        string   `yaml:"author"`
	Date          string   `yaml:"date"`
	Category      string   `yaml:"category"`
	ReadTime      string   `yaml:"readTime"`
	Tags          []string `yaml:"tags"`
	Published     *bool    `yaml:"published"`
	FeaturedImage string   `yaml:"featuredImage"`
}

// ParseDocument splits source into front matter and Markdown body.
func ParseDocument(source []byte) (posts.RawPost, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return posts.RawPost{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	return posts.RawPost{
		ID:            meta.ID,
		Slug:          meta.Slug,
		Title:         meta.Title,
		Excerpt:       meta.Excerpt,
		Content:       string(bytes.TrimSpace(body)),
		Author:        meta.Author,
		Date:          meta.Date,
		Category:      meta.Category,
		Tags:          meta.Tags,
		ReadTime:      meta.ReadTime,
		Published:     meta.Published,
		FeaturedImage: meta.FeaturedImage,
	}, nil
}
