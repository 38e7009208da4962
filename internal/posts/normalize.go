package posts

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	// DefaultAuthor is used when a record does not name an author.
	DefaultAuthor = "Samshodan Team"
	// DefaultReadTime is used when a record carries no read time label.
	DefaultReadTime = "5 min read"
	// DateLayout is the canonical date representation on a normalized post.
	DateLayout = "2006-01-02"
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// RawPost is a record as produced by a backing store, before defaults are
// applied. FileName is set by file-backed stores and, when present, is the
// canonical source of both the ID and the slug.
type RawPost struct {
	FileName      string
	ID            string
	Slug          string
	Title         string
	Excerpt       string
	Content       string
	Author        string
	Date          any
	Category      string
	Tags          []string
	ReadTime      string
	Published     *bool
	FeaturedImage string
}

// NormalizeOptions overrides the defaults applied by Normalize.
type NormalizeOptions struct {
	DefaultAuthor   string
	DefaultReadTime string
}

func (o NormalizeOptions) author() string {
	if trimmed := strings.TrimSpace(o.DefaultAuthor); trimmed != "" {
		return trimmed
	}
	return DefaultAuthor
}

func (o NormalizeOptions) readTime() string {
	if trimmed := strings.TrimSpace(o.DefaultReadTime); trimmed != "" {
		return trimmed
	}
	return DefaultReadTime
}

// Normalize turns raw into a fully populated post and validates it. The
// returned error is a go-errors validation error wrapping ErrMalformedRecord.
func Normalize(raw RawPost, opts NormalizeOptions) (interfaces.Post, error) {
	post := interfaces.Post{
		Title:         strings.TrimSpace(raw.Title),
		Excerpt:       strings.TrimSpace(raw.Excerpt),
		Content:       raw.Content,
		Author:        strings.TrimSpace(raw.Author),
		Date:          NormalizeDate(raw.Date),
		Category:      strings.TrimSpace(raw.Category),
		Tags:          normalizeTags(raw.Tags),
		ReadTime:      strings.TrimSpace(raw.ReadTime),
		Published:     raw.Published == nil || *raw.Published,
		FeaturedImage: strings.TrimSpace(raw.FeaturedImage),
	}

	if name := baseName(raw.FileName); name != "" {
		post.Slug = slugify(name)
		post.ID = post.Slug
	} else {
		post.Slug = strings.TrimSpace(raw.Slug)
		post.ID = strings.TrimSpace(raw.ID)
		if post.ID == "" {
			post.ID = post.Slug
		}
	}

	if post.Author == "" {
		post.Author = opts.author()
	}
	if post.ReadTime == "" {
		post.ReadTime = opts.readTime()
	}

	if err := Validate(post); err != nil {
		return interfaces.Post{}, err
	}
	return post, nil
}

// NormalizeDate renders value as YYYY-MM-DD. Unparseable or missing values
// yield the empty string, which sorts after every dated post.
func NormalizeDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return NormalizeDate(*v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.Format(DateLayout)
			}
		}
		return ""
	default:
		return ""
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func baseName(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

func slugify(value string) string {
	if slug.IsValid(value) {
		return value
	}
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	return value
}
