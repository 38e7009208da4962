package posts

import (
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Filter applies the combined listing filter. A category other than "" or
// interfaces.AllCategories restricts first; otherwise a non-empty tag does.
// Search then keeps posts whose title, excerpt, category or any tag contains
// the trimmed term, case-insensitively.
func (r *Repository) Filter(filter interfaces.PostFilter) []interfaces.Post {
	var base []interfaces.Post
	switch category, tag := strings.TrimSpace(filter.Category), strings.TrimSpace(filter.Tag); {
	case category != "" && category != interfaces.AllCategories:
		base = r.ByCategory(category)
	case tag != "":
		base = r.ByTag(tag)
	default:
		base = r.All()
	}

	term := strings.TrimSpace(filter.Search)
	if term == "" {
		return base
	}

	out := base[:0]
	for _, post := range base {
		if MatchesSearch(post, term) {
			out = append(out, post)
		}
	}
	return out
}

// MatchesSearch reports whether term occurs in the title, excerpt, category
// or any tag of post, ignoring case.
func MatchesSearch(post interfaces.Post, term string) bool {
	term = strings.ToLower(term)
	if containsFold(post.Title, term) || containsFold(post.Excerpt, term) || containsFold(post.Category, term) {
		return true
	}
	for _, tag := range post.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}
