package posts

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

var slugRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" || slug.IsValid(s) {
		return nil
	}
	return validation.NewError("blog.post.slug_invalid", "must be a lowercase, hyphenated slug")
})

// Validate checks the invariants every normalized post must hold: a valid
// slug, and a title whenever the post is published.
func Validate(post interfaces.Post) error {
	err := validation.ValidateStruct(&post,
		validation.Field(&post.Slug, validation.Required, slugRule),
		validation.Field(&post.Title, validation.When(post.Published, validation.Required)),
	)
	if err == nil {
		return nil
	}

	wrapped := goerrors.FromOzzoValidation(err, "invalid post record").
		WithTextCode(textCodeRecordInvalid)
	wrapped.Source = ErrMalformedRecord
	if post.Slug != "" {
		wrapped = wrapped.WithMetadata(map[string]any{"slug": post.Slug})
	}
	return wrapped
}
