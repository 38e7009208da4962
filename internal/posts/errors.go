package posts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodePostNotFound  = "BLOG_POST_NOT_FOUND"
	textCodeRecordInvalid = "BLOG_RECORD_INVALID"
)

var (
	// ErrPostNotFound signals that no published post matches the requested slug.
	ErrPostNotFound = errors.New("posts: post not found")
	// ErrMalformedRecord signals that a raw record failed validation.
	ErrMalformedRecord = errors.New("posts: malformed record")
)

// NotFoundError wraps ErrPostNotFound in a go-errors NotFound category with
// the slug attached as metadata.
func NotFoundError(slug string) error {
	return goerrors.Wrap(ErrPostNotFound, goerrors.CategoryNotFound, "post not found").
		WithTextCode(textCodePostNotFound).
		WithMetadata(map[string]any{"slug": slug})
}

// IsNotFound reports whether err describes a missing post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) || goerrors.IsNotFound(err)
}

// IsMalformed reports whether err describes a record that failed validation.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedRecord) || goerrors.IsValidation(err)
}
