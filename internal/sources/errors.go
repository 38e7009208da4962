package sources

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeSourceUnavailable = "BLOG_SOURCE_UNAVAILABLE"

var (
	// ErrSourceUnavailable signals that a backing store could not be reached
	// or read (missing directory, connection failure, non-2xx response).
	ErrSourceUnavailable = errors.New("sources: source unavailable")
	// ErrSourceEmpty signals that a store was readable but produced no valid
	// posts.
	ErrSourceEmpty = errors.New("sources: no posts loaded")
	// ErrAllSourcesFailed is returned by ChainSource when no source produced
	// posts.
	ErrAllSourcesFailed = errors.New("sources: all sources failed")
)

func unavailable(source string, cause error, message string) error {
	return goerrors.Wrap(errors.Join(ErrSourceUnavailable, cause), goerrors.CategoryExternal, message).
		WithTextCode(textCodeSourceUnavailable).
		WithMetadata(map[string]any{"source": source})
}

// IsUnavailable reports whether err means the source could not be read.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
