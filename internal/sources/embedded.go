package sources

import (
	"embed"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

//go:embed dataset/*.md
var dataset embed.FS

// NewEmbeddedSource returns the compiled-in fallback dataset. Its files carry
// explicit id and slug fields in the front matter.
func NewEmbeddedSource(opts ...Option) interfaces.PostSource {
	return NewFSSource(dataset, FSConfig{
		Name: "embedded",
		Root: "dataset",
	}, opts...)
}
