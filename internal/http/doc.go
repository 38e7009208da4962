// Package http exposes the blog over JSON.
//
// Routes mount under /api/blog by default:
//   - Snapshot: /api/blog (posts + categories, consumed by the remote source)
//   - Listing: /api/blog/posts?search=&category=&tag=&page=
//   - Detail: /api/blog/posts/{slug} (post, rendered HTML, related posts)
//   - Facets: /api/blog/categories, /api/blog/tags
//
// Host applications register the handlers on their own mux.
package http
