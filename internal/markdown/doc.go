// Package markdown renders post bodies to HTML with goldmark and cleans the
// result against a fixed allow-list. Rendered output can be memoised in
// process (sturdyc) or shared through Redis.
package markdown
