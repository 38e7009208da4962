package markdown

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	allowedTags = map[atom.Atom]bool{
		atom.H1: true, atom.H2: true, atom.H3: true,
		atom.H4: true, atom.H5: true, atom.H6: true,
		atom.P: true, atom.A: true,
		atom.Ul: true, atom.Ol: true, atom.Li: true,
		atom.Strong: true, atom.Em: true,
		atom.Code: true, atom.Pre: true,
		atom.Blockquote: true, atom.Br: true,
	}

	// Elements whose content is discarded together with the tag. All of them
	// are raw text elements, so the tokenizer yields their body as one text
	// token and an unclosed one cannot swallow later markup.
	droppedContent = map[atom.Atom]bool{
		atom.Script: true, atom.Style: true, atom.Iframe: true,
		atom.Noscript: true, atom.Textarea: true, atom.Title: true,
		atom.Xmp: true, atom.Noembed: true, atom.Noframes: true,
	}

	allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true}
	allowedTargets = map[string]bool{"_blank": true, "_self": true, "_parent": true, "_top": true}

	classToken   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	handlerLike  = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
	scriptScheme = regexp.MustCompile(`(?i)(?:java|vb)script\s*:`)
)

const safeRel = "noopener noreferrer"

// Sanitizer rewrites HTML so only the allow-listed tags and attributes
// (href, class, target, rel) survive. Disallowed tags are removed while their
// text is kept, except for script-like elements whose content is dropped.
// Images are replaced by their alt text.
// The zero value is not usable; call NewSanitizer.
type Sanitizer struct {
	tags map[atom.Atom]bool
}

// NewSanitizer returns the allow-list sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{tags: allowedTags}
}

// Sanitize returns a cleaned copy of input. Text is re-escaped so entities in
// the input can never decode into markup. Unclosed allowed tags are closed.
func (s *Sanitizer) Sanitize(input []byte) []byte {
	var (
		out  bytes.Buffer
		open []atom.Atom
		skip int
	)
	out.Grow(len(input))
	tz := html.NewTokenizer(bytes.NewReader(input))

	for {
		tt := tz.Next()
		switch tt {
		case html.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				writeEnd(&out, open[i])
			}
			return out.Bytes()

		case html.TextToken:
			if skip > 0 {
				continue
			}
			out.WriteString(escapeText(string(tz.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := tz.Token()
			if droppedContent[tok.DataAtom] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if tok.DataAtom == atom.Img {
				out.WriteString(escapeText(attrValue(tok, "alt")))
				continue
			}
			if !s.tags[tok.DataAtom] {
				continue
			}
			writeStart(&out, tok)
			if tok.DataAtom != atom.Br && tt == html.StartTagToken {
				open = append(open, tok.DataAtom)
			}

		case html.EndTagToken:
			tok := tz.Token()
			if droppedContent[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !s.tags[tok.DataAtom] {
				continue
			}
			idx := lastIndex(open, tok.DataAtom)
			if idx < 0 {
				continue
			}
			for i := len(open) - 1; i >= idx; i-- {
				writeEnd(&out, open[i])
			}
			open = open[:idx]

		default:
			// Comments and doctypes are dropped.
		}
	}
}

func writeStart(out *bytes.Buffer, tok html.Token) {
	out.WriteByte('<')
	out.WriteString(tok.DataAtom.String())

	var href, class, target, rel string
	for _, attr := range tok.Attr {
		if attr.Namespace != "" {
			continue
		}
		switch strings.ToLower(attr.Key) {
		case "href":
			if tok.DataAtom == atom.A {
				href = safeURL(attr.Val)
			}
		case "class":
			class = safeClass(attr.Val)
		case "target":
			if tok.DataAtom == atom.A && allowedTargets[strings.ToLower(strings.TrimSpace(attr.Val))] {
				target = strings.ToLower(strings.TrimSpace(attr.Val))
			}
		case "rel":
			if tok.DataAtom == atom.A {
				rel = safeClass(attr.Val)
			}
		}
	}
	if target != "" {
		rel = safeRel
	}

	writeAttr(out, "href", href)
	writeAttr(out, "class", class)
	writeAttr(out, "target", target)
	writeAttr(out, "rel", rel)
	out.WriteByte('>')
}

func attrValue(tok html.Token, key string) string {
	for _, attr := range tok.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func writeAttr(out *bytes.Buffer, key, val string) {
	if val == "" {
		return
	}
	out.WriteByte(' ')
	out.WriteString(key)
	out.WriteString(`="`)
	out.WriteString(defuse(html.EscapeString(val)))
	out.WriteByte('"')
}

func writeEnd(out *bytes.Buffer, a atom.Atom) {
	if a == atom.Br {
		return
	}
	out.WriteString("</")
	out.WriteString(a.String())
	out.WriteByte('>')
}

func lastIndex(stack []atom.Atom, a atom.Atom) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == a {
			return i
		}
	}
	return -1
}

func escapeText(s string) string {
	return defuse(html.EscapeString(s))
}

// defuse entity-encodes one character of script schemes and inline handler
// lookalikes in already escaped text so they never appear verbatim in output.
func defuse(escaped string) string {
	escaped = scriptScheme.ReplaceAllStringFunc(escaped, func(m string) string {
		return strings.Replace(m, ":", "&#58;", 1)
	})
	return handlerLike.ReplaceAllStringFunc(escaped, func(m string) string {
		if m[0] == 'O' {
			return "&#79;" + m[1:]
		}
		return "&#111;" + m[1:]
	})
}

// safeURL returns raw when it is relative or uses an allowed scheme, and ""
// otherwise. Whitespace and control characters are stripped before the
// scheme check so "java\tscript:" is caught.
func safeURL(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return ""
	}
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return ""
	}
	if parsed.Scheme == "" {
		if strings.Contains(strings.SplitN(cleaned, "/", 2)[0], ":") {
			return ""
		}
		return cleaned
	}
	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return ""
	}
	return cleaned
}

func safeClass(raw string) string {
	var kept []string
	for _, token := range strings.Fields(raw) {
		if classToken.MatchString(token) {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}
