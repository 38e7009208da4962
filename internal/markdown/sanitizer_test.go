package markdown

import "testing"

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "disallowed tags keep text",
			input: `<div class="x"><span>hi</span> <del>there</del></div>`,
			want:  `hi there`,
		},
		{
			name:  "dropped content elements",
			input: `<p>a<iframe src="x">inner</iframe>b<style>p{}</style>c</p>`,
			want:  `<p>abc</p>`,
		},
		{
			name:  "void and unclosed embedding tags drop only the tag",
			input: `<p>a<embed src=x>b</p><object data="x"><p>after</p>`,
			want:  `<p>ab</p><p>after</p>`,
		},
		{
			name:  "images become alt text",
			input: `<p><img src="http://x/y.png" alt="alt <b> onload=x"> gone</p>`,
			want:  `<p>alt &lt;b&gt; &#111;nload=x gone</p>`,
		},
		{
			name:  "target forces rel",
			input: `<a href="https://example.com" target="_blank" rel="opener" onclick="x()" id="y">go</a>`,
			want:  `<a href="https://example.com" target="_blank" rel="noopener noreferrer">go</a>`,
		},
		{
			name:  "unknown target dropped",
			input: `<a href="/about" target="evil">about</a>`,
			want:  `<a href="/about">about</a>`,
		},
		{
			name:  "unsafe schemes removed",
			input: `<a href=" java&#x09;script:alert(1)">x</a><a href="data:text/html,hi">y</a><a href="mailto:team@example.com">z</a>`,
			want:  `<a>x</a><a>y</a><a href="mailto:team@example.com">z</a>`,
		},
		{
			name:  "class tokens filtered",
			input: `<code class="language-go bad&quot;token">x</code>`,
			want:  `<code class="language-go">x</code>`,
		},
		{
			name:  "href only on anchors",
			input: `<p href="https://example.com">x</p>`,
			want:  `<p>x</p>`,
		},
		{
			name:  "unclosed tags closed",
			input: `<ul><li><strong>open`,
			want:  `<ul><li><strong>open</strong></li></ul>`,
		},
		{
			name:  "stray end tags ignored",
			input: `</p>text</em>`,
			want:  `text`,
		},
		{
			name:  "misnested tags closed in order",
			input: `<p><em>a</p>b`,
			want:  `<p><em>a</em></p>b`,
		},
		{
			name:  "comments dropped",
			input: `<!-- raw HTML omitted --><p>x</p>`,
			want:  `<p>x</p>`,
		},
		{
			name:  "line breaks are void",
			input: `a<br>b<br/>c`,
			want:  `a<br>b<br>c`,
		},
		{
			name:  "text is re-escaped",
			input: `<p>&lt;b&gt; &amp; "q"</p>`,
			want:  `<p>&lt;b&gt; &amp; &#34;q&#34;</p>`,
		},
		{
			name:  "handler lookalikes defused",
			input: `<code>onload=go()</code>`,
			want:  `<code>&#111;nload=go()</code>`,
		},
		{
			name:  "script scheme text defused",
			input: `see javascript:void(0)`,
			want:  `see javascript&#58;void(0)`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(s.Sanitize([]byte(tc.input))); got != tc.want {
				t.Fatalf("Sanitize(%q)\n got: %s\nwant: %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestSafeURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a?b=c": "https://example.com/a?b=c",
		"/blog/post":                "/blog/post",
		"#section":                  "#section",
		"relative/path":             "relative/path",
		"JAVASCRIPT:alert(1)":       "",
		"vbscript:msgbox":           "",
		"ftp://example.com":         "",
		"":                          "",
	}
	for input, want := range cases {
		if got := safeURL(input); got != want {
			t.Fatalf("safeURL(%q) = %q, want %q", input, got, want)
		}
	}
}
