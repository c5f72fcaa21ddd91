package sanitize

import (
	"regexp"
	"strings"
	"testing"
)

var eventAttr = regexp.MustCompile(`(?i)<[^>]*\son[a-z]+\s*=`)

var corpus = []string{
	`<p>Hello <b>world</b></p>`,
	`<section><p>x</p></section>`,
	`<p>a<script>alert(1)</script>b</p>`,
	`<ScRiPt>alert(1)</sCrIpT><p>ok</p>`,
	`<scr<script>ipt>alert(1)</script>`,
	`<img src="x.png" onerror="alert(1)" alt="a" width="10" height="50%">`,
	`<IMG SRC="x.png" OnError="alert(1)">`,
	`<a href="javascript:alert(1)">x</a>`,
	`<a href="JaVaScRiPt:alert(1)" onclick="steal()">y</a>`,
	`<a href="https://example.com/?q=1&amp;r=2" target="_blank" title="t" onclick="x()">e</a>`,
	`<div style="color:red" class="c"><span onmouseover="x()">s</span></div>`,
	`<table><thead><tr><th>h</th></tr></thead><tbody><tr><td>d</td></tr></tbody></table>`,
	`<iframe src="https://evil"></iframe><p>after</p>`,
	`<svg><g onload="alert(1)"></g></svg>`,
	`<p title="&quot;><script>alert(1)</script>">q</p>`,
	`5 < 6 & 7 > 3 "quoted" 'single'`,
	`<style>p{}</style><ul><li>one</li><li>two</li></ul>`,
	`<object data="x"></object><pre>code &lt;tag&gt;</pre>`,
	`<form action="/x"><input name="a"><button>go</button></form>`,
	``,
}

func TestHTMLKeepsAllowedStructure(t *testing.T) {
	s := New()
	cases := map[string]string{
		`<p>Hello <b>world</b></p>`:           `<p>Hello <b>world</b></p>`,
		`<section><p>x</p></section>`:         `<p>x</p>`,
		`<p>a<script>alert(1)</script>b</p>`:  `<p>ab</p>`,
		`<font color="red">hi</font>`:         `hi`,
		`<h2>Title</h2><hr><ol><li>a</li></ol>`: `<h2>Title</h2><hr><ol><li>a</li></ol>`,
	}
	for in, want := range cases {
		if got := s.HTML(in); got != want {
			t.Errorf("HTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTMLAttributes(t *testing.T) {
	s := New()

	got := s.HTML(`<a href="https://example.com" target="_blank" title="t" onclick="x()" class="c">e</a>`)
	for _, want := range []string{`href="https://example.com"`, `target="_blank"`, `title="t"`, `>e</a>`} {
		if !strings.Contains(got, want) {
			t.Errorf("link lost %s: %q", want, got)
		}
	}
	if strings.Contains(got, "onclick") || strings.Contains(got, "class") {
		t.Errorf("link kept disallowed attribute: %q", got)
	}

	got = s.HTML(`<img src="x.png" alt="a" width="10" height="50%" onerror="alert(1)" style="x">`)
	for _, want := range []string{`src="x.png"`, `alt="a"`, `width="10"`, `height="50%"`} {
		if !strings.Contains(got, want) {
			t.Errorf("image lost %s: %q", want, got)
		}
	}
	if strings.Contains(got, "onerror") || strings.Contains(got, "style") {
		t.Errorf("image kept disallowed attribute: %q", got)
	}

	if got := s.HTML(`<img src="x.png" width="10onerror">`); strings.Contains(got, "width") {
		t.Errorf("invalid width kept: %q", got)
	}
	if got := s.HTML(`<a href="x" target="evil">t</a>`); strings.Contains(got, "target") {
		t.Errorf("invalid target kept: %q", got)
	}
	if got := s.HTML(`<p href="https://example.com">p</p>`); got != `<p>p</p>` {
		t.Errorf("attribute allowed on a different element: %q", got)
	}
}

func TestHTMLNeverEmitsScriptOrHandlers(t *testing.T) {
	s := New()
	for _, in := range corpus {
		got := s.HTML(in)
		lower := strings.ToLower(got)
		if strings.Contains(lower, "<script") || strings.Contains(lower, "<iframe") || strings.Contains(lower, "<style") {
			t.Errorf("HTML(%q) emitted an executable element: %q", in, got)
		}
		if eventAttr.MatchString(got) {
			t.Errorf("HTML(%q) emitted an event handler attribute: %q", in, got)
		}
		if strings.Contains(lower, "javascript:") {
			t.Errorf("HTML(%q) emitted a javascript URL: %q", in, got)
		}
	}
}

func TestHTMLIdempotent(t *testing.T) {
	s := New()
	for _, in := range corpus {
		once := s.HTML(in)
		if twice := s.HTML(once); twice != once {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestMarkdown(t *testing.T) {
	s := New()
	got := s.Markdown("Hello *world*\n\n[link](https://example.com) <script>alert(1)</script>")
	if !strings.Contains(got, "<em>world</em>") {
		t.Fatalf("markdown text lost: %q", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("markdown link lost: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "<script") {
		t.Fatalf("markdown output kept a script: %q", got)
	}

	got = s.Markdown(`<p onclick="x()">raw html</p>`)
	if eventAttr.MatchString(got) || !strings.Contains(got, "raw html") {
		t.Fatalf("raw html in markdown not sanitized: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	s := New()
	if got := s.PlainText(`<p>Fish &amp; <b>chips</b></p><script>x</script>`, 0); got != "Fish & chips" {
		t.Fatalf("PlainText = %q", got)
	}
	if got := s.PlainText(`<p>ünïcode text here</p>`, 7); got != "ünïcode…" {
		t.Fatalf("PlainText truncated = %q", got)
	}
	if got := s.PlainText("short", 10); got != "short" {
		t.Fatalf("PlainText short = %q", got)
	}
}
