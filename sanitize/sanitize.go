// Package sanitize strips user supplied rich text down to an allow-list of
// formatting markup before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var allowedTags = []string{
	"a", "abbr", "acronym", "address", "b", "br", "div", "dl", "dt", "em",
	"h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "img", "li", "ol", "p",
	"pre", "q", "s", "small", "strike", "span", "sub", "sup", "table", "tbody",
	"td", "tfoot", "th", "thead", "tr", "tt", "u", "ul",
}

var (
	linkTarget = regexp.MustCompile(`^(_blank|_self|_parent|_top)$`)
	dimension  = regexp.MustCompile(`^[0-9]{1,5}%?$`)
)

// Sanitizer removes every element, attribute and URL that is not on its
// allow-list. Disallowed elements are unwrapped, keeping their text, except
// for script-like elements whose content is dropped as well.
type Sanitizer struct {
	rich   *bluemonday.Policy
	strict *bluemonday.Policy
}

func New() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowElements(allowedTags...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("target").Matching(linkTarget).OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("width", "height").Matching(dimension).OnElements("img")

	return &Sanitizer{rich: p, strict: bluemonday.StrictPolicy()}
}

// HTML sanitizes rich text authored as HTML.
func (s *Sanitizer) HTML(raw string) string {
	return s.rich.Sanitize(raw)
}

// Markdown renders markdown (which may embed raw HTML) and sanitizes the result.
func (s *Sanitizer) Markdown(md string) string {
	return string(s.rich.SanitizeBytes(mdToHTML([]byte(md))))
}

// PlainText drops all markup and returns at most limit runes of text,
// suitable for previews. A non-positive limit disables truncation.
func (s *Sanitizer) PlainText(raw string, limit int) string {
	text := strings.Join(strings.Fields(html.UnescapeString(s.strict.Sanitize(raw))), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func mdToHTML(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := mdhtml.CommonFlags | mdhtml.HrefTargetBlank
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: htmlFlags})

	return markdown.Render(doc, renderer)
}
