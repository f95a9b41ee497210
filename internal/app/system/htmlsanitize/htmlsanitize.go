// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-authored HTML
// before it is stored. Blog posts and meeting minutes arrive as rich
// text from a browser editor; everything else a client sends is
// treated as hostile.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Editor output beyond the UGC defaults.
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").OnElements(
		"table", "thead", "tbody", "tr", "th", "td", "p", "span", "div",
	)
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize returns html with scripts, event handlers, javascript: URLs,
// iframes, and style blocks removed. Safe formatting, links, lists,
// tables, and code blocks pass through unchanged.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return policy.Sanitize(html)
}

// IsPlainText reports whether s contains no HTML tags. A lone < or >
// (for example "5 < 10") does not count as markup.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt == -1 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') == -1
}
