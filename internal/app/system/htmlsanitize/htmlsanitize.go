// Package htmlsanitize cleans operator-entered campaign text before it is
// stored and later rendered to evaluators.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	rich   *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() {
	once.Do(func() {
		rich = bluemonday.UGCPolicy()
		strict = bluemonday.StrictPolicy()
	})
}

// Sanitize keeps user-generated-content HTML (formatting, lists, links)
// and removes scripts, event handlers and javascript: URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	policies()
	return rich.Sanitize(s)
}

// PlainText strips every tag and returns unescaped, trimmed text. Used
// for single-line fields such as campaign titles.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
