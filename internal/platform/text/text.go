// Package text holds the string plumbing shared by content contexts:
// transliterating slugs, HTML-to-plain-text extraction and Markdown rendering.
package text

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// Slugger builds ASCII URL slugs, transliterating Cyrillic input.
type Slugger struct{}

func (Slugger) Make(value string) string {
	return slug.Make(strings.TrimSpace(value))
}

// Cleaner turns stored rich text into plain text.
type Cleaner struct {
	policy *bluemonday.Policy
}

func NewCleaner() Cleaner {
	return Cleaner{policy: bluemonday.StrictPolicy()}
}

// PlainText unescapes entities and strips every tag.
func (c Cleaner) PlainText(value string) string {
	policy := c.policy
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}
	unescaped := html.UnescapeString(value)
	stripped := policy.Sanitize(unescaped)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// Truncate cuts value to at most limit runes.
func Truncate(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
