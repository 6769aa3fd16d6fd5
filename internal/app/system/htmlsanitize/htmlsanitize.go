// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied content.
// Assignment content, execution notes and employee updates all pass through
// here on write, so stored documents never carry scripts or event handlers.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// ugc allows the formatting users legitimately paste from board items
// (paragraphs, lists, tables, links) and nothing executable.
var ugc = bluemonday.UGCPolicy()

// strict reduces input to plain text. Used for single-line fields like
// column titles.
var strict = bluemonday.StrictPolicy()

// Sanitize applies the UGC policy.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips every tag.
func PlainText(s string) string {
	return strict.Sanitize(s)
}
