// Package slug derives URL-safe identifiers from course titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9 -]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
)

// Make converts a title into a lowercase hyphenated slug.
// Characters outside [a-z0-9 -] are stripped, whitespace becomes a
// single hyphen and hyphen runs collapse to one.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
