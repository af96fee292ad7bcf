package util

import (
	"regexp"
	"strings"
)

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases input and collapses every run of characters outside
// [a-z0-9] into a single hyphen: "Arts & Culture" -> "arts-culture".
func Slug(input string) string {
	s := reNonSlug.ReplaceAllString(strings.ToLower(input), "-")
	return strings.Trim(s, "-")
}
