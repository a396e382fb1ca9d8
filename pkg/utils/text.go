package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LowerFirst lower-cases only the first letter of s, leaving the rest alone.
// Used when a transition word is prepended to a sentence.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// CollapseBlankLines rewrites runs of three or more newlines down to exactly
// one blank line.
func CollapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
