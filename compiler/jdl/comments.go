package jdl

import (
	"regexp"
	"strings"
)

var (
	blockCommentRx = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRx  = regexp.MustCompile(`//[^\n]*`)
)

// stripComments removes /* */ and // comments. A block comment is replaced by
// the newlines it spanned so every surviving construct keeps its original line
// number. An unterminated block comment is left in place; the text inside it
// is then subject to normal extraction, which drops what does not parse.
// Comment markers inside quoted text are not recognized.
func stripComments(source string) string {
	out := blockCommentRx.ReplaceAllStringFunc(source, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})
	return lineCommentRx.ReplaceAllString(out, "")
}
