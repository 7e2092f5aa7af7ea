package jdl

import "strings"

// scanBlock walks source from the opening brace at open, tracking brace depth,
// and returns the text between the outer braces plus the index just past the
// closing brace. ok is false when depth never returns to zero; the cursor ran
// off the end of the input and the caller must stop scanning.
func scanBlock(source string, open int) (body string, end int, ok bool) {
	depth := 0
	for i := open; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[open+1 : i], i + 1, true
			}
		}
	}
	return "", len(source), false
}

// lineAt returns the 1-based line number of byte offset off in source.
func lineAt(source string, off int) int {
	if off > len(source) {
		off = len(source)
	}
	return strings.Count(source[:off], "\n") + 1
}
