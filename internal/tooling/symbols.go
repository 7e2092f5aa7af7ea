package tooling

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// Declaration patterns over comment-masked source. They accept the same
// shapes the compiler does; the capture groups locate the declared names.
var (
	entityDeclRx = regexp.MustCompile(`\bentity\s+(\w+)\s*\{`)
	enumDeclRx   = regexp.MustCompile(`\benum\s+(\w+)\s*\{`)
	relDeclRx    = regexp.MustCompile(`\brelationship\s+(\w+)\s*\{`)
	fieldLineRx  = regexp.MustCompile(`^([A-Za-z_]\w*)\s+([A-Za-z_]\w*)\s*(.*)$`)
	relStmtRx    = regexp.MustCompile(`^(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*\w+\s*\))?\s*\})?\s+to\s+(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*\w+\s*\))?\s*\})?$`)

	requiredFlagRx = regexp.MustCompile(`(?i)\brequired\b`)
)

// extractSymbols scans the source text for declarations. The parsed schema
// carries no positions, so symbols come straight from the text, using a
// comment-masked copy that keeps the original line and column geometry.
func extractSymbols(content string) []*Symbol {
	masked := maskComments(content)
	li := newLineIndex(masked)

	symbols := make([]*Symbol, 0)
	symbols = append(symbols, entitySymbols(masked, li)...)
	symbols = append(symbols, enumSymbols(masked, li)...)
	symbols = append(symbols, relationshipSymbols(masked, li)...)

	sort.Slice(symbols, func(i, j int) bool {
		a, b := symbols[i].Range.Start, symbols[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})

	return symbols
}

// entitySymbols emits one symbol per entity name plus one per declared field.
// Injected fields (id, audit columns) have no source position and are skipped.
func entitySymbols(masked string, li *lineIndex) []*Symbol {
	var symbols []*Symbol

	for _, m := range entityDeclRx.FindAllStringSubmatchIndex(masked, -1) {
		name := masked[m[2]:m[3]]
		open := m[1] - 1

		closeRel := strings.IndexByte(masked[open+1:], '}')
		if closeRel < 0 {
			continue
		}

		symbols = append(symbols, &Symbol{
			Name:   name,
			Kind:   SymbolKindEntity,
			Range:  Range{Start: li.position(m[2]), End: li.position(m[3])},
			Type:   "entity",
			Detail: fmt.Sprintf("entity %s", name),
		})

		body := masked[open+1 : open+1+closeRel]
		symbols = append(symbols, fieldSymbols(name, body, open+1, li)...)
	}

	return symbols
}

func fieldSymbols(entity, body string, bodyOff int, li *lineIndex) []*Symbol {
	var symbols []*Symbol

	lineOff := bodyOff
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSuffix(strings.TrimSpace(raw), ",")
		if line != "" {
			if m := fieldLineRx.FindStringSubmatch(line); m != nil {
				fieldName, fieldType := m[1], m[2]
				detail := fmt.Sprintf("%s %s", fieldName, fieldType)
				if requiredFlagRx.MatchString(m[3]) {
					detail += " required"
				}

				nameOff := lineOff + leadingSpace(raw)
				symbols = append(symbols, &Symbol{
					Name:          fieldName,
					Kind:          SymbolKindField,
					Range:         Range{Start: li.position(nameOff), End: li.position(nameOff + len(fieldName))},
					Type:          fieldType,
					ContainerName: entity,
					Detail:        detail,
				})
			}
		}
		lineOff += len(raw) + 1
	}

	return symbols
}

// enumSymbols emits one symbol per enum name plus one per value.
func enumSymbols(masked string, li *lineIndex) []*Symbol {
	var symbols []*Symbol

	for _, m := range enumDeclRx.FindAllStringSubmatchIndex(masked, -1) {
		name := masked[m[2]:m[3]]
		open := m[1] - 1

		closeRel := strings.IndexByte(masked[open+1:], '}')
		if closeRel < 0 {
			continue
		}

		symbols = append(symbols, &Symbol{
			Name:   name,
			Kind:   SymbolKindEnum,
			Range:  Range{Start: li.position(m[2]), End: li.position(m[3])},
			Type:   "enum",
			Detail: fmt.Sprintf("enum %s", name),
		})

		body := masked[open+1 : open+1+closeRel]
		for _, tok := range splitTokens(body, ",;\n") {
			off := open + 1 + tok.off
			symbols = append(symbols, &Symbol{
				Name:          tok.text,
				Kind:          SymbolKindEnumValue,
				Range:         Range{Start: li.position(off), End: li.position(off + len(tok.text))},
				ContainerName: name,
				Detail:        fmt.Sprintf("%s.%s", name, tok.text),
			})
		}
	}

	return symbols
}

// relationshipSymbols emits one symbol per statement inside each relationship
// block, spanning the whole statement. Bodies contain braces, so blocks are
// walked with a depth cursor the same way the compiler walks them.
func relationshipSymbols(masked string, li *lineIndex) []*Symbol {
	var symbols []*Symbol

	pos := 0
	for pos < len(masked) {
		loc := relDeclRx.FindStringSubmatchIndex(masked[pos:])
		if loc == nil {
			break
		}

		typeTok := masked[pos+loc[2] : pos+loc[3]]
		open := pos + loc[1] - 1

		body, end, ok := matchBrace(masked, open)
		if !ok {
			break
		}
		pos = end

		relType, known := jdl.ParseRelType(typeTok)
		if !known {
			continue
		}

		lineOff := open + 1
		for _, chunk := range strings.Split(body, "\n") {
			pieceOff := 0
			for _, piece := range strings.Split(chunk, ",") {
				stmt := strings.TrimSuffix(strings.TrimSpace(piece), ";")
				stmt = strings.TrimSpace(stmt)
				if stmt != "" {
					if m := relStmtRx.FindStringSubmatch(stmt); m != nil {
						stmtOff := lineOff + pieceOff + leadingSpace(piece)
						symbols = append(symbols, &Symbol{
							Name:   fmt.Sprintf("%s to %s", m[1], m[3]),
							Kind:   SymbolKindRelationship,
							Range:  Range{Start: li.position(stmtOff), End: li.position(stmtOff + len(stmt))},
							Type:   string(relType),
							Detail: fmt.Sprintf("%s %s to %s", relType, m[1], m[3]),
						})
					}
				}
				pieceOff += len(piece) + 1
			}
			lineOff += len(chunk) + 1
		}
	}

	return symbols
}

// findSymbolAtPosition finds the symbol at a given position in a document
func findSymbolAtPosition(doc *Document, pos Position) *Symbol {
	for _, sym := range doc.Symbols {
		if positionInRange(pos, sym.Range) {
			return sym
		}
	}
	return nil
}

// positionInRange checks if a position is within a range
func positionInRange(pos Position, r Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}

	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}

	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}

	return true
}

// maskComments blanks out // and /* */ comments with spaces so the result
// keeps the exact byte, line, and column geometry of the source.
func maskComments(source string) string {
	out := []byte(source)

	const (
		inCode = iota
		inLineComment
		inBlockComment
	)

	state := inCode
	for i := 0; i < len(out); i++ {
		switch state {
		case inCode:
			if out[i] == '/' && i+1 < len(out) {
				switch out[i+1] {
				case '/':
					state = inLineComment
					out[i], out[i+1] = ' ', ' '
					i++
				case '*':
					state = inBlockComment
					out[i], out[i+1] = ' ', ' '
					i++
				}
			}
		case inLineComment:
			if out[i] == '\n' {
				state = inCode
			} else {
				out[i] = ' '
			}
		case inBlockComment:
			if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				state = inCode
				i++
			} else if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}

	return string(out)
}

// lineIndex converts byte offsets to zero-based line/character positions.
type lineIndex struct {
	starts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(off int) Position {
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	return Position{Line: line, Character: off - li.starts[line]}
}

// matchBrace walks from the opening brace at open, tracking depth, and
// returns the text between the outer braces plus the index just past the
// closing brace. ok is false when the block never closes.
func matchBrace(source string, open int) (body string, end int, ok bool) {
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

// scanToken is a trimmed token with its byte offset inside the scanned text.
type scanToken struct {
	text string
	off  int
}

// splitTokens splits s on the separator bytes, returning each trimmed
// non-empty token with its offset.
func splitTokens(s, seps string) []scanToken {
	var toks []scanToken

	start := 0
	flush := func(end int) {
		raw := s[start:end]
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			toks = append(toks, scanToken{text: trimmed, off: start + leadingSpace(raw)})
		}
		start = end + 1
	}

	for i := 0; i < len(s); i++ {
		if strings.IndexByte(seps, s[i]) >= 0 {
			flush(i)
		}
	}
	if start <= len(s) {
		flush(len(s))
	}

	return toks
}

// leadingSpace returns the number of leading whitespace bytes in s.
func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r"))
}
