// Package format pretty-prints JDL source text.
//
// The formatter normalizes layout without changing what the compiler sees:
// comments survive, lines the compiler would drop pass through unchanged,
// and formatted output always formats to itself.
package format

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

var (
	blockCommentRx = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRx  = regexp.MustCompile(`//[^\n]*`)
	commentRx      = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*`)

	entityRx     = regexp.MustCompile(`((?:@\w+(?:\([^)]*\))?\s*)*)\bentity\s+(\w+)\s*\{([^}]*)\}`)
	enumRx       = regexp.MustCompile(`\benum\s+(\w+)\s*\{([^}]*)\}`)
	relHeaderRx  = regexp.MustCompile(`\brelationship\s+(\w+)\s*\{`)
	annotationRx = regexp.MustCompile(`@\w+(?:\([^)]*\))?`)
	fieldRx      = regexp.MustCompile(`^([A-Za-z_]\w*)\s+([A-Za-z_]\w*)\s*(.*)$`)

	// Like the compiler's statement pattern, but the display hints are
	// captured so they can be printed back.
	relStmtRx = regexp.MustCompile(`^(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*(\w+)\s*\))?\s*\})?\s+to\s+(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*(\w+)\s*\))?\s*\})?$`)

	spaceRx = regexp.MustCompile(`\s+`)
)

// Formatter formats JDL source.
type Formatter struct {
	config *Config
	buf    *bytes.Buffer
	indent int
}

// New creates a Formatter with the given configuration. A nil config means
// the defaults.
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{
		config: config,
		buf:    new(bytes.Buffer),
	}
}

// Format returns the canonical form of source. Structurally broken source,
// an unclosed block or block comment, is refused with an error rather than
// rewritten.
func (f *Formatter) Format(source string) (string, error) {
	masked, err := maskComments(source)
	if err != nil {
		return "", err
	}

	nodes, err := scan(source, masked)
	if err != nil {
		return "", err
	}

	f.buf.Reset()
	f.indent = 0
	f.printNodes(nodes)

	return f.buf.String(), nil
}

// FormatFile formats a JDL source file.
func FormatFile(path string, config *Config) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return New(config).Format(string(content))
}

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeEntity
	nodeEnum
	nodeRelationship
)

// node is one top-level unit of the document: a block, or a run of lines
// outside any block.
type node struct {
	kind nodeKind

	name        string   // entity or enum name, relationship type token
	annotations []string // entity annotations, one per element
	comments    []string // comments found inside the block header
	body        []string // raw lines between the braces

	lines []string // nodeText: lines preserved as written

	// attached keeps a text run glued to the block that follows it, so a
	// comment directly above an entity stays directly above it.
	attached bool
}

type blockSpan struct {
	start, end int
	node       node
}

// maskComments blanks out comment bytes while keeping offsets and line
// structure, so block headers can be matched without tripping over commented
// out source. Newlines inside block comments survive.
func maskComments(source string) (string, error) {
	masked := blockCommentRx.ReplaceAllStringFunc(source, blankNonNewlines)
	masked = lineCommentRx.ReplaceAllStringFunc(masked, blankNonNewlines)

	if idx := strings.Index(masked, "/*"); idx >= 0 {
		return "", fmt.Errorf("line %d: block comment is never closed", lineAt(source, idx))
	}
	return masked, nil
}

func blankNonNewlines(m string) string {
	b := []byte(m)
	for i, c := range b {
		if c != '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}

func lineAt(source string, off int) int {
	return strings.Count(source[:off], "\n") + 1
}

// scan splits the source into top-level nodes. Blocks are located on the
// masked text; their content is read from the original so comments are kept.
func scan(source, masked string) ([]node, error) {
	var spans []blockSpan

	for _, m := range entityRx.FindAllStringSubmatchIndex(masked, -1) {
		n := node{kind: nodeEntity, name: masked[m[4]:m[5]]}
		n.annotations = annotationRx.FindAllString(masked[m[2]:m[3]], -1)
		n.comments = commentLines(source[m[0]:m[6]])
		n.body = strings.Split(source[m[6]:m[7]], "\n")
		spans = append(spans, blockSpan{start: m[0], end: m[1], node: n})
	}

	for _, m := range enumRx.FindAllStringSubmatchIndex(masked, -1) {
		n := node{kind: nodeEnum, name: masked[m[2]:m[3]]}
		n.comments = commentLines(source[m[0]:m[4]])
		n.body = strings.Split(source[m[4]:m[5]], "\n")
		spans = append(spans, blockSpan{start: m[0], end: m[1], node: n})
	}

	pos := 0
	for pos < len(masked) {
		loc := relHeaderRx.FindStringSubmatchIndex(masked[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		open := pos + loc[1] - 1

		end, ok := blockEnd(masked, open)
		if !ok {
			return nil, fmt.Errorf("line %d: relationship block is never closed", lineAt(source, start))
		}

		n := node{kind: nodeRelationship, name: masked[pos+loc[2] : pos+loc[3]]}
		n.comments = commentLines(source[start : open+1])
		n.body = strings.Split(source[open+1:end-1], "\n")
		spans = append(spans, blockSpan{start: start, end: end, node: n})
		pos = end
	}

	spans = sortAndPrune(spans)

	var nodes []node
	cursor := 0
	for _, sp := range spans {
		nodes = append(nodes, textNodes(source[cursor:sp.start], true)...)
		nodes = append(nodes, sp.node)
		cursor = sp.end
	}
	nodes = append(nodes, textNodes(source[cursor:], false)...)

	return nodes, nil
}

// blockEnd walks from the opening brace and returns the offset one past the
// matching close.
func blockEnd(masked string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(masked); i++ {
		switch masked[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// sortAndPrune orders spans by start offset and drops any span that begins
// inside an earlier one.
func sortAndPrune(spans []blockSpan) []blockSpan {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	kept := spans[:0]
	end := 0
	for _, sp := range spans {
		if sp.start < end {
			continue
		}
		kept = append(kept, sp)
		end = sp.end
	}
	return kept
}

// textNodes turns the text between blocks into runs of preserved lines.
// Blank lines separate runs; the trailing run stays attached to the next
// block when no blank line sat between them.
func textNodes(text string, beforeBlock bool) []node {
	var nodes []node
	var run []string

	flush := func() {
		if len(run) > 0 {
			nodes = append(nodes, node{kind: nodeText, lines: run})
			run = nil
		}
	}

	for _, l := range strings.Split(text, "\n") {
		line := strings.TrimRight(l, " \t")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		run = append(run, line)
	}
	flush()

	if beforeBlock && len(nodes) > 0 {
		trailing := text[len(strings.TrimRight(text, " \t\n")):]
		if strings.Count(trailing, "\n") <= 1 {
			nodes[len(nodes)-1].attached = true
		}
	}
	return nodes
}

// commentLines pulls every comment out of a header region, one trimmed line
// per element, in source order.
func commentLines(raw string) []string {
	var lines []string
	for _, c := range commentRx.FindAllString(raw, -1) {
		for _, l := range strings.Split(c, "\n") {
			if t := strings.TrimSpace(l); t != "" {
				lines = append(lines, t)
			}
		}
	}
	return lines
}

func (f *Formatter) printNodes(nodes []node) {
	for i := range nodes {
		n := &nodes[i]
		switch n.kind {
		case nodeText:
			for _, line := range n.lines {
				f.writeLine(line)
			}
		case nodeEntity:
			f.printEntity(n)
		case nodeEnum:
			f.printEnum(n)
		case nodeRelationship:
			f.printRelationship(n)
		}
		if i < len(nodes)-1 && !n.attached {
			f.buf.WriteString("\n")
		}
	}
}

func (f *Formatter) printEntity(n *node) {
	for _, c := range n.comments {
		f.writeLine(c)
	}
	for _, a := range n.annotations {
		f.writeLine(a)
	}

	f.writeLine("entity " + n.name + " {")
	f.indent++

	entries := splitBody(n.body)
	maxName := 0
	if f.config.AlignFields {
		for _, e := range entries {
			if m := fieldRx.FindStringSubmatch(e.content); m != nil && !e.verbatim {
				if len(m[1]) > maxName {
					maxName = len(m[1])
				}
			}
		}
	}

	for _, e := range entries {
		switch {
		case e.blank:
			f.writeLine("")
		case e.verbatim:
			f.writeLine(e.content)
		case e.content == "":
			f.writeLine(e.comment)
		default:
			f.writeLine(withComment(f.fieldLine(e.content, maxName), e.comment))
		}
	}

	f.indent--
	f.writeLine("}")
}

// fieldLine lays out one "name Type flags" statement, padding the name
// column when alignment is on. Lines the compiler would drop are printed as
// written.
func (f *Formatter) fieldLine(content string, maxName int) string {
	m := fieldRx.FindStringSubmatch(content)
	if m == nil {
		return content
	}

	var b strings.Builder
	b.WriteString(m[1])
	pad := 1
	if maxName > 0 {
		pad = maxName - len(m[1]) + 1
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(m[2])
	if m[3] != "" {
		b.WriteString(" ")
		b.WriteString(m[3])
	}
	return b.String()
}

func (f *Formatter) printEnum(n *node) {
	for _, c := range n.comments {
		f.writeLine(c)
	}

	f.writeLine("enum " + n.name + " {")
	f.indent++

	for _, e := range splitBody(n.body) {
		switch {
		case e.blank:
			// Value lists print as one group.
		case e.verbatim:
			f.writeLine(e.content)
		case e.content == "":
			f.writeLine(e.comment)
		default:
			values := splitValues(e.content)
			for i, v := range values {
				if i == len(values)-1 {
					v = withComment(v, e.comment)
				}
				f.writeLine(v)
			}
		}
	}

	f.indent--
	f.writeLine("}")
}

func (f *Formatter) printRelationship(n *node) {
	for _, c := range n.comments {
		f.writeLine(c)
	}

	name := n.name
	if rt, ok := jdl.ParseRelType(name); ok {
		name = string(rt)
	}
	f.writeLine("relationship " + name + " {")
	f.indent++

	for _, e := range splitBody(n.body) {
		switch {
		case e.blank:
			// Statement lists print as one group.
		case e.verbatim:
			f.writeLine(e.content)
		case e.content == "":
			f.writeLine(e.comment)
		default:
			stmts := splitStatements(e.content)
			for i, s := range stmts {
				s = relStatement(s)
				if i == len(stmts)-1 {
					s = withComment(s, e.comment)
				}
				f.writeLine(s)
			}
		}
	}

	f.indent--
	f.writeLine("}")
}

// relStatement prints one "From{field} to To{field}" statement in canonical
// spacing, display hints included. Statements the compiler would drop are
// returned exactly as written so they stay dropped.
func relStatement(stmt string) string {
	m := relStmtRx.FindStringSubmatch(strings.TrimSpace(strings.TrimSuffix(stmt, ";")))
	if m == nil {
		return stmt
	}

	var b strings.Builder
	b.WriteString(m[1])
	writeRelSide(&b, m[2], m[3])
	b.WriteString(" to ")
	b.WriteString(m[4])
	writeRelSide(&b, m[5], m[6])
	return b.String()
}

func writeRelSide(b *strings.Builder, field, hint string) {
	if field == "" {
		return
	}
	b.WriteString("{")
	b.WriteString(field)
	if hint != "" {
		b.WriteString("(")
		b.WriteString(hint)
		b.WriteString(")")
	}
	b.WriteString("}")
}

// bodyLine is one line of a block body, split into statement text and
// trailing comment. Lines holding block comment markers are kept verbatim.
type bodyLine struct {
	content  string
	comment  string
	blank    bool
	verbatim bool
}

// splitBody classifies raw body lines, collapsing blank runs and trimming
// blank lines at both ends.
func splitBody(raw []string) []bodyLine {
	var entries []bodyLine
	for _, l := range raw {
		e := splitBodyLine(l)
		if e.blank && (len(entries) == 0 || entries[len(entries)-1].blank) {
			continue
		}
		entries = append(entries, e)
	}
	for len(entries) > 0 && entries[len(entries)-1].blank {
		entries = entries[:len(entries)-1]
	}
	return entries
}

func splitBodyLine(raw string) bodyLine {
	line := strings.TrimSpace(raw)
	if line == "" {
		return bodyLine{blank: true}
	}
	if strings.Contains(line, "/*") || strings.Contains(line, "*/") {
		return bodyLine{content: line, verbatim: true}
	}
	if idx := strings.Index(line, "//"); idx >= 0 {
		return bodyLine{
			content: collapse(line[:idx]),
			comment: strings.TrimSpace(line[idx:]),
		}
	}
	content := collapse(line)
	if content == "" {
		return bodyLine{blank: true}
	}
	return bodyLine{content: content}
}

// splitValues splits an enum value line the way the compiler does, on commas
// and semicolons, dropping empty pieces.
func splitValues(content string) []string {
	return splitOn(content, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

// splitStatements splits a relationship line on commas only; the compiler
// treats semicolons as part of the statement text.
func splitStatements(content string) []string {
	return splitOn(content, func(r rune) bool {
		return r == ','
	})
}

func splitOn(content string, sep func(rune) bool) []string {
	var values []string
	for _, p := range strings.FieldsFunc(content, sep) {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// collapse trims a statement, drops trailing commas, and squeezes runs of
// whitespace to single spaces.
func collapse(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ", \t")
	return spaceRx.ReplaceAllString(s, " ")
}

func withComment(content, comment string) string {
	if comment == "" {
		return content
	}
	if content == "" {
		return comment
	}
	return content + " " + comment
}

// writeLine writes text at the current indentation. Empty text emits a bare
// newline.
func (f *Formatter) writeLine(text string) {
	if text != "" {
		f.buf.WriteString(strings.Repeat(" ", f.indent*f.config.IndentSize))
		f.buf.WriteString(text)
	}
	f.buf.WriteString("\n")
}
