package jdl

import (
	"regexp"
	"strings"
)

var (
	relHeaderRx = regexp.MustCompile(`\brelationship\s+(\w+)\s*\{`)

	// From{field(hint)} to To{field(hint)} with every braced part optional.
	// The parenthesized display hint is recognized and discarded.
	relStmtRx = regexp.MustCompile(`^(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*\w+\s*\))?\s*\})?\s+to\s+(\w+)\s*(?:\{\s*(\w+)\s*(?:\(\s*\w+\s*\))?\s*\})?$`)
)

// extractRelationships scans every relationship block and returns the raw
// records in source order. Block bodies are walked with a brace depth cursor;
// a block whose braces never close stops all further scanning. A block with
// an unknown type is skipped whole, cursor still advanced past it.
func extractRelationships(source string, diags *collector) []Relationship {
	var rels []Relationship
	pos := 0
	for pos < len(source) {
		loc := relHeaderRx.FindStringSubmatchIndex(source[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		typeTok := source[pos+loc[2] : pos+loc[3]]
		open := pos + loc[1] - 1

		body, end, ok := scanBlock(source, open)
		if !ok {
			diags.warnf(CodeUnterminatedBlock, lineAt(source, start), "relationship block is never closed")
			break
		}
		pos = end

		relType, known := ParseRelType(typeTok)
		if !known {
			diags.warnf(CodeUnknownRelationshipType, lineAt(source, start), "unknown relationship type %q", typeTok)
			continue
		}

		rels = append(rels, parseStatements(relType, body, lineAt(source, open), diags)...)
	}
	return rels
}

// parseStatements splits a block body on newlines and commas and parses each
// piece as one "From{f} to To{g}" statement. Pieces that do not match are
// dropped with a diagnostic.
func parseStatements(relType RelType, body string, bodyLine int, diags *collector) []Relationship {
	var rels []Relationship
	line := bodyLine
	for _, chunk := range strings.Split(body, "\n") {
		for _, piece := range strings.Split(chunk, ",") {
			stmt := strings.TrimSuffix(strings.TrimSpace(piece), ";")
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			m := relStmtRx.FindStringSubmatch(stmt)
			if m == nil {
				diags.warnf(CodeRelationshipStatementDropped, line, "dropped statement %q", stmt)
				continue
			}
			rels = append(rels, Relationship{
				Type:      relType,
				From:      m[1],
				FromField: m[2],
				To:        m[3],
				ToField:   m[4],
				line:      line,
			})
		}
		line++
	}
	return rels
}
