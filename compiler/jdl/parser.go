package jdl

// Options configures a Parser.
type Options struct {
	// PluralOverrides replaces heuristic plurals for specific words when
	// default relationship field names are derived. Keys are matched
	// case-insensitively; values are case-adapted to the source word.
	PluralOverrides map[string]string
}

// Parser turns JDL source text into a Schema. Parsing is lenient: constructs
// the parser cannot use are dropped and reported as diagnostics, never as
// errors. The zero options are valid. A Parser is safe for concurrent use.
type Parser struct {
	opts Options
}

// New returns a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse extracts enums, entities, and relationships from source and returns
// the normalized schema together with the diagnostics collected along the
// way. The schema is always usable; diagnostics only describe what was
// dropped. Passes run in a fixed order: comments are stripped first, enums
// and entities extracted next, then relationship blocks are scanned and
// materialized into fields on both entities involved.
func (p *Parser) Parse(source string) (*Schema, []Diagnostic) {
	diags := &collector{}
	stripped := stripComments(source)

	schema := NewSchema()
	extractEnums(stripped, schema, diags)
	extractEntities(stripped, schema, diags)

	rels := extractRelationships(stripped, diags)
	materialize(schema, rels, p.opts.PluralOverrides, diags)

	return schema, diags.items
}

// Parse is a shorthand for parsing with default options, for callers that
// only want the schema.
func Parse(source string) *Schema {
	schema, _ := New(Options{}).Parse(source)
	return schema
}
