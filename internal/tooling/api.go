// Package tooling exposes the schema compiler to editors: a thread-safe
// document cache that keeps the parsed schema, diagnostics, and symbols
// for every open file, shaped for Language Server Protocol frontends.
package tooling

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// API is the editor-facing surface. All methods are safe for concurrent use.
type API struct {
	// Document cache stores parsed schemas and diagnostics per URI
	documents map[string]*Document
	docsMutex sync.RWMutex
}

// Document represents a cached document with its parsed schema.
type Document struct {
	// URI is the document identifier (typically a file path)
	URI string

	// Content is the raw source text
	Content string

	// Version tracks document changes (incremented on each update)
	Version int

	// Schema is the parsed schema. Parsing never fails, so it is never nil.
	Schema *jdl.Schema

	// Diags holds the parser diagnostics in source order
	Diags []jdl.Diagnostic

	// Symbols is a flattened list of all symbols in the document
	Symbols []*Symbol
}

// Position represents a position in a document (zero-based for LSP compatibility)
type Position struct {
	Line      int // Zero-based line number
	Character int // Zero-based character offset
}

// Range represents a range in a document
type Range struct {
	Start Position
	End   Position
}

// Symbol represents a named declaration in the source text
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range Range

	// Type information (if available)
	Type string

	// For fields: the declaring entity name
	// For enum values: the declaring enum name
	ContainerName string

	// Detail provides additional information
	Detail string
}

// SymbolKind categorizes symbols for IDE display
type SymbolKind int

const (
	// SymbolKindEntity represents an entity declaration
	SymbolKindEntity SymbolKind = iota
	// SymbolKindEnum represents an enum declaration
	SymbolKindEnum
	// SymbolKindField represents a field in an entity
	SymbolKindField
	// SymbolKindEnumValue represents a value in an enum
	SymbolKindEnumValue
	// SymbolKindRelationship represents a relationship statement
	SymbolKindRelationship
)

// Hover represents hover information for a symbol
type Hover struct {
	// Contents is the hover text (markdown formatted)
	Contents string

	// Range is the range of the symbol
	Range Range
}

// Diagnostic represents a parse problem positioned for editors
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Code     string
	Message  string
	Source   string
}

// DiagnosticSeverity indicates the severity of a diagnostic
type DiagnosticSeverity int

const (
	// DiagnosticSeverityError represents an error diagnostic
	DiagnosticSeverityError DiagnosticSeverity = iota
	// DiagnosticSeverityWarning represents a warning diagnostic
	DiagnosticSeverityWarning
	// DiagnosticSeverityInfo represents an informational diagnostic
	DiagnosticSeverityInfo
	// DiagnosticSeverityHint represents a hint diagnostic
	DiagnosticSeverityHint
)

// NewAPI creates a new tooling API instance
func NewAPI() *API {
	return &API{
		documents: make(map[string]*Document),
	}
}

// ParseFile parses a source file and caches the result. The compiler never
// fails outright; problems surface as diagnostics on the document.
func (a *API) ParseFile(uri, content string) (*Document, error) {
	doc := parseDocument(uri, content)

	a.docsMutex.Lock()
	a.documents[uri] = doc
	a.docsMutex.Unlock()

	return doc, nil
}

// UpdateDocument updates an existing document with new content
func (a *API) UpdateDocument(uri, content string, version int) (*Document, error) {
	a.docsMutex.Lock()
	defer a.docsMutex.Unlock()

	oldDoc, exists := a.documents[uri]
	if exists && oldDoc.Content == content {
		// Content unchanged, update version and return cached document
		oldDoc.Version = version
		return oldDoc, nil
	}

	doc := parseDocument(uri, content)
	doc.Version = version
	a.documents[uri] = doc

	return doc, nil
}

// parseDocument runs the compiler once and packages the result for the cache
func parseDocument(uri, content string) *Document {
	schema, diags := jdl.New(jdl.Options{}).Parse(content)

	return &Document{
		URI:     uri,
		Content: content,
		Version: 1,
		Schema:  schema,
		Diags:   diags,
		Symbols: extractSymbols(content),
	}
}

// GetDocument retrieves a cached document
func (a *API) GetDocument(uri string) (*Document, bool) {
	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()

	doc, exists := a.documents[uri]
	return doc, exists
}

// CloseDocument removes a document from the cache
func (a *API) CloseDocument(uri string) {
	a.docsMutex.Lock()
	delete(a.documents, uri)
	a.docsMutex.Unlock()
}

// GetDiagnostics returns diagnostics for a document. Compiler diagnostics
// carry a line number only, so each range spans the whole offending line.
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil
	}

	lines := strings.Split(doc.Content, "\n")
	diagnostics := make([]Diagnostic, 0, len(doc.Diags))

	for _, d := range doc.Diags {
		line := d.Line - 1
		if line < 0 {
			line = 0
		}
		if line >= len(lines) {
			line = len(lines) - 1
		}

		diagnostics = append(diagnostics, Diagnostic{
			Range: Range{
				Start: Position{Line: line, Character: 0},
				End:   Position{Line: line, Character: len(lines[line])},
			},
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
			Source:   "blueprint",
		})
	}

	return diagnostics
}

// GetHover returns hover information for a position in a document.
// Returns (nil, nil) if no symbol is found at the position.
func (a *API) GetHover(uri string, pos Position) (*Hover, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil hover is valid when no symbol at position
	}

	return buildHover(doc, symbol), nil
}

// GetDocumentSymbols returns all symbols in a document
func (a *API) GetDocumentSymbols(uri string) ([]*Symbol, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	return doc.Symbols, nil
}

// convertSeverity maps a compiler severity onto the diagnostic scale
func convertSeverity(s jdl.Severity) DiagnosticSeverity {
	switch s {
	case jdl.Error:
		return DiagnosticSeverityError
	case jdl.Warning:
		return DiagnosticSeverityWarning
	default:
		return DiagnosticSeverityInfo
	}
}
