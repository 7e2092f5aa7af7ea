package integration

import (
	"context"
	"testing"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	"github.com/blueprint-gen/blueprint/internal/emit"
)

// CompileResult holds the output of one full pipeline run.
type CompileResult struct {
	Schema      *jdl.Schema
	Diagnostics []jdl.Diagnostic
	Files       map[string]string
	Success     bool
}

// CompileSource runs source through the full pipeline: parse and normalize
// the schema, then generate the project file set. Warnings never stop the
// run; only an error-severity diagnostic does.
func CompileSource(t *testing.T, source string) *CompileResult {
	t.Helper()

	result := &CompileResult{Success: false}

	schema, diags := jdl.New(jdl.Options{}).Parse(source)
	result.Schema = schema
	result.Diagnostics = diags

	for _, d := range diags {
		if d.Severity == jdl.Error {
			return result
		}
	}

	gen := codegen.NewGenerator()
	files, err := gen.GenerateProject(schema, codegen.Options{
		AppName:    "test-app",
		ModulePath: "example.com/test-app",
	})
	if err != nil {
		t.Fatalf("Code generation error: %v", err)
	}

	result.Files = files
	result.Success = true

	return result
}

// WriteGeneratedFiles applies a generated file set to a temporary directory
// and returns its path.
func WriteGeneratedFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	w := &emit.Writer{Root: dir}
	if _, err := w.WriteAll(context.Background(), files); err != nil {
		t.Fatalf("Failed to write generated files: %v", err)
	}

	return dir
}

// CreateBlogSchema returns the canonical test document: an enum, an audited
// entity, and both relationship shapes.
func CreateBlogSchema() string {
	return `
enum PostStatus {
  DRAFT, PUBLISHED, ARCHIVED
}

@EnableAudit
entity Blog {
  name String required
  handle String
}

entity Post {
  title String required
  content TextBlob
  status PostStatus
}

entity Tag {
  name String required
}

relationship OneToMany {
  Blog{posts} to Post{blog}
}

relationship ManyToMany {
  Post{tags} to Tag{posts}
}
`
}

// CreateSingleEntity returns the smallest useful document.
func CreateSingleEntity() string {
	return `
entity Note {
  body String required
}
`
}

// CreateMessySchema returns a document that parses with warnings: junk
// inside an entity body, an unparseable relationship statement, and a
// relationship against an entity that was never declared.
func CreateMessySchema() string {
	return `
entity Blog {
  name String required
  !!!bad line
}

entity Post {
  title String
}

relationship OneToMany {
  Blog{posts} to Post{blog}
  not a statement
}

relationship ManyToOne {
  Post{ghost} to Ghost
}
`
}
