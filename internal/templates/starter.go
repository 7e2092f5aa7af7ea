// Package templates holds the built-in project starters. A starter is a
// named bundle of JDL schema files that `blueprint new` renders into a
// fresh project. Every starter is validated against the real parser when
// it is registered, so a starter whose schema stops parsing breaks tests
// instead of shipping.
package templates

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// Starter is a named set of schema files used to seed a new project.
type Starter struct {
	Name        string
	Description string
	Version     string

	// Schemas are written relative to the project root, so paths
	// normally live under jdl/.
	Schemas []SchemaFile

	// PluralOverrides carries irregular plurals the schema needs. They
	// are written into the project's blueprint.yml and applied when the
	// starter is validated.
	PluralOverrides map[string]string
}

// SchemaFile is one schema source in a starter. Content is a
// text/template body rendered with a Context.
type SchemaFile struct {
	Path    string
	Content string
}

// Context is the data starters are rendered with.
type Context struct {
	ProjectName string
	Module      string
	Port        int
	DatabaseURL string
}

// probeContext stands in for a real project when validating a starter.
var probeContext = &Context{
	ProjectName: "sample",
	Module:      "example.com/sample",
	Port:        4000,
}

// Engine renders starter schemas with project data.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a starter rendering engine.
func NewEngine() *Engine {
	return &Engine{
		funcs: template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"title": func(s string) string {
				if s == "" {
					return s
				}
				return strings.ToUpper(s[:1]) + s[1:]
			},
		},
	}
}

// Render renders every schema in the starter and returns the results
// keyed by their project-relative path.
func (e *Engine) Render(s *Starter, ctx *Context) (map[string]string, error) {
	files := make(map[string]string, len(s.Schemas))
	for _, schema := range s.Schemas {
		content, err := e.renderString(schema.Content, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", schema.Path, err)
		}
		files[schema.Path] = content
	}
	return files, nil
}

// Scaffold renders the starter and writes its files under targetDir,
// creating parent directories as needed. It returns the written
// project-relative paths in sorted order.
func (e *Engine) Scaffold(s *Starter, ctx *Context, targetDir string) ([]string, error) {
	files, err := e.Render(s, ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	cleanTarget := filepath.Clean(targetDir) + string(filepath.Separator)
	for _, path := range paths {
		if filepath.IsAbs(path) {
			return nil, fmt.Errorf("invalid schema path: %s attempts to write outside the project directory", path)
		}
		fullPath := filepath.Clean(filepath.Join(targetDir, path))
		if !strings.HasPrefix(fullPath+string(filepath.Separator), cleanTarget) {
			return nil, fmt.Errorf("invalid schema path: %s attempts to write outside the project directory", path)
		}

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(files[path]), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return paths, nil
}

// renderString renders one template body with the given context.
func (e *Engine) renderString(body string, ctx *Context) (string, error) {
	tmpl, err := template.New("").Funcs(e.funcs).Parse(body)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Validate checks the starter's shape and parses its schemas. Starters
// are curated samples, so any diagnostic at all rejects them, as does a
// bundle that defines no entities.
func (s *Starter) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("starter name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("starter version is required")
	}
	if len(s.Schemas) == 0 {
		return fmt.Errorf("starter must have at least one schema")
	}

	seen := make(map[string]bool, len(s.Schemas))
	for _, schema := range s.Schemas {
		if schema.Path == "" {
			return fmt.Errorf("schema path is required")
		}
		if filepath.IsAbs(schema.Path) || strings.HasPrefix(filepath.Clean(schema.Path), "..") {
			return fmt.Errorf("schema path %s escapes the project directory", schema.Path)
		}
		if filepath.Ext(schema.Path) != ".jdl" {
			return fmt.Errorf("schema path %s must end in .jdl", schema.Path)
		}
		if seen[schema.Path] {
			return fmt.Errorf("duplicate schema path: %s", schema.Path)
		}
		seen[schema.Path] = true
		if schema.Content == "" {
			return fmt.Errorf("schema content is required for %s", schema.Path)
		}
	}

	files, err := NewEngine().Render(s, probeContext)
	if err != nil {
		return err
	}

	// Parse the schemas joined the way `blueprint generate` bundles
	// them, so cross-file references resolve.
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var bundle strings.Builder
	for _, path := range paths {
		bundle.WriteString(files[path])
		if !strings.HasSuffix(files[path], "\n") {
			bundle.WriteString("\n")
		}
	}

	parser := jdl.New(jdl.Options{PluralOverrides: s.PluralOverrides})
	schema, diags := parser.Parse(bundle.String())
	if len(diags) > 0 {
		d := diags[0]
		return fmt.Errorf("schema does not parse cleanly: line %d: %s", d.Line, d.Message)
	}
	if len(schema.Entities) == 0 {
		return fmt.Errorf("starter defines no entities")
	}

	return nil
}
