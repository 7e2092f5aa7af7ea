// Package codegen renders a parsed schema into a runnable Go application:
// models, services, HTTP handlers, HTML forms and views, SQL migrations,
// fixtures, and schema metadata.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// PayloadMode selects how relationship fields appear in generated models and
// API payloads.
type PayloadMode string

const (
	// PayloadEmbedded nests related records as structs and slices.
	PayloadEmbedded PayloadMode = "embedded"
	// PayloadIDs flattens relationships to foreign key ids.
	PayloadIDs PayloadMode = "ids"
)

// Options configures a generation run.
type Options struct {
	// AppName names the generated application.
	AppName string
	// ModulePath is the module path written to the generated go.mod.
	ModulePath string
	// PayloadMode selects embedded or id relationship payloads.
	PayloadMode PayloadMode
	// PluralOverrides adjusts table and route names for specific words.
	PluralOverrides map[string]string
}

func (o Options) payloadMode() PayloadMode {
	if o.PayloadMode == PayloadIDs {
		return PayloadIDs
	}
	return PayloadEmbedded
}

// Generator renders schema entities into source files.
type Generator struct {
	buf     *bytes.Buffer
	indent  int
	imports map[string]bool
}

// NewGenerator creates a new code generator
func NewGenerator() *Generator {
	return &Generator{
		buf:     &bytes.Buffer{},
		indent:  0,
		imports: make(map[string]bool),
	}
}

// GenerateProject renders every output file for the schema and returns them
// keyed by path relative to the output directory.
func (g *Generator) GenerateProject(schema *jdl.Schema, opts Options) (map[string]string, error) {
	files := make(map[string]string)

	files["go.mod"] = g.GenerateGoMod(opts)

	mainCode, err := g.GenerateMain(schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate main: %w", err)
	}
	files["main.go"] = mainCode

	if len(schema.Enums) > 0 {
		enumCode, err := g.GenerateEnums(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to generate enums: %w", err)
		}
		files["models/enums.go"] = enumCode
	}

	for _, name := range schema.EntityNames() {
		entity := schema.Entities[name]
		snake := strutil.ToSnakeCase(name)

		model, err := g.GenerateModel(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate model %s: %w", name, err)
		}
		files[fmt.Sprintf("models/%s.go", snake)] = model

		service, err := g.GenerateService(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate service %s: %w", name, err)
		}
		files[fmt.Sprintf("services/%s_service.go", snake)] = service

		handler, err := g.GenerateHandler(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate handler %s: %w", name, err)
		}
		files[fmt.Sprintf("handlers/%s_handler.go", snake)] = handler

		form, err := g.GenerateForm(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate form %s: %w", name, err)
		}
		files[fmt.Sprintf("forms/%s_form.html", snake)] = form

		list, detail, err := g.GenerateViews(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate views %s: %w", name, err)
		}
		files[fmt.Sprintf("views/%s_list.html", snake)] = list
		files[fmt.Sprintf("views/%s_detail.html", snake)] = detail

		fixture, err := g.GenerateFixture(schema, entity, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate fixture %s: %w", name, err)
		}
		files[fmt.Sprintf("fixtures/%s.json", snake)] = fixture
	}

	routes, err := g.GenerateRoutes(schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate routes: %w", err)
	}
	files["handlers/routes.go"] = routes

	up, down, err := g.GenerateMigrations(schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate migrations: %w", err)
	}
	files["migrations/001_init.up.sql"] = up
	files["migrations/001_init.down.sql"] = down

	meta, err := GenerateMetadata(schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata: %w", err)
	}
	files["metadata/schema.json"] = meta

	return files, nil
}

// GenerateGoMod renders the go.mod of the generated application.
func (g *Generator) GenerateGoMod(opts Options) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("module %s\n\n", opts.ModulePath))
	buf.WriteString("go 1.23\n\n")
	buf.WriteString("require (\n")
	buf.WriteString("\tgithub.com/blueprint-gen/blueprint v0.3.0\n")
	buf.WriteString("\tgithub.com/go-chi/chi/v5 v5.2.3\n")
	buf.WriteString("\tgithub.com/google/uuid v1.6.0\n")
	buf.WriteString("\tgithub.com/jackc/pgx/v5 v5.7.2\n")
	buf.WriteString(")\n")

	return buf.String()
}

// reset clears the generator state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
	g.imports = make(map[string]bool)
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("\t")
	}

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}

// writeImports writes the import block, stdlib first, then external
func (g *Generator) writeImports() {
	g.writeLine("import (")
	g.indent++

	var stdlib []string
	var external []string
	for imp := range g.imports {
		if strings.HasPrefix(imp, "_ ") || strings.Contains(imp, ".") {
			external = append(external, imp)
		} else {
			stdlib = append(stdlib, imp)
		}
	}
	sort.Strings(stdlib)
	sort.Strings(external)

	for _, imp := range stdlib {
		g.writeLine("%q", imp)
	}
	if len(stdlib) > 0 && len(external) > 0 {
		g.writeLine("")
	}
	for _, imp := range external {
		if trimmed, ok := strings.CutPrefix(imp, "_ "); ok {
			g.writeLine("_ %q", trimmed)
		} else {
			g.writeLine("%q", imp)
		}
	}

	g.indent--
	g.writeLine(")")
}

// toGoFieldName converts a field name to an exported Go identifier, keeping
// common initialisms upper-cased.
func toGoFieldName(name string) string {
	return strutil.ToExportedName(name)
}

// tableName derives the database table for an entity: snake_case, pluralized.
func tableName(entity string, overrides map[string]string) string {
	return inflect.Pluralize(strutil.ToSnakeCase(entity), overrides)
}

// routePath derives the URL collection path for an entity.
func routePath(entity string, overrides map[string]string) string {
	return strings.ReplaceAll(tableName(entity, overrides), "_", "-")
}

// columnName derives the database column for a field.
func columnName(field string) string {
	return strutil.ToSnakeCase(field)
}
