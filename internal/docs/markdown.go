package docs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// MarkdownGenerator renders a single Markdown reference document.
type MarkdownGenerator struct {
	// ServerURL overrides the base URL shown in the quick start section.
	ServerURL string
	// PluralOverrides keeps endpoint descriptions in sync with the schema's
	// plural forms.
	PluralOverrides map[string]string
}

// NewMarkdownGenerator creates a Markdown generator.
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Generate renders the reference document for the whole schema.
func (g *MarkdownGenerator) Generate(meta *codegen.SchemaMetadata) ([]byte, error) {
	var buf strings.Builder

	title := meta.App
	if title == "" {
		title = "blueprint application"
	}

	buf.WriteString(fmt.Sprintf("# %s API Documentation\n\n", title))
	buf.WriteString(fmt.Sprintf("Generated from %s. Schema version %s.\n\n",
		countNoun(len(meta.Entities), "entity", "entities"), meta.Version))

	buf.WriteString("## Base URL\n\n")
	url := g.ServerURL
	if url == "" {
		url = "http://localhost:8080"
	}
	buf.WriteString(fmt.Sprintf("```\n%s\n```\n\n", url))

	buf.WriteString("All endpoints accept and return `application/json`. ")
	buf.WriteString("List endpoints take `limit` and `offset` query parameters ")
	buf.WriteString("and report the total row count in the `X-Total-Count` header. ")
	buf.WriteString("Failures carry a body of the form `{\"error\": \"...\"}`.\n\n")

	buf.WriteString("## Resources\n\n")
	for _, entity := range meta.Entities {
		buf.WriteString(fmt.Sprintf("- [%s](#%s)\n", entity.Name, strings.ToLower(entity.Name)))
	}
	buf.WriteString("\n")

	enums := make(map[string][]string, len(meta.Enums))
	for _, e := range meta.Enums {
		enums[e.Name] = e.Values
	}

	for i := range meta.Entities {
		g.writeEntity(&buf, &meta.Entities[i], enums)
	}

	if len(meta.Enums) > 0 {
		buf.WriteString("## Enums\n\n")
		for _, e := range meta.Enums {
			buf.WriteString(fmt.Sprintf("### %s\n\n", e.Name))
			for _, v := range e.Values {
				buf.WriteString(fmt.Sprintf("- `%s`\n", v))
			}
			buf.WriteString("\n")
		}
	}

	return []byte(buf.String()), nil
}

// writeEntity writes the fields table, endpoint table and sample record for
// one entity.
func (g *MarkdownGenerator) writeEntity(buf *strings.Builder, entity *codegen.EntityRecord, enums map[string][]string) {
	buf.WriteString(fmt.Sprintf("## %s\n\n", entity.Name))
	buf.WriteString(fmt.Sprintf("Stored in table `%s`, served under `%s`.\n\n", entity.Table, entity.Route))

	buf.WriteString("| Field | Type | Required | Notes |\n")
	buf.WriteString("|-------|------|----------|-------|\n")
	for _, f := range entity.Fields {
		required := "No"
		if f.Required {
			required = "Yes"
		}
		buf.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %s |\n",
			f.Name, fieldType(f), required, fieldNotes(f)))
	}
	buf.WriteString("\n")

	buf.WriteString("### Endpoints\n\n")
	buf.WriteString("| Method | Path | Description |\n")
	buf.WriteString("|--------|------|-------------|\n")
	buf.WriteString(fmt.Sprintf("| GET | `%s` | List %s records |\n", entity.Route, entity.Name))
	buf.WriteString(fmt.Sprintf("| POST | `%s` | Create a record |\n", entity.Route))
	buf.WriteString(fmt.Sprintf("| GET | `%s/{id}` | Get one record |\n", entity.Route))
	buf.WriteString(fmt.Sprintf("| PUT | `%s/{id}` | Replace a record |\n", entity.Route))
	buf.WriteString(fmt.Sprintf("| DELETE | `%s/{id}` | Delete a record |\n", entity.Route))
	for _, f := range entity.Fields {
		if f.RelationshipType != string(jdl.ManyToMany) {
			continue
		}
		path := entity.Route + "/{id}/" + joinSubPath(f.Name)
		single := inflect.Singularize(f.Name, g.PluralOverrides)
		buf.WriteString(fmt.Sprintf("| GET | `%s` | List linked %s ids |\n", path, single))
		buf.WriteString(fmt.Sprintf("| PUT | `%s` | Replace the linked %s |\n", path, f.Name))
	}
	buf.WriteString("\n")

	buf.WriteString("### Example\n\n")
	buf.WriteString("```json\n")
	data, _ := json.MarshalIndent(g.exampleRecord(entity, enums), "", "  ")
	buf.Write(data)
	buf.WriteString("\n```\n\n")
}

// fieldType renders the type column. Collection relationships get a slice
// marker so the cardinality is visible at a glance.
func fieldType(f codegen.FieldRecord) string {
	if f.RelationshipType == "" {
		return f.Type
	}
	if f.RelationshipType == string(jdl.OneToMany) || f.RelationshipType == string(jdl.ManyToMany) {
		return f.TargetEntity + "[]"
	}
	return f.TargetEntity
}

func fieldNotes(f codegen.FieldRecord) string {
	switch {
	case f.RelationshipType != "":
		return fmt.Sprintf("%s to %s", relationshipLabel(f.RelationshipType), f.TargetEntity)
	case f.Name == "id":
		return "primary key, read only"
	case f.Audit:
		return "set by the server, read only"
	default:
		return "-"
	}
}

// relationshipLabel lowers "ManyToOne" to "many-to-one".
func relationshipLabel(relType string) string {
	return strings.ReplaceAll(strutil.ToSnakeCase(relType), "_", "-")
}

// exampleRecord builds a sample record matching the first row of the entity's
// generated fixture file. Relationship fields are left out, as the fixtures
// leave them out.
func (g *MarkdownGenerator) exampleRecord(entity *codegen.EntityRecord, enums map[string][]string) map[string]any {
	rec := make(map[string]any)
	for _, f := range entity.Fields {
		if f.RelationshipType != "" {
			continue
		}
		rec[f.Name] = exampleValue(entity.Name, f, enums)
	}
	return rec
}

// exampleValue mirrors the fixture generator's choice for record zero.
func exampleValue(entityName string, f codegen.FieldRecord, enums map[string][]string) any {
	if values, ok := enums[f.Type]; ok {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}

	switch f.Type {
	case "String", "TextBlob":
		if f.Audit {
			return "system"
		}
		return f.Name + " 1"
	case "Integer":
		return 10
	case "Long":
		if f.Name == "id" {
			return 1
		}
		return 100
	case "Float", "Double", "BigDecimal":
		return 1.5
	case "Boolean":
		return true
	case "LocalDate":
		return "2024-01-15"
	case "Instant", "ZonedDateTime":
		return "2024-01-15T08:30:00Z"
	case "UUID":
		seed := fmt.Sprintf("%s/%s/0", entityName, f.Name)
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	case "Duration":
		return int64(time.Minute)
	case "Blob", "AnyBlob", "ImageBlob":
		return []byte(f.Name + "-1")
	default:
		return f.Name + " 1"
	}
}

func countNoun(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
