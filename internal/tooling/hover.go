package tooling

import (
	"fmt"
	"strings"
)

// buildHover creates hover information for a symbol. The symbol gives the
// declaration site; the document's schema fills in what the compiler made of
// it (injected fields, materialized relationships, enum values).
func buildHover(doc *Document, symbol *Symbol) *Hover {
	var content strings.Builder

	// Write code block with the declaration
	content.WriteString("```jdl\n")

	switch symbol.Kind {
	case SymbolKindEntity:
		content.WriteString(fmt.Sprintf("entity %s", symbol.Name))

	case SymbolKindEnum:
		content.WriteString(fmt.Sprintf("enum %s", symbol.Name))

	case SymbolKindField:
		content.WriteString(symbol.Detail)

	case SymbolKindEnumValue:
		content.WriteString(symbol.Name)

	case SymbolKindRelationship:
		content.WriteString(symbol.Detail)
	}

	content.WriteString("\n```\n\n")

	// Add container context
	switch symbol.Kind {
	case SymbolKindField:
		content.WriteString(fmt.Sprintf("*In entity:* `%s`\n\n", symbol.ContainerName))
	case SymbolKindEnumValue:
		content.WriteString(fmt.Sprintf("*In enum:* `%s`\n\n", symbol.ContainerName))
	}

	// Add kind-specific information from the schema
	switch symbol.Kind {
	case SymbolKindEntity:
		if entity, ok := doc.Schema.Entities[symbol.Name]; ok {
			rels := len(entity.RelationshipFields())
			content.WriteString("---\n\n")
			content.WriteString(fmt.Sprintf("%d fields (%d from relationships)\n", len(entity.Fields), rels))
		}

	case SymbolKindEnum:
		if enum, ok := doc.Schema.Enums[symbol.Name]; ok {
			content.WriteString("---\n\n")
			content.WriteString(fmt.Sprintf("Values: `%s`\n", strings.Join(enum.Values, "`, `")))
		}

	case SymbolKindField:
		if entity, ok := doc.Schema.Entities[symbol.ContainerName]; ok {
			if field := entity.Field(symbol.Name); field != nil {
				content.WriteString("---\n\n")
				content.WriteString("**Field**\n\n")
				if field.Required {
					content.WriteString("*Required* - This field cannot be null\n")
				} else {
					content.WriteString("*Optional* - This field may be null\n")
				}
				if doc.Schema.IsEnum(field.Type) {
					content.WriteString(fmt.Sprintf("\nEnum type `%s`\n", field.Type))
				}
			}
		}

	case SymbolKindRelationship:
		content.WriteString("---\n\n")
		content.WriteString("**Relationship**\n\n")
		if from, to, ok := strings.Cut(symbol.Name, " to "); ok {
			content.WriteString(fmt.Sprintf("Declares a %s association from `%s` to `%s`\n", symbol.Type, from, to))
		}
	}

	return &Hover{
		Contents: content.String(),
		Range:    symbol.Range,
	}
}
