package jdl

import (
	"github.com/blueprint-gen/blueprint/compiler/inflect"
)

// RelationshipTypeName is the literal field type every materialized
// relationship field carries.
const RelationshipTypeName = "relationship"

// materialize turns relationship records into fields on the two entities
// involved. A record naming an unknown entity on either side is skipped.
// Default field names come from the target entity name, decapitalized and,
// on collection sides, pluralized with the caller's overrides.
func materialize(schema *Schema, rels []Relationship, overrides map[string]string, diags *collector) {
	for _, rel := range rels {
		from, okFrom := schema.Entities[rel.From]
		to, okTo := schema.Entities[rel.To]
		if !okFrom {
			diags.warnf(CodeUnknownEntity, rel.line, "relationship references unknown entity %q", rel.From)
			continue
		}
		if !okTo {
			diags.warnf(CodeUnknownEntity, rel.line, "relationship references unknown entity %q", rel.To)
			continue
		}

		switch rel.Type {
		case OneToMany:
			name := rel.FromField
			if name == "" {
				name = inflect.Pluralize(inflect.Decapitalize(rel.To), overrides)
			}
			addRelationshipField(from, name, OneToMany, rel.To)

			// The many side always gets its back-reference, named or not.
			back := rel.ToField
			if back == "" {
				back = inflect.Decapitalize(rel.From)
			}
			addRelationshipField(to, back, ManyToOne, rel.From)

		case ManyToOne:
			name := rel.FromField
			if name == "" {
				name = inflect.Decapitalize(rel.To)
			}
			addRelationshipField(from, name, ManyToOne, rel.To)

			// Collection back-reference only when the statement named one.
			if rel.ToField != "" {
				addRelationshipField(to, rel.ToField, OneToMany, rel.From)
			}

		case OneToOne:
			name := rel.FromField
			if name == "" {
				name = inflect.Decapitalize(rel.To)
			}
			addRelationshipField(from, name, OneToOne, rel.To)

			if rel.ToField != "" {
				addRelationshipField(to, rel.ToField, OneToOne, rel.From)
			}

		case ManyToMany:
			name := rel.FromField
			if name == "" {
				name = inflect.Pluralize(inflect.Decapitalize(rel.To), overrides)
			}
			addRelationshipField(from, name, ManyToMany, rel.To)

			back := rel.ToField
			if back == "" {
				back = inflect.Pluralize(inflect.Decapitalize(rel.From), overrides)
			}
			addRelationshipField(to, back, ManyToMany, rel.From)
		}
	}
}

// addRelationshipField appends a relationship field to the entity. Adding a
// field whose name matches an existing relationship field is a no-op.
func addRelationshipField(e *Entity, name string, rt RelType, target string) {
	for _, f := range e.Fields {
		if f.Name == name && f.IsRelationship {
			return
		}
	}
	e.Fields = append(e.Fields, &Field{
		Name:             name,
		Type:             RelationshipTypeName,
		Nullable:         true,
		IsRelationship:   true,
		RelationshipType: rt,
		TargetEntity:     target,
	})
}
