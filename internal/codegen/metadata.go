package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// SchemaMetadata is the introspection document written next to the generated
// code. The output is deterministic: same schema, same bytes.
type SchemaMetadata struct {
	Version  string         `json:"version" yaml:"version"`
	App      string         `json:"app,omitempty" yaml:"app,omitempty"`
	Entities []EntityRecord `json:"entities" yaml:"entities"`
	Enums    []EnumRecord   `json:"enums" yaml:"enums"`
}

// EntityRecord describes one entity and its derived names.
type EntityRecord struct {
	Name   string        `json:"name" yaml:"name"`
	Table  string        `json:"table" yaml:"table"`
	Route  string        `json:"route" yaml:"route"`
	Fields []FieldRecord `json:"fields" yaml:"fields"`
}

// FieldRecord describes one field of an entity.
type FieldRecord struct {
	Name             string `json:"name" yaml:"name"`
	Type             string `json:"type" yaml:"type"`
	Column           string `json:"column,omitempty" yaml:"column,omitempty"`
	Required         bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Audit            bool   `json:"audit,omitempty" yaml:"audit,omitempty"`
	RelationshipType string `json:"relationship_type,omitempty" yaml:"relationship_type,omitempty"`
	TargetEntity     string `json:"target_entity,omitempty" yaml:"target_entity,omitempty"`
}

// EnumRecord describes one enum and its values.
type EnumRecord struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// GenerateMetadata renders the schema introspection JSON consumed by editor
// tooling and the preview server.
func GenerateMetadata(schema *jdl.Schema, opts Options) (string, error) {
	meta := BuildMetadata(schema, opts)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize metadata: %w", err)
	}

	return string(data) + "\n", nil
}

// BuildMetadata projects a schema into its metadata document.
func BuildMetadata(schema *jdl.Schema, opts Options) *SchemaMetadata {
	meta := &SchemaMetadata{
		Version:  "1",
		App:      opts.AppName,
		Entities: []EntityRecord{},
		Enums:    []EnumRecord{},
	}

	for _, name := range schema.EntityNames() {
		entity := schema.Entities[name]
		rec := EntityRecord{
			Name:   name,
			Table:  tableName(name, opts.PluralOverrides),
			Route:  "/" + routePath(name, opts.PluralOverrides),
			Fields: []FieldRecord{},
		}
		for _, f := range entity.Fields {
			fr := FieldRecord{
				Name:     f.Name,
				Type:     f.Type,
				Required: f.Required,
				Audit:    f.IsAudit,
			}
			if f.IsRelationship {
				fr.RelationshipType = string(f.RelationshipType)
				fr.TargetEntity = f.TargetEntity
			} else {
				fr.Column = columnName(f.Name)
			}
			rec.Fields = append(rec.Fields, fr)
		}
		meta.Entities = append(meta.Entities, rec)
	}

	for _, name := range schema.EnumNames() {
		meta.Enums = append(meta.Enums, EnumRecord{
			Name:   name,
			Values: schema.Enums[name].Values,
		})
	}

	return meta
}
