// Package docs renders API documentation from the metadata the generator
// emits. Both renderers read the same document the generated code is built
// from, so the documentation cannot drift from the API.
package docs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// OpenAPIGenerator renders OpenAPI 3.0 specifications.
type OpenAPIGenerator struct {
	// ServerURL replaces the default development server entry.
	ServerURL string
	// PayloadMode mirrors the generator's payload mode: embedded payloads
	// reference related schemas, id payloads flatten to integer ids.
	PayloadMode codegen.PayloadMode
	// PluralOverrides keeps id property names in sync with the generated
	// models when the schema overrides a plural form.
	PluralOverrides map[string]string
}

// NewOpenAPIGenerator creates a generator with the default payload mode.
func NewOpenAPIGenerator() *OpenAPIGenerator {
	return &OpenAPIGenerator{PayloadMode: codegen.PayloadEmbedded}
}

// Generate renders the specification as indented JSON.
func (g *OpenAPIGenerator) Generate(meta *codegen.SchemaMetadata) ([]byte, error) {
	spec := g.createSpec(meta)

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAPI spec: %w", err)
	}

	return append(data, '\n'), nil
}

// createSpec creates the complete OpenAPI specification.
func (g *OpenAPIGenerator) createSpec(meta *codegen.SchemaMetadata) map[string]interface{} {
	title := meta.App
	if title == "" {
		title = "blueprint application"
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       title,
			"version":     meta.Version,
			"description": fmt.Sprintf("REST API generated from the %s schema", title),
		},
		"servers":    g.createServers(),
		"paths":      g.createPaths(meta),
		"components": g.createComponents(meta),
	}
}

// createServers creates the servers section.
func (g *OpenAPIGenerator) createServers() []map[string]interface{} {
	url := g.ServerURL
	description := "Configured server"
	if url == "" {
		// The generated entry point listens on 8080 unless PORT is set.
		url = "http://localhost:8080"
		description = "Development server"
	}

	return []map[string]interface{}{
		{"url": url, "description": description},
	}
}

// createPaths creates one path item per route the generated handlers mount.
func (g *OpenAPIGenerator) createPaths(meta *codegen.SchemaMetadata) map[string]interface{} {
	paths := make(map[string]interface{})

	for _, entity := range meta.Entities {
		paths[entity.Route] = map[string]interface{}{
			"get":  g.listOperation(entity),
			"post": g.createOperation(entity),
		}
		paths[entity.Route+"/{id}"] = map[string]interface{}{
			"get":    g.getOperation(entity),
			"put":    g.updateOperation(entity),
			"delete": g.deleteOperation(entity),
		}

		for _, f := range entity.Fields {
			if f.RelationshipType != string(jdl.ManyToMany) {
				continue
			}
			sub := joinSubPath(f.Name)
			paths[entity.Route+"/{id}/"+sub] = map[string]interface{}{
				"get": g.joinListOperation(entity, f),
				"put": g.joinSetOperation(entity, f),
			}
		}
	}

	return paths
}

func (g *OpenAPIGenerator) listOperation(entity codegen.EntityRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("List %s records", entity.Name),
		"operationId": "list" + entity.Name,
		"tags":        []string{entity.Name},
		"parameters": []map[string]interface{}{
			{
				"name":        "limit",
				"in":          "query",
				"required":    false,
				"description": "Page size",
				"schema":      map[string]interface{}{"type": "integer"},
			},
			{
				"name":        "offset",
				"in":          "query",
				"required":    false,
				"description": "Rows to skip",
				"schema":      map[string]interface{}{"type": "integer"},
			},
		},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "A page of records",
				"headers": map[string]interface{}{
					"X-Total-Count": map[string]interface{}{
						"description": "Total number of records",
						"schema":      map[string]interface{}{"type": "integer"},
					},
				},
				"content": jsonContent(map[string]interface{}{
					"type":  "array",
					"items": schemaRef(entity.Name),
				}),
			},
		},
	}
}

func (g *OpenAPIGenerator) createOperation(entity codegen.EntityRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("Create a %s record", entity.Name),
		"operationId": "create" + entity.Name,
		"tags":        []string{entity.Name},
		"requestBody": map[string]interface{}{
			"required": true,
			"content":  jsonContent(schemaRef(entity.Name)),
		},
		"responses": map[string]interface{}{
			"201": map[string]interface{}{
				"description": "The stored record",
				"content":     jsonContent(schemaRef(entity.Name)),
			},
			"400": errorResponse("Malformed request body"),
			"422": errorResponse("Validation failed"),
		},
	}
}

func (g *OpenAPIGenerator) getOperation(entity codegen.EntityRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("Get one %s record", entity.Name),
		"operationId": "get" + entity.Name,
		"tags":        []string{entity.Name},
		"parameters":  []map[string]interface{}{idParameter()},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "The record",
				"content":     jsonContent(schemaRef(entity.Name)),
			},
			"404": errorResponse("No record with this id"),
		},
	}
}

func (g *OpenAPIGenerator) updateOperation(entity codegen.EntityRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("Replace a %s record", entity.Name),
		"operationId": "update" + entity.Name,
		"tags":        []string{entity.Name},
		"parameters":  []map[string]interface{}{idParameter()},
		"requestBody": map[string]interface{}{
			"required": true,
			"content":  jsonContent(schemaRef(entity.Name)),
		},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "The updated record",
				"content":     jsonContent(schemaRef(entity.Name)),
			},
			"400": errorResponse("Malformed request body"),
			"422": errorResponse("Validation failed"),
		},
	}
}

func (g *OpenAPIGenerator) deleteOperation(entity codegen.EntityRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("Delete a %s record", entity.Name),
		"operationId": "delete" + entity.Name,
		"tags":        []string{entity.Name},
		"parameters":  []map[string]interface{}{idParameter()},
		"responses": map[string]interface{}{
			"204": map[string]interface{}{"description": "Deleted"},
		},
	}
}

func (g *OpenAPIGenerator) joinListOperation(entity codegen.EntityRecord, f codegen.FieldRecord) map[string]interface{} {
	single := inflect.Singularize(f.Name, g.PluralOverrides)
	return map[string]interface{}{
		"summary":     fmt.Sprintf("List linked %s ids", single),
		"operationId": "list" + entity.Name + title(f.Name),
		"tags":        []string{entity.Name},
		"parameters":  []map[string]interface{}{idParameter()},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Linked ids in ascending order",
				"content": jsonContent(map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "integer", "format": "int64"},
				}),
			},
		},
	}
}

func (g *OpenAPIGenerator) joinSetOperation(entity codegen.EntityRecord, f codegen.FieldRecord) map[string]interface{} {
	return map[string]interface{}{
		"summary":     fmt.Sprintf("Replace the linked %s", f.Name),
		"operationId": "set" + entity.Name + title(f.Name),
		"tags":        []string{entity.Name},
		"parameters":  []map[string]interface{}{idParameter()},
		"requestBody": map[string]interface{}{
			"required": true,
			"content": jsonContent(map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "integer", "format": "int64"},
			}),
		},
		"responses": map[string]interface{}{
			"204": map[string]interface{}{"description": "Links replaced"},
			"400": errorResponse("Malformed request body"),
			"422": errorResponse("A referenced id does not exist"),
		},
	}
}

// createComponents creates one schema per entity and enum, plus the error
// body every failure response shares.
func (g *OpenAPIGenerator) createComponents(meta *codegen.SchemaMetadata) map[string]interface{} {
	schemas := make(map[string]interface{})

	enums := make(map[string][]string, len(meta.Enums))
	for _, e := range meta.Enums {
		enums[e.Name] = e.Values
	}

	for _, entity := range meta.Entities {
		properties := make(map[string]interface{})
		required := make([]string, 0)

		for _, f := range entity.Fields {
			name, prop, ok := g.fieldProperty(f, enums)
			if !ok {
				continue
			}
			properties[name] = prop
			if f.Required {
				required = append(required, name)
			}
		}

		schema := map[string]interface{}{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			schema["required"] = required
		}

		schemas[entity.Name] = schema
	}

	for _, e := range meta.Enums {
		schemas[e.Name] = map[string]interface{}{
			"type": "string",
			"enum": e.Values,
		}
	}

	schemas["Error"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"error": map[string]interface{}{"type": "string"},
		},
		"required": []string{"error"},
	}

	return map[string]interface{}{"schemas": schemas}
}

// fieldProperty maps one field record to a JSON property. Relationship
// fields depend on the payload mode; the reported ok is false when the field
// has no wire form.
func (g *OpenAPIGenerator) fieldProperty(f codegen.FieldRecord, enums map[string][]string) (string, map[string]interface{}, bool) {
	if f.RelationshipType != "" {
		collection := f.RelationshipType == string(jdl.OneToMany) ||
			f.RelationshipType == string(jdl.ManyToMany)

		if g.PayloadMode == codegen.PayloadIDs {
			id := map[string]interface{}{"type": "integer", "format": "int64"}
			if collection {
				single := inflect.Singularize(f.Name, g.PluralOverrides)
				return single + "Ids", map[string]interface{}{
					"type":  "array",
					"items": id,
				}, true
			}
			return f.Name + "Id", id, true
		}

		if collection {
			return f.Name, map[string]interface{}{
				"type":  "array",
				"items": schemaRef(f.TargetEntity),
			}, true
		}
		return f.Name, schemaRef(f.TargetEntity), true
	}

	prop := scalarProperty(f.Type, enums)
	if f.Name == "id" || f.Audit {
		prop["readOnly"] = true
	}
	return f.Name, prop, true
}

// scalarProperty maps a schema type token to an OpenAPI property.
func scalarProperty(typ string, enums map[string][]string) map[string]interface{} {
	if values, ok := enums[typ]; ok {
		return map[string]interface{}{"type": "string", "enum": values}
	}

	switch typ {
	case "Integer":
		return map[string]interface{}{"type": "integer", "format": "int32"}
	case "Long", "Duration":
		return map[string]interface{}{"type": "integer", "format": "int64"}
	case "Float", "Double":
		return map[string]interface{}{"type": "number", "format": "double"}
	case "BigDecimal":
		return map[string]interface{}{"type": "number"}
	case "Boolean":
		return map[string]interface{}{"type": "boolean"}
	case "LocalDate":
		return map[string]interface{}{"type": "string", "format": "date"}
	case "Instant", "ZonedDateTime":
		return map[string]interface{}{"type": "string", "format": "date-time"}
	case "UUID":
		return map[string]interface{}{"type": "string", "format": "uuid"}
	case "Blob", "AnyBlob", "ImageBlob":
		return map[string]interface{}{"type": "string", "format": "byte"}
	default:
		return map[string]interface{}{"type": "string"}
	}
}

func idParameter() map[string]interface{} {
	return map[string]interface{}{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   map[string]interface{}{"type": "integer", "format": "int64"},
	}
}

func schemaRef(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

func errorResponse(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content":     jsonContent(schemaRef("Error")),
	}
}

// joinSubPath converts a field name to the route segment the generated
// handlers mount, e.g. "blogPosts" becomes "blog-posts".
func joinSubPath(field string) string {
	return strings.ReplaceAll(strutil.ToSnakeCase(field), "_", "-")
}

// title upper-cases the first letter of a field name.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
