package codegen

import (
	"fmt"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// GenerateModel renders the models/ file for one entity: the struct, its
// TableName method, and a Validate method covering required fields.
func (g *Generator) GenerateModel(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	if entity.Name == "" {
		return "", fmt.Errorf("codegen: entity name cannot be empty")
	}

	g.reset()
	g.writeLine("package models")
	g.writeLine("")

	g.collectModelImports(schema, entity)
	if len(g.imports) > 0 {
		g.writeImports()
		g.writeLine("")
	}

	g.generateStruct(schema, entity, opts)
	g.writeLine("")
	g.generateTableName(entity, opts)
	g.writeLine("")
	g.generateValidate(schema, entity)

	return g.buf.String(), nil
}

// collectModelImports scans the entity's fields for required imports.
func (g *Generator) collectModelImports(schema *jdl.Schema, entity *jdl.Entity) {
	if len(validatedFields(schema, entity)) > 0 {
		g.imports["fmt"] = true
	}
	for _, f := range scalarFields(entity) {
		if imp := goImportFor(goType(schema, f)); imp != "" {
			g.imports[imp] = true
		}
	}
}

// validatedFields returns the scalar fields Validate checks: required strings
// and required enums.
func validatedFields(schema *jdl.Schema, entity *jdl.Entity) []*jdl.Field {
	var out []*jdl.Field
	for _, f := range scalarFields(entity) {
		if !f.Required || strings.EqualFold(f.Name, "id") {
			continue
		}
		if schema.IsEnum(f.Type) || goType(schema, f) == "string" {
			out = append(out, f)
		}
	}
	return out
}

// generateStruct emits the entity struct with aligned fields and tags.
func (g *Generator) generateStruct(schema *jdl.Schema, entity *jdl.Entity, opts Options) {
	g.writeLine("// %s is generated from the %s entity.", entity.Name, entity.Name)
	g.writeLine("type %s struct {", entity.Name)
	g.indent++

	type fieldInfo struct {
		name string
		typ  string
		tags string
	}
	var fields []fieldInfo

	for _, f := range entity.Fields {
		if f.IsRelationship {
			name, typ, tags := g.relationshipField(f, opts)
			fields = append(fields, fieldInfo{name: name, typ: typ, tags: tags})
			continue
		}

		typ := goType(schema, f)
		if !f.Required && !strings.EqualFold(f.Name, "id") && typ != "[]byte" {
			typ = "*" + typ
		}
		fields = append(fields, fieldInfo{
			name: toGoFieldName(f.Name),
			typ:  typ,
			tags: scalarTags(f),
		})
	}

	maxName, maxType := 0, 0
	for _, f := range fields {
		if len(f.name) > maxName {
			maxName = len(f.name)
		}
		if len(f.typ) > maxType {
			maxType = len(f.typ)
		}
	}
	for _, f := range fields {
		g.writeLine("%s%s %s%s %s",
			f.name, strings.Repeat(" ", maxName-len(f.name)),
			f.typ, strings.Repeat(" ", maxType-len(f.typ)),
			f.tags)
	}

	g.indent--
	g.writeLine("}")
}

// relationshipField renders one relationship field per the payload mode.
func (g *Generator) relationshipField(f *jdl.Field, opts Options) (name, typ, tags string) {
	if opts.payloadMode() == PayloadIDs {
		if f.IsCollection() {
			single := inflect.Singularize(f.Name, opts.PluralOverrides)
			name = toGoFieldName(single) + "IDs"
			typ = "[]int64"
			tags = fmt.Sprintf("`db:\"-\" json:\"%sIds,omitempty\"`", single)
			return name, typ, tags
		}
		name = toGoFieldName(f.Name) + "ID"
		typ = "*int64"
		tags = fmt.Sprintf("`db:%q json:\"%sId,omitempty\"`", columnName(f.Name)+"_id", f.Name)
		return name, typ, tags
	}

	if f.IsCollection() {
		name = toGoFieldName(f.Name)
		typ = "[]*" + f.TargetEntity
		tags = fmt.Sprintf("`db:\"-\" json:\"%s,omitempty\"`", f.Name)
		return name, typ, tags
	}
	name = toGoFieldName(f.Name)
	typ = "*" + f.TargetEntity
	tags = fmt.Sprintf("`db:\"-\" json:\"%s,omitempty\"`", f.Name)
	return name, typ, tags
}

// scalarTags renders db and json tags for a non-relationship field.
func scalarTags(f *jdl.Field) string {
	jsonTag := f.Name
	if !f.Required && !strings.EqualFold(f.Name, "id") {
		jsonTag += ",omitempty"
	}
	return fmt.Sprintf("`db:%q json:%q`", columnName(f.Name), jsonTag)
}

// generateTableName generates the TableName() method
func (g *Generator) generateTableName(entity *jdl.Entity, opts Options) {
	recv := strings.ToLower(entity.Name[0:1])
	g.writeLine("// TableName returns the database table name for %s", entity.Name)
	g.writeLine("func (%s *%s) TableName() string {", recv, entity.Name)
	g.indent++
	g.writeLine("return %q", tableName(entity.Name, opts.PluralOverrides))
	g.indent--
	g.writeLine("}")
}

// generateValidate generates the Validate() method
func (g *Generator) generateValidate(schema *jdl.Schema, entity *jdl.Entity) {
	recv := strings.ToLower(entity.Name[0:1])
	g.writeLine("// Validate validates the %s fields", entity.Name)
	g.writeLine("func (%s *%s) Validate() error {", recv, entity.Name)
	g.indent++

	checked := validatedFields(schema, entity)
	for _, f := range checked {
		fieldName := toGoFieldName(f.Name)
		if schema.IsEnum(f.Type) {
			g.writeLine("if !%s.%s.Valid() {", recv, fieldName)
		} else {
			g.writeLine("if len(%s.%s) == 0 {", recv, fieldName)
		}
		g.indent++
		g.writeLine("return fmt.Errorf(\"%s is required\")", f.Name)
		g.indent--
		g.writeLine("}")
	}

	if len(checked) == 0 {
		g.writeLine("// No validations defined")
	}
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
}
