package jdl

import (
	"regexp"
	"strings"
)

var (
	entityRx = regexp.MustCompile(`((?:@\w+(?:\([^)]*\))?\s*)*)\bentity\s+(\w+)\s*\{([^}]*)\}`)
	fieldRx  = regexp.MustCompile(`^([A-Za-z_]\w*)\s+([A-Za-z_]\w*)\s*(.*)$`)
	auditRx  = regexp.MustCompile(`(?i)@(enableaudit|audit)\b`)

	requiredRx = regexp.MustCompile(`(?i)\brequired\b`)
)

// auditFields are appended to every entity annotated with @EnableAudit or
// @audit. Injection skips names the entity already declares.
var auditFields = []struct {
	name string
	typ  string
}{
	{"createdBy", "String"},
	{"createdDate", "Instant"},
	{"lastModifiedBy", "String"},
	{"lastModifiedDate", "Instant"},
}

// extractEntities records every entity block in the stripped source. Body
// lines that do not look like "name Type [flags]" are dropped with a
// diagnostic. Audit fields are appended when the block carries an audit
// annotation. A later block with the same name replaces the earlier one.
func extractEntities(source string, schema *Schema, diags *collector) {
	for _, m := range entityRx.FindAllStringSubmatchIndex(source, -1) {
		annotations := source[m[2]:m[3]]
		name := source[m[4]:m[5]]
		body := source[m[6]:m[7]]

		entity := &Entity{Name: name}
		bodyLine := lineAt(source, m[6])
		for i, raw := range strings.Split(body, "\n") {
			line := strings.TrimSuffix(strings.TrimSpace(raw), ",")
			if line == "" {
				continue
			}
			f := parseFieldLine(line)
			if f == nil {
				diags.warnf(CodeEntityLineDropped, bodyLine+i, "entity %s: dropped line %q", name, line)
				continue
			}
			entity.Fields = append(entity.Fields, f)
		}

		if auditRx.MatchString(annotations) {
			injectAuditFields(entity)
		}
		schema.Entities[name] = entity
	}

	// The id invariant is enforced once every block has been read, so a
	// redeclared entity is completed exactly once.
	for _, name := range schema.EntityNames() {
		ensureIDField(schema.Entities[name])
	}
}

// parseFieldLine parses one "name Type [flags]" line. Only the required flag
// is interpreted; other validation flags ride along unparsed. Returns nil
// when the line does not match.
func parseFieldLine(line string) *Field {
	m := fieldRx.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	required := requiredRx.MatchString(m[3])
	return &Field{
		Name:     m[1],
		Type:     m[2],
		Required: required,
		Nullable: !required,
	}
}

func injectAuditFields(e *Entity) {
	for _, af := range auditFields {
		if e.HasField(af.name) {
			continue
		}
		e.Fields = append(e.Fields, &Field{
			Name:     af.name,
			Type:     af.typ,
			Nullable: true,
			IsAudit:  true,
			ReadOnly: true,
		})
	}
}

// ensureIDField prepends the synthetic primary key unless the entity already
// declares a field named id in any casing.
func ensureIDField(e *Entity) {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, "id") {
			return
		}
	}
	id := &Field{Name: "id", Type: "Long", Nullable: true}
	e.Fields = append([]*Field{id}, e.Fields...)
}
