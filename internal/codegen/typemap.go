package codegen

import "github.com/blueprint-gen/blueprint/compiler/jdl"

// goType maps a JDL type token to the Go type used in generated models.
// Enum tokens map to their generated type; unknown tokens fall back to string
// so a half-finished schema still generates.
func goType(schema *jdl.Schema, f *jdl.Field) string {
	if schema.IsEnum(f.Type) {
		return f.Type
	}
	switch f.Type {
	case "String", "TextBlob":
		return "string"
	case "Integer":
		return "int"
	case "Long":
		return "int64"
	case "Float", "Double", "BigDecimal":
		return "float64"
	case "Boolean":
		return "bool"
	case "LocalDate", "Instant", "ZonedDateTime":
		return "time.Time"
	case "UUID":
		return "uuid.UUID"
	case "Blob", "AnyBlob", "ImageBlob":
		return "[]byte"
	case "Duration":
		return "time.Duration"
	default:
		return "string"
	}
}

// goImportFor returns the import needed by a Go type, or "".
func goImportFor(goTyp string) string {
	switch goTyp {
	case "time.Time", "time.Duration":
		return "time"
	case "uuid.UUID":
		return "github.com/google/uuid"
	}
	return ""
}

// sqlType maps a JDL type token to its column type. Enum values are stored as
// text. The vocabulary is the portable postgres subset; sqlite accepts the
// same names through type affinity.
func sqlType(schema *jdl.Schema, f *jdl.Field) string {
	if schema.IsEnum(f.Type) {
		return "varchar(255)"
	}
	switch f.Type {
	case "String":
		return "varchar(255)"
	case "TextBlob":
		return "text"
	case "Integer":
		return "integer"
	case "Long", "Duration":
		return "bigint"
	case "Float", "Double":
		return "double precision"
	case "BigDecimal":
		return "numeric(21,2)"
	case "Boolean":
		return "boolean"
	case "LocalDate":
		return "date"
	case "Instant", "ZonedDateTime":
		return "timestamp with time zone"
	case "UUID":
		return "uuid"
	case "Blob", "AnyBlob", "ImageBlob":
		return "bytea"
	default:
		return "varchar(255)"
	}
}

// isTemporal reports whether the field maps to time.Time.
func isTemporal(f *jdl.Field) bool {
	switch f.Type {
	case "LocalDate", "Instant", "ZonedDateTime":
		return true
	}
	return false
}

// scalarFields returns the entity's non-relationship fields in order.
func scalarFields(e *jdl.Entity) []*jdl.Field {
	var out []*jdl.Field
	for _, f := range e.Fields {
		if !f.IsRelationship {
			out = append(out, f)
		}
	}
	return out
}
