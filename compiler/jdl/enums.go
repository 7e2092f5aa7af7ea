package jdl

import (
	"regexp"
	"strings"
)

var enumRx = regexp.MustCompile(`\benum\s+(\w+)\s*\{([^}]*)\}`)

// extractEnums records every enum block in the stripped source. Values are
// split on commas, semicolons, and newlines; empty tokens are dropped. A
// block with no usable values is not recorded. A later block with the same
// name replaces the earlier one.
func extractEnums(source string, schema *Schema, diags *collector) {
	for _, m := range enumRx.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		body := source[m[4]:m[5]]

		values := splitEnumValues(body)
		if len(values) == 0 {
			diags.warnf(CodeEmptyEnum, lineAt(source, m[0]), "enum %s has no values", name)
			continue
		}
		schema.Enums[name] = &Enum{Name: name, Values: values}
	}
}

func splitEnumValues(body string) []string {
	parts := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	var values []string
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}
