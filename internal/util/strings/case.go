package strings

import (
	"strings"
	"unicode"
)

// initialisms are field name parts kept fully upper-cased in Go identifiers.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"uuid": "UUID",
	"api":  "API",
	"http": "HTTP",
	"json": "JSON",
	"xml":  "XML",
	"html": "HTML",
	"sql":  "SQL",
	"ip":   "IP",
}

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				// Underscore before an uppercase letter when the previous
				// char is lowercase, or the next one is (HTTPRequest).
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToExportedName converts a camelCase or snake_case name to an exported Go
// identifier: createdBy -> CreatedBy, blogId -> BlogID, id -> ID.
func ToExportedName(name string) string {
	parts := strings.Split(ToSnakeCase(name), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			parts[i] = upper
			continue
		}
		parts[i] = strings.ToUpper(part[0:1]) + part[1:]
	}
	return strings.Join(parts, "")
}

// ToKebabCase converts a name to kebab-case for file and URL segments.
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}
