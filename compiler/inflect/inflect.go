package inflect

import (
	"sort"
	"strings"
	"unicode"
)

// irregularPlurals maps singular nouns that do not follow suffix rules.
var irregularPlurals = map[string]string{
	"person": "people",
	"man":    "men",
	"child":  "children",
	"mouse":  "mice",
	"goose":  "geese",
	"tooth":  "teeth",
	"foot":   "feet",
	"ox":     "oxen",
}

// irregularSingulars is the reverse of irregularPlurals.
var irregularSingulars = map[string]string{
	"people":   "person",
	"men":      "man",
	"children": "child",
	"mice":     "mouse",
	"geese":    "goose",
	"teeth":    "tooth",
	"feet":     "foot",
	"oxen":     "ox",
}

// Pluralize returns the plural form of word. Overrides are consulted first,
// then the irregular table, then suffix heuristics. The result keeps the case
// style of the input: APPLE -> APPLES, Apple -> Apples, apple -> apples.
//
// The suffix heuristics are intentionally simple and favor predictability over
// full English coverage. Words ending in a single "f" or in "fe" always take
// "ves", so Pluralize("Chief", nil) is "Chieves"; use an override when a word
// needs a different form.
func Pluralize(word string, overrides map[string]string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if v, ok := lookupKey(overrides, lower); ok {
		return matchCase(v, word)
	}
	if p, ok := irregularPlurals[lower]; ok {
		return matchCase(p, word)
	}
	return pluralizeSuffix(word, lower)
}

// Singularize returns the singular form of word, reversing Pluralize where it
// can. Override values are matched back to their keys, irregular plurals to
// their singulars, and the suffix rules are mirrored. It is an approximation,
// not a true inverse: Singularize("Knives", nil) is "Knif".
func Singularize(word string, overrides map[string]string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if k, ok := lookupValue(overrides, lower); ok {
		return matchCase(k, word)
	}
	if s, ok := irregularSingulars[lower]; ok {
		return matchCase(s, word)
	}
	return singularizeSuffix(word, lower)
}

// lookupKey finds the override whose key case-insensitively equals lower.
// Keys are scanned in sorted order so ties resolve the same way every run.
func lookupKey(overrides map[string]string, lower string) (string, bool) {
	for _, k := range sortedKeys(overrides) {
		if strings.ToLower(k) == lower {
			return overrides[k], true
		}
	}
	return "", false
}

// lookupValue finds the override whose value case-insensitively equals lower
// and returns its key.
func lookupValue(overrides map[string]string, lower string) (string, bool) {
	for _, k := range sortedKeys(overrides) {
		if strings.ToLower(overrides[k]) == lower {
			return k, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pluralizeSuffix(word, lower string) string {
	upper := endsUpper(word)
	switch {
	case strings.HasSuffix(lower, "s"):
		return word
	case strings.HasSuffix(lower, "y") && hasConsonantBefore(lower, 1):
		return word[:len(word)-1] + suffixCase("ies", upper)
	case strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + suffixCase("es", upper)
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + suffixCase("ves", upper)
	case strings.HasSuffix(lower, "f") && !strings.HasSuffix(lower, "ff"):
		return word[:len(word)-1] + suffixCase("ves", upper)
	case strings.HasSuffix(lower, "o") && hasConsonantBefore(lower, 1):
		return word + suffixCase("es", upper)
	default:
		return word + suffixCase("s", upper)
	}
}

func singularizeSuffix(word, lower string) string {
	upper := endsUpper(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return word[:len(word)-3] + suffixCase("y", upper)
	case strings.HasSuffix(lower, "ves") && len(lower) > 3:
		return word[:len(word)-3] + suffixCase("f", upper)
	case strings.HasSuffix(lower, "es") && len(lower) > 2 && stripsES(lower[:len(lower)-2]):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}

// stripsES reports whether a stem takes the "es" suffix when pluralized, which
// is when "es" should be removed whole on the way back.
func stripsES(stem string) bool {
	switch {
	case strings.HasSuffix(stem, "ch"), strings.HasSuffix(stem, "sh"):
		return true
	case strings.HasSuffix(stem, "s"), strings.HasSuffix(stem, "x"),
		strings.HasSuffix(stem, "z"), strings.HasSuffix(stem, "o"):
		return true
	}
	return false
}

// matchCase adapts a dictionary result to the case style of the source word:
// all-caps source gives an all-caps result, all-lowercase gives lowercase,
// anything else capitalizes the first rune and leaves the rest alone.
func matchCase(result, source string) string {
	switch {
	case isAllUpper(source):
		return strings.ToUpper(result)
	case isAllLower(source):
		return strings.ToLower(result)
	default:
		return Capitalize(result)
	}
}

// suffixCase matches an appended suffix to the case of the character it
// follows, so CITY becomes CITIES while City becomes Cities.
func suffixCase(suffix string, upper bool) string {
	if upper {
		return strings.ToUpper(suffix)
	}
	return suffix
}

func endsUpper(word string) bool {
	runes := []rune(word)
	return len(runes) > 0 && unicode.IsUpper(runes[len(runes)-1])
}

func hasConsonantBefore(lower string, offset int) bool {
	if len(lower) <= offset {
		return false
	}
	r := rune(lower[len(lower)-offset-1])
	if !unicode.IsLetter(r) {
		return false
	}
	return !isVowel(r)
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isAllLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// Capitalize uppercases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Decapitalize lowercases the first rune of s. Default relationship field
// names are derived from entity names this way: Blog -> blog.
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
