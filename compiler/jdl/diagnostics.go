package jdl

import "fmt"

// Severity is the weight of a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	switch str {
	case "info":
		*s = Info
	case "error":
		*s = Error
	default:
		*s = Warning
	}
	return nil
}

// Diagnostic codes. Each names the construct the parser dropped or the
// condition it tolerated while producing the schema.
const (
	CodeEntityLineDropped            = "entity-line-dropped"
	CodeRelationshipStatementDropped = "relationship-statement-dropped"
	CodeUnknownEntity                = "unknown-entity"
	CodeUnknownRelationshipType      = "unknown-relationship-type"
	CodeEmptyEnum                    = "empty-enum"
	CodeUnterminatedBlock            = "unterminated-block"
)

// Diagnostic reports a construct the parser could not use. Parsing never
// fails on one; callers that want strictness inspect the slice themselves.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", d.Line, d.Severity, d.Message, d.Code)
}

// collector accumulates diagnostics in the order the parser hits them.
type collector struct {
	items []Diagnostic
}

func (c *collector) add(sev Severity, code string, line int, format string, args ...interface{}) {
	c.items = append(c.items, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

func (c *collector) warnf(code string, line int, format string, args ...interface{}) {
	c.add(Warning, code, line, format, args...)
}
