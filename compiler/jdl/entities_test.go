package jdl

import (
	"strings"
	"testing"
)

// TestParseFieldLine tests the field line pattern
func TestParseFieldLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected *Field
	}{
		{"bare", "name String", &Field{Name: "name", Type: "String", Nullable: true}},
		{"required", "name String required", &Field{Name: "name", Type: "String", Required: true}},
		{"required_upper", "name String REQUIRED", &Field{Name: "name", Type: "String", Required: true}},
		{"required_among_flags", "title String minlength(3) required maxlength(100)", &Field{Name: "title", Type: "String", Required: true}},
		{"validation_only", "age Integer min(0)", &Field{Name: "age", Type: "Integer", Nullable: true}},
		{"underscore_name", "created_at Instant", &Field{Name: "created_at", Type: "Instant", Nullable: true}},
		{"single_token", "justoneword", nil},
		{"leading_digit", "1name String", nil},
		{"punctuation", "???", nil},
		{"dash_name", "- String", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFieldLine(tt.line)
			if tt.expected == nil {
				if got != nil {
					t.Fatalf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected a field, got no match")
			}
			if got.Name != tt.expected.Name || got.Type != tt.expected.Type {
				t.Errorf("expected %s %s, got %s %s", tt.expected.Name, tt.expected.Type, got.Name, got.Type)
			}
			if got.Required != tt.expected.Required {
				t.Errorf("expected required=%v, got %v", tt.expected.Required, got.Required)
			}
			if got.Nullable == got.Required {
				t.Error("nullable should be the inverse of required")
			}
		})
	}
}

// TestFieldWordBoundary tests that required is matched as a whole word
func TestFieldWordBoundary(t *testing.T) {
	f := parseFieldLine("note String requiredish")
	if f == nil {
		t.Fatal("expected a field")
	}
	if f.Required {
		t.Error("requiredish should not count as required")
	}
}

// TestAuditAnnotations tests audit field injection per annotation form
func TestAuditAnnotations(t *testing.T) {
	tests := []struct {
		name       string
		annotation string
		audited    bool
	}{
		{"enable_audit", "@EnableAudit", true},
		{"enable_audit_lower", "@enableaudit", true},
		{"audit", "@audit", true},
		{"audit_title", "@Audit", true},
		{"unrelated", "@Service", false},
		{"none", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Parse(tt.annotation + "\nentity Doc { title String }")
			doc := schema.Entities["Doc"]
			if doc == nil {
				t.Fatal("expected entity Doc")
			}
			if got := doc.HasField("createdBy"); got != tt.audited {
				t.Errorf("audited=%v, want %v", got, tt.audited)
			}
			if !tt.audited {
				return
			}
			for _, name := range []string{"createdBy", "createdDate", "lastModifiedBy", "lastModifiedDate"} {
				f := doc.Field(name)
				if f == nil {
					t.Fatalf("missing audit field %s", name)
				}
				if !f.IsAudit || !f.ReadOnly {
					t.Errorf("%s should be IsAudit and ReadOnly", name)
				}
			}
			if doc.Field("createdDate").Type != "Instant" {
				t.Error("createdDate should be an Instant")
			}
		})
	}
}

// TestAuditInjectionSkipsDeclared tests idempotence against declared names
func TestAuditInjectionSkipsDeclared(t *testing.T) {
	schema := Parse(`
@EnableAudit
entity Doc {
  createdBy String required
  title String
}
`)
	doc := schema.Entities["Doc"]

	count := 0
	for _, f := range doc.Fields {
		if f.Name == "createdBy" {
			count++
			if !f.Required {
				t.Error("declared createdBy should keep its required flag")
			}
			if f.IsAudit {
				t.Error("declared createdBy should not be marked as audit")
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one createdBy, got %d", count)
	}
	if !doc.HasField("lastModifiedDate") {
		t.Error("remaining audit fields should still be injected")
	}
}

// TestIDInjection tests the primary key invariant
func TestIDInjection(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		idType   string
		idPos    int
		declared bool
	}{
		{"absent", "entity A { name String }", "Long", 0, false},
		{"declared_lower", "entity A { id UUID }", "UUID", 0, true},
		{"declared_upper", "entity A { ID UUID }", "UUID", 0, true},
		{"declared_mixed", "entity A { name String\nId Long }", "Long", 1, true},
		{"empty_body", "entity A { }", "Long", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Parse(tt.source)
			a := schema.Entities["A"]
			if a == nil {
				t.Fatal("expected entity A")
			}

			count := 0
			for _, f := range a.Fields {
				if strings.EqualFold(f.Name, "id") {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("expected exactly one id field, got %d", count)
			}

			f := a.Fields[tt.idPos]
			if !strings.EqualFold(f.Name, "id") {
				t.Fatalf("expected id at position %d, got %q", tt.idPos, f.Name)
			}
			if f.Type != tt.idType {
				t.Errorf("expected id type %s, got %s", tt.idType, f.Type)
			}
			if !tt.declared && (f.Required || !f.Nullable) {
				t.Error("injected id should be optional and nullable")
			}
		})
	}
}

// TestDuplicateEntityOverwrites tests that a later block replaces an earlier one
func TestDuplicateEntityOverwrites(t *testing.T) {
	schema := Parse(`
entity A { first String }
entity A { second Integer }
`)
	a := schema.Entities["A"]
	if a.HasField("first") {
		t.Error("earlier block should be replaced")
	}
	if !a.HasField("second") {
		t.Error("later block should win")
	}
	if len(a.Fields) != 2 {
		t.Errorf("expected id + second, got %d fields", len(a.Fields))
	}
}

// TestEntityDroppedLineDiagnostic tests line attribution for dropped lines
func TestEntityDroppedLineDiagnostic(t *testing.T) {
	source := "entity A {\n  good String\n  !!bad!!\n}"
	_, diags := New(Options{}).Parse(source)

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Code != CodeEntityLineDropped {
		t.Errorf("expected %s, got %s", CodeEntityLineDropped, d.Code)
	}
	if d.Line != 3 {
		t.Errorf("expected line 3, got %d", d.Line)
	}
	if !strings.Contains(d.Message, "!!bad!!") {
		t.Errorf("message should quote the dropped line: %s", d.Message)
	}
}
