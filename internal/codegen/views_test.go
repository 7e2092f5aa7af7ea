package codegen

import (
	"strings"
	"testing"
)

func TestGenerateForm(t *testing.T) {
	schema := parseSchema(t, `
enum Language { FRENCH, ENGLISH }

@EnableAudit
entity Book {
  title String required
  summary TextBlob
  language Language
  published LocalDate
}
`)

	gen := NewGenerator()
	code, err := gen.GenerateForm(schema, schema.Entities["Book"], Options{})
	if err != nil {
		t.Fatalf("GenerateForm failed: %v", err)
	}

	if !strings.Contains(code, `<form id="book-form" method="post" action="/books">`) {
		t.Error("Form should post to the collection route")
	}
	if !strings.Contains(code, `<input type="text" id="title" name="title" required>`) {
		t.Error("Required strings should render required text inputs")
	}
	if !strings.Contains(code, `<textarea id="summary" name="summary"></textarea>`) {
		t.Error("Text blobs should render textareas")
	}
	if !strings.Contains(code, `<select id="language" name="language">`) {
		t.Error("Enums should render selects")
	}
	if !strings.Contains(code, `<option value="FRENCH">FRENCH</option>`) {
		t.Error("Enum selects should list the declared values")
	}
	if !strings.Contains(code, `<input type="date" id="published" name="published">`) {
		t.Error("Dates should render date inputs")
	}
	if strings.Contains(code, `name="id"`) {
		t.Error("The id field should not be editable")
	}
	if strings.Contains(code, `name="createdBy"`) {
		t.Error("Audit fields should not be editable")
	}
}

func TestGenerateViews(t *testing.T) {
	schema := parseSchema(t, `
@EnableAudit
entity BlogPost {
  title String required
}
`)

	gen := NewGenerator()
	list, detail, err := gen.GenerateViews(schema, schema.Entities["BlogPost"], Options{})
	if err != nil {
		t.Fatalf("GenerateViews failed: %v", err)
	}

	if !strings.Contains(list, `<section class="blog-post-list">`) {
		t.Error("List view should carry the entity slug")
	}
	if !strings.Contains(list, "<h1>Blog Posts</h1>") {
		t.Error("List view should humanize the collection title")
	}
	if !strings.Contains(list, `<tbody data-source="/blog-posts">`) {
		t.Error("List view should point at the collection route")
	}
	if !strings.Contains(list, `<td data-field="title"></td>`) {
		t.Error("List view should emit a cell per column")
	}

	if !strings.Contains(detail, `data-source="/blog-posts/{id}"`) {
		t.Error("Detail view should point at the record route")
	}
	if !strings.Contains(detail, `<dd data-field="createdDate"></dd>`) {
		t.Error("Detail view should include audit columns")
	}
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"firstName", "First Name"},
		{"title", "Title"},
		{"blog_posts", "Blog Posts"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := fieldLabel(tt.input); got != tt.expected {
				t.Errorf("fieldLabel(%s) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}
