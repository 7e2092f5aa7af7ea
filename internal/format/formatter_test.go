package format

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

func TestFormat_BasicEntity(t *testing.T) {
	input := `@EnableAudit entity Blog{
name    String   required
handle String
}`

	expected := `@EnableAudit
entity Blog {
  name   String required
  handle String
}
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_EnumOneValuePerLine(t *testing.T) {
	input := `enum PostStatus { DRAFT, PUBLISHED,
ARCHIVED }`

	expected := `enum PostStatus {
  DRAFT
  PUBLISHED
  ARCHIVED
}
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_RelationshipStatements(t *testing.T) {
	input := `relationship onetomany {
Blog { posts }   to   Post{blog},   Author{books} to Book
}`

	expected := `relationship OneToMany {
  Blog{posts} to Post{blog}
  Author{books} to Book
}
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_DisplayHintsSurvive(t *testing.T) {
	input := `relationship ManyToOne {
  Post{ author ( login ) } to User
}`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(result, "Post{author(login)} to User") {
		t.Errorf("display hint lost:\n%s", result)
	}
}

func TestFormat_CommentsPreserved(t *testing.T) {
	input := `// The main aggregate.
entity Blog {
  name String // display name
  // grouping
  handle String
}

/* block
   comment */
enum Status { ACTIVE }`

	expected := `// The main aggregate.
entity Blog {
  name   String // display name
  // grouping
  handle String
}

/* block
   comment */
enum Status {
  ACTIVE
}
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_NoAlignment(t *testing.T) {
	input := `entity Tag { label String required }`

	expected := `entity Tag {
    label String required
}
`

	result, err := New(&Config{IndentSize: 4, AlignFields: false}).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_DroppedLinesPassThrough(t *testing.T) {
	input := `entity Blog {
  name String
  !!!bad line
}

relationship ManyToLots {
  Blog{x} to Tag
}

application { baseName demo }`

	expected := `entity Blog {
  name String
  !!!bad line
}

relationship ManyToLots {
  Blog{x} to Tag
}

application { baseName demo }
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != expected {
		t.Errorf("format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	input := `// project schema
@audit entity Person{
  firstName String required
  lastName    String
}


enum Mood { HAPPY,SAD }
relationship manytomany {
  Team { members }  to  Person{teams},
}
entity Team { title String }`

	f := New(DefaultConfig())
	once, err := f.Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	twice, err := f.Format(once)
	if err != nil {
		t.Fatalf("Format of formatted output failed: %v", err)
	}
	if once != twice {
		t.Errorf("formatting is not idempotent.\nFirst:\n%s\nSecond:\n%s", once, twice)
	}
}

func TestFormat_SchemaUnchanged(t *testing.T) {
	input := `@audit entity Person{
  name String required
  nickname    String
}

entity Team { title String }

enum Mood { HAPPY,SAD }

relationship manytomany {
  Team{members} to Person{teams}
}
`

	result, err := New(DefaultConfig()).Format(input)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	before := jdl.Parse(input)
	after := jdl.Parse(result)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("formatting changed the parsed schema.\nBefore: %+v\nAfter: %+v", before, after)
	}
}

func TestFormat_Empty(t *testing.T) {
	result, err := New(DefaultConfig()).Format("")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty output, got %q", result)
	}
}

func TestFormat_UnterminatedRelationship(t *testing.T) {
	_, err := New(DefaultConfig()).Format("relationship OneToMany {\n  Blog{posts} to Post\n")
	if err == nil {
		t.Fatal("expected an error for an unclosed block")
	}
	if !strings.Contains(err.Error(), "never closed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormat_UnterminatedBlockComment(t *testing.T) {
	_, err := New(DefaultConfig()).Format("/* oops\nentity Blog { name String }\n")
	if err == nil {
		t.Fatal("expected an error for an unclosed block comment")
	}
	if !strings.Contains(err.Error(), "block comment") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jdl")
	if err := os.WriteFile(path, []byte("entity   Tag   { label String }\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	result, err := FormatFile(path, nil)
	if err != nil {
		t.Fatalf("FormatFile failed: %v", err)
	}
	if !strings.Contains(result, "entity Tag {") {
		t.Errorf("unexpected output:\n%s", result)
	}
}
