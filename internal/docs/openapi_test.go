package docs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/codegen"
)

const docsSource = `
enum PostStatus {
  DRAFT, PUBLISHED
}

@EnableAudit
entity Blog {
  name String required
  handle String
}

entity Post {
  title String required
  status PostStatus
}

entity Tag {
  label String
}

relationship OneToMany {
  Blog{posts} to Post{blog}
}

relationship ManyToMany {
  Post{tags} to Tag{posts}
}
`

func docsMetadata(t *testing.T, opts codegen.Options) *codegen.SchemaMetadata {
	t.Helper()

	schema, diags := jdl.New(jdl.Options{}).Parse(docsSource)
	for _, d := range diags {
		if d.Severity == jdl.Error {
			t.Fatalf("unexpected parse error: %s", d.Message)
		}
	}
	return codegen.BuildMetadata(schema, opts)
}

func generateSpec(t *testing.T, g *OpenAPIGenerator, meta *codegen.SchemaMetadata) map[string]interface{} {
	t.Helper()

	data, err := g.Generate(meta)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("spec should end with a trailing newline")
	}

	var spec map[string]interface{}
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("spec is not valid JSON: %v", err)
	}
	return spec
}

// lookup walks nested objects, failing the test on a missing or non-object
// key.
func lookup(t *testing.T, m map[string]interface{}, keys ...string) map[string]interface{} {
	t.Helper()

	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			t.Fatalf("missing key %q", k)
		}
		child, ok := v.(map[string]interface{})
		if !ok {
			t.Fatalf("key %q is not an object", k)
		}
		m = child
	}
	return m
}

func TestOpenAPIGenerator_Generate(t *testing.T) {
	meta := docsMetadata(t, codegen.Options{AppName: "docs-app"})
	spec := generateSpec(t, NewOpenAPIGenerator(), meta)

	if spec["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v, want 3.0.3", spec["openapi"])
	}

	info := lookup(t, spec, "info")
	if info["title"] != "docs-app" {
		t.Errorf("title = %v, want docs-app", info["title"])
	}
	if info["version"] != "1" {
		t.Errorf("version = %v, want 1", info["version"])
	}

	servers, ok := spec["servers"].([]interface{})
	if !ok || len(servers) != 1 {
		t.Fatalf("expected exactly one server, got %v", spec["servers"])
	}
	server := servers[0].(map[string]interface{})
	if server["url"] != "http://localhost:8080" {
		t.Errorf("default server url = %v", server["url"])
	}

	paths := lookup(t, spec, "paths")
	for _, p := range []string{"/blogs", "/blogs/{id}", "/posts", "/posts/{id}", "/posts/{id}/tags", "/tags"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}

	schemas := lookup(t, spec, "components", "schemas")
	for _, s := range []string{"Blog", "Post", "Tag", "PostStatus", "Error"} {
		if _, ok := schemas[s]; !ok {
			t.Errorf("missing component schema %s", s)
		}
	}
}

func TestOpenAPIGenerator_ListOperation(t *testing.T) {
	meta := docsMetadata(t, codegen.Options{AppName: "docs-app"})
	spec := generateSpec(t, NewOpenAPIGenerator(), meta)

	op := lookup(t, spec, "paths", "/posts", "get")
	if op["operationId"] != "listPost" {
		t.Errorf("operationId = %v, want listPost", op["operationId"])
	}

	params, ok := op["parameters"].([]interface{})
	if !ok || len(params) != 2 {
		t.Fatalf("expected limit and offset parameters, got %v", op["parameters"])
	}
	names := map[string]bool{}
	for _, p := range params {
		names[p.(map[string]interface{})["name"].(string)] = true
	}
	if !names["limit"] || !names["offset"] {
		t.Errorf("parameter names = %v", names)
	}

	// The list handler reports the total row count in a response header.
	lookup(t, spec, "paths", "/posts", "get", "responses", "200", "headers", "X-Total-Count")
}

func TestOpenAPIGenerator_EntitySchema(t *testing.T) {
	meta := docsMetadata(t, codegen.Options{AppName: "docs-app"})
	spec := generateSpec(t, NewOpenAPIGenerator(), meta)

	blog := lookup(t, spec, "components", "schemas", "Blog")
	props := lookup(t, blog, "properties")

	id := lookup(t, props, "id")
	if id["format"] != "int64" {
		t.Errorf("id format = %v, want int64", id["format"])
	}
	if id["readOnly"] != true {
		t.Error("id should be read only")
	}
	if createdBy := lookup(t, props, "createdBy"); createdBy["readOnly"] != true {
		t.Error("audit fields should be read only")
	}

	required, ok := blog["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "name" {
		t.Errorf("required = %v, want [name]", blog["required"])
	}

	posts := lookup(t, props, "posts")
	if posts["type"] != "array" {
		t.Errorf("posts type = %v, want array", posts["type"])
	}
	if items := lookup(t, posts, "items"); items["$ref"] != "#/components/schemas/Post" {
		t.Errorf("posts items = %v", items["$ref"])
	}

	status := lookup(t, spec, "components", "schemas", "Post", "properties", "status")
	values, ok := status["enum"].([]interface{})
	if !ok || len(values) != 2 || values[0] != "DRAFT" {
		t.Errorf("status enum = %v", status["enum"])
	}

	if rel := lookup(t, spec, "components", "schemas", "Post", "properties", "blog"); rel["$ref"] != "#/components/schemas/Blog" {
		t.Errorf("blog ref = %v", rel["$ref"])
	}
}

func TestOpenAPIGenerator_PayloadIDs(t *testing.T) {
	meta := docsMetadata(t, codegen.Options{AppName: "docs-app"})
	g := &OpenAPIGenerator{PayloadMode: codegen.PayloadIDs}
	spec := generateSpec(t, g, meta)

	props := lookup(t, spec, "components", "schemas", "Post", "properties")

	blogID := lookup(t, props, "blogId")
	if blogID["type"] != "integer" || blogID["format"] != "int64" {
		t.Errorf("blogId = %v", blogID)
	}
	if tagIDs := lookup(t, props, "tagIds"); tagIDs["type"] != "array" {
		t.Errorf("tagIds type = %v, want array", tagIDs["type"])
	}
	if _, ok := props["blog"]; ok {
		t.Error("embedded property should not appear in ids mode")
	}

	blogProps := lookup(t, spec, "components", "schemas", "Blog", "properties")
	if _, ok := blogProps["postIds"]; !ok {
		t.Error("collection side should flatten to postIds")
	}
}

func TestOpenAPIGenerator_CustomServer(t *testing.T) {
	meta := docsMetadata(t, codegen.Options{AppName: "docs-app"})
	g := &OpenAPIGenerator{ServerURL: "https://api.example.com", PayloadMode: codegen.PayloadEmbedded}
	spec := generateSpec(t, g, meta)

	servers := spec["servers"].([]interface{})
	server := servers[0].(map[string]interface{})
	if server["url"] != "https://api.example.com" {
		t.Errorf("server url = %v", server["url"])
	}
}

func TestScalarProperty(t *testing.T) {
	tests := []struct {
		typ    string
		kind   string
		format string
	}{
		{"String", "string", ""},
		{"TextBlob", "string", ""},
		{"Integer", "integer", "int32"},
		{"Long", "integer", "int64"},
		{"Float", "number", "double"},
		{"Double", "number", "double"},
		{"BigDecimal", "number", ""},
		{"Boolean", "boolean", ""},
		{"LocalDate", "string", "date"},
		{"Instant", "string", "date-time"},
		{"ZonedDateTime", "string", "date-time"},
		{"UUID", "string", "uuid"},
		{"Blob", "string", "byte"},
		{"Duration", "integer", "int64"},
		{"Mystery", "string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			prop := scalarProperty(tt.typ, nil)
			if prop["type"] != tt.kind {
				t.Errorf("type = %v, want %s", prop["type"], tt.kind)
			}
			format, _ := prop["format"].(string)
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
		})
	}
}
