package codegen

import (
	"strings"
	"testing"
)

const blogSource = `
@EnableAudit
entity Blog { name String required }

@EnableAudit
entity Post { title String }

entity Tag { label String }

relationship ManyToOne {
  Post{blog} to Blog
}

relationship ManyToMany {
  Post{tags} to Tag{posts}
}
`

func TestGenerateService_Create(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Post"], Options{ModulePath: "example.com/app"})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if !strings.Contains(code, "type PostService struct {") {
		t.Error("Generated code should contain the service struct")
	}
	if !strings.Contains(code, "func NewPostService(db *sql.DB) *PostService {") {
		t.Error("Generated code should contain the constructor")
	}
	if !strings.Contains(code, "if err := m.Validate(); err != nil {") {
		t.Error("Create should validate before writing")
	}
	if !strings.Contains(code, "INSERT INTO posts (title, created_by, created_date, last_modified_by, last_modified_date, blog_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id") {
		t.Error("Create should insert every column and return the id")
	}
	if !strings.Contains(code, "m.CreatedDate = &now") {
		t.Error("Create should stamp the created date")
	}
	if !strings.Contains(code, "var blogID *int64") || !strings.Contains(code, "if m.Blog != nil {") {
		t.Error("Create should extract the foreign key from the embedded struct")
	}
	if !strings.Contains(code, ".Scan(&m.ID)") {
		t.Error("Create should scan the generated id")
	}
}

func TestGenerateService_GetHydratesRelations(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Post"], Options{ModulePath: "example.com/app"})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if !strings.Contains(code, "SELECT id, title, created_by, created_date, last_modified_by, last_modified_date, blog_id FROM posts WHERE id = $1") {
		t.Error("Get should select every column")
	}
	if !strings.Contains(code, "m.Blog = &models.Blog{ID: *blogID}") {
		t.Error("Get should hydrate a shallow embedded struct from the foreign key")
	}
}

func TestGenerateService_IDPayloadsSkipTemps(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Post"], Options{
		ModulePath:  "example.com/app",
		PayloadMode: PayloadIDs,
	})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if strings.Contains(code, "var blogID *int64") {
		t.Error("Id payloads should scan directly into the model")
	}
	if !strings.Contains(code, "&m.BlogID") {
		t.Error("Id payloads should use the flattened foreign key field")
	}
}

func TestGenerateService_ListAndCount(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Blog"], Options{ModulePath: "example.com/app"})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if !strings.Contains(code, "func (s *BlogService) List(ctx context.Context, limit, offset int) ([]*models.Blog, error) {") {
		t.Error("Generated code should contain the List method")
	}
	if !strings.Contains(code, "ORDER BY id LIMIT $1 OFFSET $2") {
		t.Error("List should page by id")
	}
	if !strings.Contains(code, "SELECT count(*) FROM blogs") {
		t.Error("Generated code should contain the Count query")
	}
	if !strings.Contains(code, "return out, rows.Err()") {
		t.Error("List should surface row iteration errors")
	}
}

func TestGenerateService_UpdateAndDelete(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Blog"], Options{ModulePath: "example.com/app"})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if !strings.Contains(code, "UPDATE blogs SET name = $1, created_by = $2, created_date = $3, last_modified_by = $4, last_modified_date = $5 WHERE id = $6") {
		t.Error("Update should set every column keyed by id")
	}
	if !strings.Contains(code, "m.LastModifiedDate = &now") {
		t.Error("Update should refresh the last modified date")
	}
	if !strings.Contains(code, "DELETE FROM blogs WHERE id = $1") {
		t.Error("Generated code should contain the Delete query")
	}
}

func TestGenerateService_JoinAccessors(t *testing.T) {
	schema := parseSchema(t, blogSource)

	gen := NewGenerator()
	code, err := gen.GenerateService(schema, schema.Entities["Post"], Options{ModulePath: "example.com/app"})
	if err != nil {
		t.Fatalf("GenerateService failed: %v", err)
	}

	if !strings.Contains(code, "func (s *PostService) SetTags(ctx context.Context, id int64, targetIDs []int64) error {") {
		t.Error("Generated code should contain the join setter")
	}
	if !strings.Contains(code, "DELETE FROM post_tag WHERE post_id = $1") {
		t.Error("SetTags should clear existing links")
	}
	if !strings.Contains(code, "INSERT INTO post_tag (post_id, tag_id) VALUES ($1, $2)") {
		t.Error("SetTags should insert the new links")
	}
	if !strings.Contains(code, "func (s *PostService) TagIDs(ctx context.Context, id int64) ([]int64, error) {") {
		t.Error("Generated code should contain the join lister")
	}
	if !strings.Contains(code, "SELECT tag_id FROM post_tag WHERE post_id = $1 ORDER BY tag_id") {
		t.Error("TagIDs should order deterministically")
	}
}

func TestJoinTable(t *testing.T) {
	schema := parseSchema(t, `
entity Tag { label String }
entity Post { title String }
entity Employee { name String }

relationship ManyToMany {
  Tag{posts} to Post{tags}
}

relationship ManyToMany {
  Employee{colleagues} to Employee{colleagues}
}
`)

	// Both sides of a pair derive the same table.
	tag := schema.Entities["Tag"].Field("posts")
	table, local, remote := joinTable("Tag", tag, nil)
	if table != "post_tag" || local != "tag_id" || remote != "post_id" {
		t.Errorf("joinTable(Tag.posts) = %s/%s/%s", table, local, remote)
	}

	post := schema.Entities["Post"].Field("tags")
	table, local, remote = joinTable("Post", post, nil)
	if table != "post_tag" || local != "post_id" || remote != "tag_id" {
		t.Errorf("joinTable(Post.tags) = %s/%s/%s", table, local, remote)
	}

	// A self referential field gets its own table named after the field.
	emp := schema.Entities["Employee"].Field("colleagues")
	table, local, remote = joinTable("Employee", emp, nil)
	if table != "employee_colleagues" || local != "employee_id" || remote != "colleague_id" {
		t.Errorf("joinTable(Employee.colleagues) = %s/%s/%s", table, local, remote)
	}
}

func TestOwnsColumn_OneToOneTieBreak(t *testing.T) {
	schema := parseSchema(t, `
entity Citizen { name String }
entity Passport { number String }

relationship OneToOne {
  Citizen{passport} to Passport{owner}
}
`)

	citizen := schema.Entities["Citizen"]
	passport := schema.Entities["Passport"]

	if !ownsColumn(schema, citizen, citizen.Field("passport")) {
		t.Error("the side that sorts first should own the column")
	}
	if ownsColumn(schema, passport, passport.Field("owner")) {
		t.Error("the reciprocal side should not own a second column")
	}
}

func TestOwnsColumn_OneToOneWithoutBackref(t *testing.T) {
	schema := parseSchema(t, `
entity Passport { number String }
entity Citizen { name String }

relationship OneToOne {
  Passport{holder} to Citizen
}
`)

	passport := schema.Entities["Passport"]
	if !ownsColumn(schema, passport, passport.Field("holder")) {
		t.Error("a one-sided relationship always owns its column")
	}
}
