package jdl

import (
	"testing"
)

func twoEntitySchema(t *testing.T, names ...string) *Schema {
	t.Helper()
	schema := NewSchema()
	for _, n := range names {
		schema.Entities[n] = &Entity{Name: n, Fields: []*Field{{Name: "id", Type: "Long", Nullable: true}}}
	}
	return schema
}

// TestMaterializeOneToMany tests both sides of a one-to-many
func TestMaterializeOneToMany(t *testing.T) {
	t.Run("named_fields", func(t *testing.T) {
		schema := twoEntitySchema(t, "Owner", "Car")
		materialize(schema, []Relationship{{Type: OneToMany, From: "Owner", To: "Car", FromField: "cars", ToField: "owner"}}, nil, &collector{})

		checkRelField(t, schema.Entities["Owner"], "cars", OneToMany, "Car")
		checkRelField(t, schema.Entities["Car"], "owner", ManyToOne, "Owner")
	})

	t.Run("default_names", func(t *testing.T) {
		schema := twoEntitySchema(t, "Owner", "Car")
		materialize(schema, []Relationship{{Type: OneToMany, From: "Owner", To: "Car"}}, nil, &collector{})

		checkRelField(t, schema.Entities["Owner"], "cars", OneToMany, "Car")
		// The many side always gets its back-reference.
		checkRelField(t, schema.Entities["Car"], "owner", ManyToOne, "Owner")
	})

	t.Run("collection_flags", func(t *testing.T) {
		schema := twoEntitySchema(t, "Owner", "Car")
		materialize(schema, []Relationship{{Type: OneToMany, From: "Owner", To: "Car"}}, nil, &collector{})

		if !schema.Entities["Owner"].Field("cars").IsCollection() {
			t.Error("one side should hold a collection")
		}
		if schema.Entities["Car"].Field("owner").IsCollection() {
			t.Error("many side should hold a single reference")
		}
	})
}

// TestMaterializeManyToOne tests the conditional back-reference
func TestMaterializeManyToOne(t *testing.T) {
	t.Run("no_backref_by_default", func(t *testing.T) {
		schema := twoEntitySchema(t, "Car", "Owner")
		materialize(schema, []Relationship{{Type: ManyToOne, From: "Car", To: "Owner"}}, nil, &collector{})

		checkRelField(t, schema.Entities["Car"], "owner", ManyToOne, "Owner")
		if len(schema.Entities["Owner"].RelationshipFields()) != 0 {
			t.Error("owner should have no back-reference without a named toField")
		}
	})

	t.Run("named_backref", func(t *testing.T) {
		schema := twoEntitySchema(t, "Car", "Owner")
		materialize(schema, []Relationship{{Type: ManyToOne, From: "Car", To: "Owner", ToField: "cars"}}, nil, &collector{})

		checkRelField(t, schema.Entities["Car"], "owner", ManyToOne, "Owner")
		checkRelField(t, schema.Entities["Owner"], "cars", OneToMany, "Car")
	})
}

// TestMaterializeOneToOne tests the conditional inverse side
func TestMaterializeOneToOne(t *testing.T) {
	t.Run("forward_only", func(t *testing.T) {
		schema := twoEntitySchema(t, "User", "Profile")
		materialize(schema, []Relationship{{Type: OneToOne, From: "User", To: "Profile"}}, nil, &collector{})

		checkRelField(t, schema.Entities["User"], "profile", OneToOne, "Profile")
		if len(schema.Entities["Profile"].RelationshipFields()) != 0 {
			t.Error("inverse side should only exist when named")
		}
	})

	t.Run("both_sides", func(t *testing.T) {
		schema := twoEntitySchema(t, "User", "Profile")
		materialize(schema, []Relationship{{Type: OneToOne, From: "User", To: "Profile", ToField: "user"}}, nil, &collector{})

		checkRelField(t, schema.Entities["User"], "profile", OneToOne, "Profile")
		checkRelField(t, schema.Entities["Profile"], "user", OneToOne, "User")
	})
}

// TestMaterializeManyToMany tests that both sides get collections
func TestMaterializeManyToMany(t *testing.T) {
	schema := twoEntitySchema(t, "Post", "Tag")
	materialize(schema, []Relationship{{Type: ManyToMany, From: "Post", To: "Tag"}}, nil, &collector{})

	checkRelField(t, schema.Entities["Post"], "tags", ManyToMany, "Tag")
	checkRelField(t, schema.Entities["Tag"], "posts", ManyToMany, "Post")
	if !schema.Entities["Post"].Field("tags").IsCollection() || !schema.Entities["Tag"].Field("posts").IsCollection() {
		t.Error("both many-to-many sides should be collections")
	}
}

// TestMaterializeDefaultNamesUseOverrides tests the override plumbing
func TestMaterializeDefaultNamesUseOverrides(t *testing.T) {
	schema := twoEntitySchema(t, "Team", "Person")
	overrides := map[string]string{"person": "people"}
	materialize(schema, []Relationship{{Type: OneToMany, From: "Team", To: "Person"}}, overrides, &collector{})

	checkRelField(t, schema.Entities["Team"], "people", OneToMany, "Person")
}

// TestMaterializeCollision tests the no-op rule for existing relationship fields
func TestMaterializeCollision(t *testing.T) {
	schema := twoEntitySchema(t, "Owner", "Car")
	rels := []Relationship{
		{Type: OneToMany, From: "Owner", To: "Car", FromField: "cars"},
		{Type: ManyToMany, From: "Owner", To: "Car", FromField: "cars"},
	}
	materialize(schema, rels, nil, &collector{})

	owner := schema.Entities["Owner"]
	count := 0
	for _, f := range owner.Fields {
		if f.Name == "cars" {
			count++
			if f.RelationshipType != OneToMany {
				t.Errorf("first materialization should win, got %s", f.RelationshipType)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one cars field, got %d", count)
	}
}

// TestMaterializeDeclaredFieldDoesNotBlock tests that only relationship
// fields participate in collision detection
func TestMaterializeDeclaredFieldDoesNotBlock(t *testing.T) {
	schema := twoEntitySchema(t, "Car", "Owner")
	schema.Entities["Car"].Fields = append(schema.Entities["Car"].Fields, &Field{Name: "owner", Type: "String", Nullable: true})

	materialize(schema, []Relationship{{Type: ManyToOne, From: "Car", To: "Owner"}}, nil, &collector{})

	rels := schema.Entities["Car"].RelationshipFields()
	if len(rels) != 1 || rels[0].Name != "owner" {
		t.Fatal("relationship field should be added alongside the declared scalar")
	}
}

// TestMaterializeUnknownEntity tests the skip-and-report path
func TestMaterializeUnknownEntity(t *testing.T) {
	schema := twoEntitySchema(t, "Owner")
	diags := &collector{}
	materialize(schema, []Relationship{
		{Type: OneToMany, From: "Owner", To: "Ghost"},
		{Type: OneToMany, From: "Phantom", To: "Owner"},
	}, nil, diags)

	if len(schema.Entities["Owner"].RelationshipFields()) != 0 {
		t.Error("no fields should be added for unknown targets")
	}
	if len(diags.items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags.items)
	}
	for _, d := range diags.items {
		if d.Code != CodeUnknownEntity {
			t.Errorf("expected %s, got %s", CodeUnknownEntity, d.Code)
		}
	}
}

// TestMaterializeSelfReference tests a relationship within one entity
func TestMaterializeSelfReference(t *testing.T) {
	schema := twoEntitySchema(t, "Employee")
	materialize(schema, []Relationship{{Type: OneToMany, From: "Employee", To: "Employee", FromField: "reports", ToField: "manager"}}, nil, &collector{})

	e := schema.Entities["Employee"]
	checkRelField(t, e, "reports", OneToMany, "Employee")
	checkRelField(t, e, "manager", ManyToOne, "Employee")
}

// TestMaterializedFieldShape tests the literal relationship type and flags
func TestMaterializedFieldShape(t *testing.T) {
	schema := twoEntitySchema(t, "Blog", "Post")
	materialize(schema, []Relationship{{Type: OneToMany, From: "Blog", To: "Post"}}, nil, &collector{})

	f := schema.Entities["Blog"].Field("posts")
	if f.Type != "relationship" {
		t.Errorf("expected literal type relationship, got %q", f.Type)
	}
	if f.Required || !f.Nullable {
		t.Error("materialized fields are optional and nullable")
	}
}
