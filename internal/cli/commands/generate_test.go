package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	if cmd.Use != "generate" {
		t.Errorf("expected Use to be 'generate', got %s", cmd.Use)
	}

	// Check aliases
	found := false
	for _, alias := range cmd.Aliases {
		if alias == "g" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected alias 'g' to be registered")
	}

	// Check flags are registered
	expectedFlags := []string{
		"input",
		"output",
		"force",
		"dry-run",
		"verbose",
	}

	for _, flag := range expectedFlags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestDescribeSchema(t *testing.T) {
	schema := &jdl.Schema{
		Entities: map[string]*jdl.Entity{
			"Blog": {Name: "Blog"},
			"Post": {Name: "Post"},
		},
		Enums: map[string]*jdl.Enum{},
	}

	if got := describeSchema(schema); got != "2 entities" {
		t.Errorf("expected '2 entities', got %q", got)
	}

	schema.Enums["PostStatus"] = &jdl.Enum{Name: "PostStatus"}
	if got := describeSchema(schema); got != "2 entities, 1 enums" {
		t.Errorf("expected '2 entities, 1 enums', got %q", got)
	}
}

func TestRunGenerate_MissingInputDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := NewGenerateCommand()
	err := runGenerate(cmd, []string{})

	if err == nil {
		t.Fatal("expected error when input directory is missing, got nil")
	}
	if !strings.Contains(err.Error(), "directory not found") {
		t.Errorf("expected 'directory not found' error, got: %v", err)
	}
}

func TestRunGenerate_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	source := `entity Blog {
  name String required
  handle String
}

entity Post {
  title String required
}

relationship OneToMany {
  Blog{posts} to Post{blog}
}
`

	if err := os.MkdirAll("jdl", 0755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join("jdl", "app.jdl"), []byte(source), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	cmd := NewGenerateCommand()
	if err := runGenerate(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Spot-check the generated tree
	expectedFiles := []string{
		"gen/go.mod",
		"gen/main.go",
		"gen/models/blog.go",
		"gen/models/post.go",
		"gen/services/blog_service.go",
		"gen/handlers/post_handler.go",
		"gen/handlers/routes.go",
		"gen/migrations/001_init.up.sql",
		"gen/migrations/001_init.down.sql",
		"gen/metadata/schema.json",
	}

	for _, file := range expectedFiles {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", file)
		}
	}

	// The migration should create both entity tables
	up, err := os.ReadFile("gen/migrations/001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}
	if !strings.Contains(string(up), `CREATE TABLE "blogs"`) {
		t.Error("expected migration to create blogs table")
	}
	if !strings.Contains(string(up), `CREATE TABLE "posts"`) {
		t.Error("expected migration to create posts table")
	}
}

func TestRunGenerate_DryRunWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if err := os.MkdirAll("jdl", 0755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	source := "entity Blog {\n  name String required\n}\n"
	if err := os.WriteFile(filepath.Join("jdl", "app.jdl"), []byte(source), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	cmd := NewGenerateCommand()
	if err := cmd.Flags().Set("dry-run", "true"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if err := runGenerate(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat("gen/go.mod"); !os.IsNotExist(err) {
		t.Error("expected dry run to leave the output directory untouched")
	}
}
