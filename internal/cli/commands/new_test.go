package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	testCases := []struct {
		name        string
		projectName string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid name",
			projectName: "my-blog",
			expectError: false,
		},
		{
			name:        "valid name with underscores",
			projectName: "my_blog",
			expectError: false,
		},
		{
			name:        "valid name alphanumeric",
			projectName: "myblog123",
			expectError: false,
		},
		{
			name:        "empty string",
			projectName: "",
			expectError: true,
			errorMsg:    "must be 1-100 characters",
		},
		{
			name:        "whitespace only",
			projectName: "   ",
			expectError: true,
			errorMsg:    "must be 1-100 characters",
		},
		{
			name:        "too long",
			projectName: strings.Repeat("a", 101),
			expectError: true,
			errorMsg:    "must be 1-100 characters",
		},
		{
			name:        "contains slash",
			projectName: "my/blog",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "contains backslash",
			projectName: "my\\blog",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "contains dot",
			projectName: "my.blog",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "path traversal attempt",
			projectName: "../malicious",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "absolute path",
			projectName: "/usr/bin/malware",
			expectError: true,
			errorMsg:    "cannot be an absolute path",
		},
		{
			name:        "contains special chars",
			projectName: "my@blog!",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProjectName(tc.projectName)

			if tc.expectError {
				if err == nil {
					t.Errorf("expected error for project name %q, got nil", tc.projectName)
				} else if tc.errorMsg != "" && !strings.Contains(err.Error(), tc.errorMsg) {
					t.Errorf("expected error to contain %q, got %q", tc.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error for project name %q, got %v", tc.projectName, err)
				}
			}
		})
	}
}

func TestNewNewCommand(t *testing.T) {
	cmd := NewNewCommand()

	if cmd.Use != "new [project-name]" {
		t.Errorf("expected Use to be 'new [project-name]', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	// Check flags are registered
	if cmd.Flags().Lookup("interactive") == nil {
		t.Error("expected --interactive flag to be registered")
	}

	if cmd.Flags().Lookup("module") == nil {
		t.Error("expected --module flag to be registered")
	}

	if cmd.Flags().Lookup("database") == nil {
		t.Error("expected --database flag to be registered")
	}

	if cmd.Flags().Lookup("port") == nil {
		t.Error("expected --port flag to be registered")
	}
}

func TestRunNew_DirectoryAlreadyExists(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()

	// Create a subdirectory that will conflict
	existingDir := tmpDir + "/existing-blog"
	if err := os.MkdirAll(existingDir, 0755); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}

	// Change to temp directory
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Try to create project with same name
	cmd := NewNewCommand()
	err := runNew(cmd, []string{"existing-blog"})

	if err == nil {
		t.Error("expected error when directory already exists, got nil")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected 'already exists' error, got: %v", err)
	}
}

func TestRunNew_InvalidProjectName(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	testCases := []struct {
		name        string
		projectName string
	}{
		{"with slash", "my/blog"},
		{"with dots", "my.blog"},
		{"absolute path", "/tmp/blog"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewNewCommand()
			err := runNew(cmd, []string{tc.projectName})

			if err == nil {
				t.Errorf("expected error for project name %q, got nil", tc.projectName)
			}
		})
	}
}

func TestRunNew_ValidProjectCreation(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Create a valid project
	cmd := NewNewCommand()
	err := runNew(cmd, []string{"test-blog"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verify directory structure
	expectedDirs := []string{
		"test-blog",
		"test-blog/jdl",
		"test-blog/gen",
	}

	for _, dir := range expectedDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	// Verify files
	expectedFiles := []string{
		"test-blog/jdl/app.jdl",
		"test-blog/.gitignore",
		"test-blog/blueprint.yml",
		"test-blog/README.md",
	}

	for _, file := range expectedFiles {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", file)
		}
	}

	// The sample schema should parse without being empty
	content, err := os.ReadFile("test-blog/jdl/app.jdl")
	if err != nil {
		t.Fatalf("failed to read generated schema: %v", err)
	}
	if !strings.Contains(string(content), "entity") {
		t.Error("expected sample schema to declare at least one entity")
	}
}

func TestRunNew_ListTemplates(t *testing.T) {
	cmd := NewNewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Flags().Set("list-templates", "true"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if err := runNew(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"minimal", "blog", "shop"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("expected starter %q in listing:\n%s", name, out.String())
		}
	}
}

func TestRunNew_ShopTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := NewNewCommand()
	if err := cmd.Flags().Set("template", "shop"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if err := runNew(cmd, []string{"my-shop"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, file := range []string{"my-shop/jdl/catalog.jdl", "my-shop/jdl/orders.jdl"} {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", file)
		}
	}

	// The starter's plural override lands in the project config.
	cfg, err := os.ReadFile("my-shop/blueprint.yml")
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(cfg), "plural_overrides:") {
		t.Errorf("expected plural_overrides section in config:\n%s", cfg)
	}
	if !strings.Contains(string(cfg), "Inventory: Inventory") {
		t.Errorf("expected Inventory override in config:\n%s", cfg)
	}
}

func TestRunNew_UnknownTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := NewNewCommand()
	if err := cmd.Flags().Set("template", "blgo"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	err := runNew(cmd, []string{"typo-project"})
	if err == nil {
		t.Fatal("expected error for unknown template, got nil")
	}
	if !strings.Contains(err.Error(), `unknown template "blgo"`) {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "blog") {
		t.Errorf("expected a suggestion for 'blog', got: %v", err)
	}
	if _, statErr := os.Stat("typo-project"); !os.IsNotExist(statErr) {
		t.Error("failed run must not leave a project directory behind")
	}
}
