package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/codegen"
)

func TestReadSources_MissingDir(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := readSources(filepath.Join(tmpDir, "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
	if !strings.Contains(err.Error(), "directory not found") {
		t.Errorf("expected 'directory not found' error, got: %v", err)
	}
}

func TestReadSources_NoFiles(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := readSources(tmpDir)
	if err == nil {
		t.Fatal("expected error for empty directory, got nil")
	}
	if !strings.Contains(err.Error(), "no .jdl files found") {
		t.Errorf("expected 'no .jdl files found' error, got: %v", err)
	}
}

func TestReadSources_CombinesFiles(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.jdl")
	fileB := filepath.Join(tmpDir, "b.jdl")
	if err := os.WriteFile(fileA, []byte("entity Blog {\n  name String\n}\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(fileB, []byte("entity Post {\n  title String\n}\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	bundle, err := readSources(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files := bundle.Files()
	if len(files) != 2 {
		t.Fatalf("expected 2 files in bundle, got %d", len(files))
	}
	if files[0] != fileA || files[1] != fileB {
		t.Errorf("expected files in sorted order, got %v", files)
	}

	if !strings.Contains(bundle.Text, "entity Blog") || !strings.Contains(bundle.Text, "entity Post") {
		t.Error("expected combined text to contain both files")
	}
}

func TestParseSources_AttributesDiagnostics(t *testing.T) {
	tmpDir := t.TempDir()

	// a.jdl occupies bundle lines 1-3, b.jdl starts at line 4
	fileA := filepath.Join(tmpDir, "a.jdl")
	fileB := filepath.Join(tmpDir, "b.jdl")
	if err := os.WriteFile(fileA, []byte("entity Blog {\n  name String\n}\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(fileB, []byte("entity Post {\n  !!!bad line\n  title String\n}\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	bundle, err := readSources(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema, diags := parseSources(bundle, nil)

	if len(schema.Entities) != 2 {
		t.Errorf("expected 2 entities, got %d", len(schema.Entities))
	}

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}

	d := diags[0]
	if d.Code != "entity-line-dropped" {
		t.Errorf("expected code 'entity-line-dropped', got %q", d.Code)
	}
	if d.File != fileB {
		t.Errorf("expected diagnostic attributed to %s, got %s", fileB, d.File)
	}
	if d.Line != 2 {
		t.Errorf("expected file-local line 2, got %d", d.Line)
	}
}

func TestGenerationOptions(t *testing.T) {
	cfg := &config.Config{
		ProjectName: "myblog",
		Module:      "example.com/myblog",
		PayloadMode: "ids",
	}

	opts := generationOptions(cfg)

	if opts.AppName != "myblog" {
		t.Errorf("expected AppName 'myblog', got %q", opts.AppName)
	}
	if opts.ModulePath != "example.com/myblog" {
		t.Errorf("expected ModulePath 'example.com/myblog', got %q", opts.ModulePath)
	}
	if opts.PayloadMode != codegen.PayloadIDs {
		t.Errorf("expected payload mode ids, got %q", opts.PayloadMode)
	}
}

func TestGenerationOptionsDefaults(t *testing.T) {
	opts := generationOptions(nil)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	want := filepath.Base(cwd)
	if opts.AppName != want {
		t.Errorf("expected AppName to fall back to %q, got %q", want, opts.AppName)
	}
	if opts.ModulePath != want {
		t.Errorf("expected ModulePath to fall back to %q, got %q", want, opts.ModulePath)
	}
	if opts.PayloadMode != "" {
		t.Errorf("expected empty payload mode, got %q", opts.PayloadMode)
	}
}

func TestGenerateCycle(t *testing.T) {
	tmpDir := t.TempDir()

	inputDir := filepath.Join(tmpDir, "jdl")
	outputDir := filepath.Join(tmpDir, "gen")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}

	source := "entity Blog {\n  name String required\n}\n"
	if err := os.WriteFile(filepath.Join(inputDir, "app.jdl"), []byte(source), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	schema, diags, result, err := generateCycle(inputDir, outputDir, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(schema.Entities) != 1 {
		t.Errorf("expected 1 entity, got %d", len(schema.Entities))
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(diags))
	}
	if len(result.Written) == 0 {
		t.Error("expected files to be written")
	}

	// Running the same cycle again should report everything unchanged
	_, _, second, err := generateCycle(inputDir, outputDir, nil, false)
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if len(second.Written) != 0 {
		t.Errorf("expected no writes on identical rerun, got %d", len(second.Written))
	}
	if len(second.Unchanged) != len(result.Written) {
		t.Errorf("expected %d unchanged files, got %d", len(result.Written), len(second.Unchanged))
	}
}
