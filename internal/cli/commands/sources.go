package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	"github.com/blueprint-gen/blueprint/internal/emit"
	"github.com/blueprint-gen/blueprint/internal/utils"
)

// sourceDiagnostic is a parser diagnostic attributed to the file it came
// from. Line is rewritten from the bundle-wide line to the file-local one.
type sourceDiagnostic struct {
	jdl.Diagnostic
	File string `json:"file"`
}

// readSources finds every .jdl file under dir and bundles them into one
// parse input.
func readSources(dir string) (*utils.Bundle, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s/ directory not found - are you in a Blueprint project?", dir)
	}

	files, err := utils.FindJDLFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find .jdl files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .jdl files found in %s/", dir)
	}

	return utils.ReadBundle(files)
}

// parseSources runs the parser over the bundle and attributes every
// diagnostic back to its file.
func parseSources(bundle *utils.Bundle, overrides map[string]string) (*jdl.Schema, []sourceDiagnostic) {
	parser := jdl.New(jdl.Options{PluralOverrides: overrides})
	schema, diags := parser.Parse(bundle.Text)

	attributed := make([]sourceDiagnostic, 0, len(diags))
	for _, d := range diags {
		file, line := bundle.Resolve(d.Line)
		d.Line = line
		attributed = append(attributed, sourceDiagnostic{Diagnostic: d, File: file})
	}

	return schema, attributed
}

// generationOptions builds emitter options from project configuration. The
// app name falls back to the working directory name, the module path to the
// app name.
func generationOptions(cfg *config.Config) codegen.Options {
	appName := ""
	if cfg != nil {
		appName = cfg.ProjectName
	}
	if appName == "" {
		if cwd, err := os.Getwd(); err == nil {
			appName = filepath.Base(cwd)
		} else {
			appName = "app"
		}
	}

	opts := codegen.Options{
		AppName:    appName,
		ModulePath: appName,
	}
	if cfg != nil {
		if cfg.Module != "" {
			opts.ModulePath = cfg.Module
		}
		opts.PayloadMode = codegen.PayloadMode(cfg.PayloadMode)
		opts.PluralOverrides = cfg.PluralOverrides
	}
	return opts
}

// generateCycle runs the full pipeline once: read, parse, render, write.
// Used by watch for each change batch.
func generateCycle(inputDir, outputDir string, cfg *config.Config, force bool) (*jdl.Schema, []sourceDiagnostic, *emit.Result, error) {
	bundle, err := readSources(inputDir)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := generationOptions(cfg)
	schema, diags := parseSources(bundle, opts.PluralOverrides)

	files, err := codegen.NewGenerator().GenerateProject(schema, opts)
	if err != nil {
		return schema, diags, nil, fmt.Errorf("code generation failed: %w", err)
	}

	writer := &emit.Writer{Root: outputDir, Keep: !force}
	result, err := writer.WriteAll(context.Background(), files)
	if err != nil {
		return schema, diags, nil, fmt.Errorf("failed to write generated files: %w", err)
	}

	return schema, diags, result, nil
}
