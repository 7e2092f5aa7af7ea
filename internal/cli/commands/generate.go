package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	"github.com/blueprint-gen/blueprint/internal/emit"
)

var (
	generateInput   string
	generateOutput  string
	generateForce   bool
	generateDryRun  bool
	generateVerbose bool
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate an application from JDL sources",
		Long: `Read all .jdl files in the input directory and generate a complete
application into the output directory.

The generation process:
  1. Parsing - extract enums, entities, and relationships
  2. Materialization - inject ids, audit fields, and both relationship sides
  3. Rendering - models, services, handlers, views, migrations, fixtures
  4. Writing - diff-aware file emission (unchanged files are left alone)

Files you have edited are overwritten only with --force; without it they
are reported as conflicts and kept.`,
		Example: `  # Generate with settings from blueprint.yml
  blueprint generate

  # Generate from a specific directory into a specific directory
  blueprint generate --input schema --output app

  # Show the plan without writing anything
  blueprint g --dry-run

  # Overwrite locally modified files
  blueprint generate --force`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&generateInput, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: from config)")
	cmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite files that differ from the generated content")
	cmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Report what would be written without touching disk")
	cmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Show each generated file")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	warningColor := color.New(color.FgYellow)

	// Load config
	cfg, err := config.Load()
	if err != nil {
		if generateVerbose {
			warningColor.Printf("Warning: %v\n", err)
		}
	}

	inputDir := generateInput
	if inputDir == "" {
		inputDir = "jdl"
		if cfg != nil && cfg.Input != "" {
			inputDir = cfg.Input
		}
	}

	outputDir := generateOutput
	if outputDir == "" {
		outputDir = "gen"
		if cfg != nil && cfg.Output != "" {
			outputDir = cfg.Output
		}
	}

	// Read and parse sources
	bundle, err := readSources(inputDir)
	if err != nil {
		return err
	}

	if generateVerbose {
		infoColor.Printf("Found %d .jdl file(s)\n", len(bundle.Files()))
	}

	opts := generationOptions(cfg)
	schema, diags := parseSources(bundle, opts.PluralOverrides)

	if len(diags) > 0 {
		warningColor.Printf("Parsed with %d diagnostic(s) - run 'blueprint validate' for details\n", len(diags))
		if generateVerbose {
			for _, d := range diags {
				warningColor.Printf("  %s:%d %s\n", d.File, d.Line, d.Message)
			}
		}
	}

	if len(schema.Entities) == 0 {
		return fmt.Errorf("no entities found in %s/", inputDir)
	}

	if generateVerbose {
		infoColor.Printf("Parsed %d entities and %d enums\n", len(schema.Entities), len(schema.Enums))
	}

	// Render all output files
	gen := codegen.NewGenerator()
	files, err := gen.GenerateProject(schema, opts)
	if err != nil {
		return fmt.Errorf("code generation failed: %w", err)
	}

	// Write the file set
	writer := &emit.Writer{
		Root:   outputDir,
		DryRun: generateDryRun,
		Keep:   !generateForce,
	}

	result, err := writer.WriteAll(context.Background(), files)
	if err != nil {
		return fmt.Errorf("failed to write generated files: %w", err)
	}

	if generateVerbose || generateDryRun {
		for _, path := range result.Written {
			infoColor.Printf("  Generated %s\n", path)
		}
		for _, path := range result.Unchanged {
			fmt.Printf("  Unchanged %s\n", path)
		}
	}

	for _, path := range result.Conflicts {
		warningColor.Printf("  Conflict %s (edited locally, use --force to overwrite)\n", path)
	}

	elapsed := time.Since(startTime)
	fmt.Println()
	if generateDryRun {
		infoColor.Printf("Dry run: %s\n", result.Summary())
		return nil
	}

	successColor.Printf("✓ Generated %s in %.2fs (%s)\n", describeSchema(schema), elapsed.Seconds(), result.Summary())
	infoColor.Printf("  Output: %s/\n", outputDir)

	return nil
}

// describeSchema summarizes a schema for the success line.
func describeSchema(schema *jdl.Schema) string {
	s := fmt.Sprintf("%d entities", len(schema.Entities))
	if len(schema.Enums) > 0 {
		s += fmt.Sprintf(", %d enums", len(schema.Enums))
	}
	return s
}
