package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/format"
	"github.com/blueprint-gen/blueprint/internal/utils"
)

var (
	fmtInput string
	fmtCheck bool
	fmtDiff  bool
)

// NewFmtCommand creates the fmt command
func NewFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format JDL source files",
		Long: `Rewrite .jdl files into a canonical layout: one field per line with
aligned types, one enum value per line, canonical relationship casing.

Comments survive, and lines the parser would drop pass through
untouched, so formatting never changes the schema or the diagnostics.
Indentation and alignment can be tuned in the format section of
blueprint.yml.

With no arguments, every .jdl file in the input directory is
formatted in place.`,
		Example: `  # Format the project's JDL sources in place
  blueprint fmt

  # Format specific files
  blueprint fmt jdl/app.jdl jdl/billing.jdl

  # Exit non-zero if anything is unformatted, without writing
  blueprint fmt --check

  # Show what would change
  blueprint fmt --diff`,
		RunE: runFmt,
	}

	cmd.Flags().StringVarP(&fmtInput, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().BoolVar(&fmtCheck, "check", false, "List unformatted files and exit non-zero instead of rewriting")
	cmd.Flags().BoolVar(&fmtDiff, "diff", false, "Print a unified diff instead of rewriting")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		cfg, _ := config.Load()

		inputDir := fmtInput
		if inputDir == "" {
			inputDir = "jdl"
			if cfg != nil && cfg.Input != "" {
				inputDir = cfg.Input
			}
		}

		if _, err := os.Stat(inputDir); os.IsNotExist(err) {
			return fmt.Errorf("%s/ directory not found - are you in a Blueprint project?", inputDir)
		}
		found, err := utils.FindJDLFiles(inputDir)
		if err != nil {
			return fmt.Errorf("failed to find .jdl files: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("no .jdl files found in %s/", inputDir)
		}
		files = found
	}

	fmtCfg, err := format.LoadConfig("blueprint.yml")
	if err != nil {
		return fmt.Errorf("failed to load format config: %w", err)
	}
	formatter := format.New(fmtCfg)

	changed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		formatted, err := formatter.Format(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if formatted == string(data) {
			continue
		}
		changed++

		switch {
		case fmtDiff:
			fmt.Fprint(cmd.OutOrStdout(), format.Diff(string(data), formatted).UnifiedDiff(path))
		case fmtCheck:
			fmt.Fprintln(cmd.OutOrStdout(), path)
		default:
			if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	if fmtCheck && changed > 0 {
		return fmt.Errorf("%d file(s) not formatted", changed)
	}
	if fmtCheck || fmtDiff {
		if changed == 0 {
			color.New(color.FgGreen, color.Bold).Printf("✓ All %d file(s) formatted\n", len(files))
		}
		return nil
	}

	color.New(color.FgGreen, color.Bold).Printf("✓ Formatted %d file(s), %d changed\n", len(files), changed)
	return nil
}
