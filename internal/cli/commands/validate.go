package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/cli/ui"
)

var (
	validateInput  string
	validateJSON   bool
	validateStrict bool
)

// validationReport is the machine-readable shape emitted by --json.
type validationReport struct {
	Valid       bool               `json:"valid"`
	Files       []string           `json:"files"`
	Entities    []string           `json:"entities"`
	Enums       []string           `json:"enums"`
	Diagnostics []sourceDiagnostic `json:"diagnostics"`
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse JDL sources and report diagnostics",
		Long: `Parse all .jdl files in the input directory and report every construct
the parser had to drop or tolerate, without generating anything.

Parsing is lenient: unparseable lines become diagnostics, not failures.
The command exits non-zero only when an error-level diagnostic is found,
or when --strict is set and any diagnostic is found.`,
		Example: `  # Validate the project's JDL sources
  blueprint validate

  # Fail on warnings too
  blueprint validate --strict

  # Machine-readable output for editors and CI
  blueprint validate --json`,
		RunE: runValidate,
	}

	cmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit non-zero on any diagnostic, not just errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()

	inputDir := validateInput
	if inputDir == "" {
		inputDir = "jdl"
		if cfg != nil && cfg.Input != "" {
			inputDir = cfg.Input
		}
	}

	bundle, err := readSources(inputDir)
	if err != nil {
		return err
	}

	opts := generationOptions(cfg)
	schema, diags := parseSources(bundle, opts.PluralOverrides)

	errorCount := 0
	for _, d := range diags {
		if d.Severity == jdl.Error {
			errorCount++
		}
	}
	valid := errorCount == 0 && (!validateStrict || len(diags) == 0)

	if validateJSON {
		report := validationReport{
			Valid:       valid,
			Files:       bundle.Files(),
			Entities:    schema.EntityNames(),
			Enums:       schema.EnumNames(),
			Diagnostics: diags,
		}
		if report.Diagnostics == nil {
			report.Diagnostics = []sourceDiagnostic{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if !valid {
			return fmt.Errorf("validation failed with %d diagnostic(s)", len(diags))
		}
		return nil
	}

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	infoColor.Printf("Parsed %d file(s): %d entities, %d enums\n", len(bundle.Files()), len(schema.Entities), len(schema.Enums))

	if len(diags) == 0 {
		successColor.Println("✓ No diagnostics")
		return nil
	}

	fmt.Println()
	table := ui.NewTable(os.Stdout, []string{"LINE", "FILE", "SEVERITY", "CODE", "MESSAGE"}, &ui.TableOptions{NoColor: color.NoColor})
	for _, d := range diags {
		table.AddRow(strconv.Itoa(d.Line), d.File, d.Severity.String(), d.Code, d.Message)
	}
	table.Render()

	// Unknown entity names get spelling suggestions against the parsed schema.
	for _, d := range diags {
		if d.Code != jdl.CodeUnknownEntity {
			continue
		}
		name := quotedName(d.Message)
		if name == "" {
			continue
		}
		suggestions := ui.FindSimilar(name, schema.EntityNames(), nil)
		fmt.Println()
		fmt.Print(ui.UnknownEntityError(d.Message, suggestions, color.NoColor))
	}

	if !valid {
		return fmt.Errorf("validation failed with %d diagnostic(s)", len(diags))
	}

	fmt.Println()
	successColor.Printf("✓ Valid with %d warning(s)\n", len(diags))
	return nil
}

// quotedName extracts the first double-quoted token from a diagnostic message.
func quotedName(message string) string {
	_, rest, ok := strings.Cut(message, `"`)
	if !ok {
		return ""
	}
	name, _, ok := strings.Cut(rest, `"`)
	if !ok {
		return ""
	}
	return name
}
