package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	"github.com/blueprint-gen/blueprint/internal/docs"
)

var (
	exportInput  string
	exportFormat string
	exportOut    string
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the materialized schema as JSON, YAML, OpenAPI or Markdown",
		Long: `Parse the JDL sources, materialize the schema (audit fields, ids, and
both relationship sides included), and write it as a structured document.

The json and yaml formats carry the same metadata the generator embeds in
the output project, so external tools see exactly what the generated code
sees. The openapi format renders an OpenAPI 3.0 description of the REST
API the generated project serves, and markdown renders a human-readable
reference document.`,
		Example: `  # Print the schema as JSON
  blueprint export

  # Write YAML to a file
  blueprint export --format yaml --out schema.yml

  # Describe the generated REST API
  blueprint export --format openapi --out openapi.json
  blueprint export --format markdown --out API.md`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportInput, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, yaml, openapi or markdown")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json", "yaml", "openapi", "markdown":
	default:
		return fmt.Errorf("unsupported format %q (expected json, yaml, openapi or markdown)", exportFormat)
	}

	cfg, _ := config.Load()

	inputDir := exportInput
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

	if len(diags) > 0 {
		color.New(color.FgYellow).Fprintf(os.Stderr, "Parsed with %d diagnostic(s) - run 'blueprint validate' for details\n", len(diags))
	}

	meta := codegen.BuildMetadata(schema, opts)

	var data []byte
	switch exportFormat {
	case "json":
		data, err = json.MarshalIndent(meta, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = yaml.Marshal(meta)
	case "openapi":
		g := &docs.OpenAPIGenerator{
			PayloadMode:     opts.PayloadMode,
			PluralOverrides: opts.PluralOverrides,
		}
		data, err = g.Generate(meta)
	case "markdown":
		g := &docs.MarkdownGenerator{PluralOverrides: opts.PluralOverrides}
		data, err = g.Generate(meta)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize schema: %w", err)
	}

	if exportOut != "" {
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		color.New(color.FgGreen, color.Bold).Printf("✓ Exported %d entities to %s\n", len(meta.Entities), exportOut)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
