package commands

import (
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blueprint-gen/blueprint/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blueprint",
		Short: "JDL schema compiler and application generator",
		Long: color.CyanString(`Blueprint - Schema-First Application Generator

Blueprint reads JDL entity definitions and generates a complete Go
application: models, services, REST handlers, HTML views, SQL
migrations, and fixtures.

Features:
  • Lenient single-pass parsing with diagnostics
  • Bidirectional relationship materialization
  • Audit field and primary key injection
  • Postgres migrations with join tables
  • Canonical JDL formatting
  • Live preview with hot reload`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewFmtCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewPreviewCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewLSPCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the Blueprint version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(os.Stdout, color.NoColor)
			table.AddRow("Blueprint version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
