package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blueprint-gen/blueprint/internal/cli/config"
	"github.com/blueprint-gen/blueprint/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		input  string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the application on every schema change",
		Long: `Watch the input directory for .jdl changes and regenerate the
application on every save.

Changes are debounced, so editors that write several times in a row
trigger a single regeneration. Parse diagnostics are reported per cycle
without stopping the watcher.`,
		Example: `  # Watch with settings from blueprint.yml
  blueprint watch

  # Watch a specific directory and overwrite edited output
  blueprint watch --input schema --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			successColor := color.New(color.FgGreen, color.Bold)
			warningColor := color.New(color.FgYellow)
			errorColor := color.New(color.FgRed, color.Bold)

			cfg, _ := config.Load()

			inputDir := input
			if inputDir == "" {
				inputDir = "jdl"
				if cfg != nil && cfg.Input != "" {
					inputDir = cfg.Input
				}
			}
			outputDir := output
			if outputDir == "" {
				outputDir = "gen"
				if cfg != nil && cfg.Output != "" {
					outputDir = cfg.Output
				}
			}

			if _, err := os.Stat(inputDir); os.IsNotExist(err) {
				return fmt.Errorf("%s/ directory not found - are you in a Blueprint project?", inputDir)
			}

			// One regeneration cycle. Failures are reported, not fatal:
			// the watcher keeps running so the next save can fix them.
			cycle := func(files []string) error {
				start := time.Now()

				schema, diags, result, err := generateCycle(inputDir, outputDir, cfg, force)
				if err != nil {
					errorColor.Printf("✗ %v\n", err)
					return nil
				}

				elapsed := time.Since(start)
				successColor.Printf("✓ Regenerated %s in %.2fs (%s)\n",
					describeSchema(schema), elapsed.Seconds(), result.Summary())

				if len(diags) > 0 {
					warningColor.Printf("  %d diagnostic(s) - run 'blueprint validate' for details\n", len(diags))
				}
				for _, path := range result.Conflicts {
					warningColor.Printf("  Conflict %s (edited locally, use --force to overwrite)\n", path)
				}
				return nil
			}

			// Initial generation before watching
			cycle(nil)

			watcher, err := watch.NewFileWatcher(
				inputDir,
				[]string{"*.jdl"},
				[]string{"*.swp", "*.swo", "*~", ".DS_Store"},
				cycle,
			)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			banner := color.New(color.FgCyan, color.Bold)
			fmt.Println()
			banner.Println("Blueprint watching for schema changes")
			color.New(color.FgWhite).Printf("   Input:  %s/\n", inputDir)
			color.New(color.FgWhite).Printf("   Output: %s/\n", outputDir)
			fmt.Println()
			color.New(color.FgYellow).Println("Press Ctrl+C to stop")
			fmt.Println()

			<-sigChan

			fmt.Println("\n\nShutting down...")

			if err := watcher.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default: from config)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that differ from the generated content")

	return cmd
}
