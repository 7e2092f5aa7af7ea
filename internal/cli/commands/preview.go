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
	"github.com/blueprint-gen/blueprint/internal/preview"
	"github.com/blueprint-gen/blueprint/internal/watch"
)

// NewPreviewCommand creates the preview command
func NewPreviewCommand() *cobra.Command {
	var (
		port      int
		host      string
		input     string
		withWatch bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live schema explorer in the browser",
		Long: `Start a local server with a browser view of the parsed schema: every
entity with its materialized fields, enums, relationships, and parse
diagnostics. Each entity links to a rendering of the form, list, and
detail scaffolds that generation would emit for it.

With --watch the sources are reparsed on every save and connected
browsers update immediately. Nothing is written to disk; use 'blueprint
watch' to regenerate code.`,
		Example: `  # Explore the schema at http://localhost:4000
  blueprint preview

  # Reparse and push updates on every save
  blueprint preview --watch

  # Custom port
  blueprint preview --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			infoColor := color.New(color.FgCyan)
			errorColor := color.New(color.FgRed, color.Bold)

			cfg, _ := config.Load()

			inputDir := input
			if inputDir == "" {
				inputDir = "jdl"
				if cfg != nil && cfg.Input != "" {
					inputDir = cfg.Input
				}
			}
			if !cmd.Flags().Changed("port") && cfg != nil && cfg.Server.Port != 0 {
				port = cfg.Server.Port
			}
			if !cmd.Flags().Changed("host") && cfg != nil && cfg.Server.Host != "" {
				host = cfg.Server.Host
			}

			if _, err := os.Stat(inputDir); os.IsNotExist(err) {
				return fmt.Errorf("%s/ directory not found - are you in a Blueprint project?", inputDir)
			}

			server := preview.NewServer(host, port)

			// Reparse the sources and push the result to browsers.
			refresh := func(files []string) error {
				if files != nil {
					server.Hub().NotifyParsing(files)
				}

				start := time.Now()
				bundle, err := readSources(inputDir)
				if err != nil {
					errorColor.Printf("✗ %v\n", err)
					server.Hub().NotifyError([]preview.Diagnostic{{
						Severity: "error",
						Message:  err.Error(),
					}})
					return nil
				}

				opts := generationOptions(cfg)
				schema, diags := parseSources(bundle, opts.PluralOverrides)

				server.Update(schema, opts, previewDiagnostics(diags), time.Since(start))
				infoColor.Printf("Schema updated: %d entities, %d enums, %d diagnostic(s)\n",
					len(schema.Entities), len(schema.Enums), len(diags))
				return nil
			}

			// Initial parse before serving
			refresh(nil)

			if err := server.Start(); err != nil {
				return err
			}

			var watcher *watch.FileWatcher
			if withWatch {
				var err error
				watcher, err = watch.NewFileWatcher(
					inputDir,
					[]string{"*.jdl"},
					[]string{"*.swp", "*.swo", "*~", ".DS_Store"},
					refresh,
				)
				if err != nil {
					server.Stop()
					return fmt.Errorf("failed to create watcher: %w", err)
				}
				if err := watcher.Start(); err != nil {
					server.Stop()
					return fmt.Errorf("failed to start watcher: %w", err)
				}
			}

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			banner := color.New(color.FgCyan, color.Bold)
			fmt.Println()
			banner.Println("Blueprint Schema Explorer")
			color.New(color.FgWhite).Printf("   http://%s\n", server.Addr())
			if withWatch {
				color.New(color.FgWhite).Printf("   Watching %s/ for changes\n", inputDir)
			}
			fmt.Println()
			color.New(color.FgYellow).Println("Press Ctrl+C to stop")
			fmt.Println()

			<-sigChan

			fmt.Println("\n\nShutting down...")

			if watcher != nil {
				watcher.Stop()
			}
			if err := server.Stop(); err != nil {
				return fmt.Errorf("error stopping preview server: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 4000, "Preview server port")
	cmd.Flags().StringVar(&host, "host", "localhost", "Preview server host")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input directory containing .jdl files (default: from config)")
	cmd.Flags().BoolVarP(&withWatch, "watch", "w", false, "Reparse on every change and push updates to browsers")

	return cmd
}

// previewDiagnostics converts attributed parse diagnostics to their wire form.
func previewDiagnostics(diags []sourceDiagnostic) []preview.Diagnostic {
	out := make([]preview.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, preview.Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
		})
	}
	return out
}
