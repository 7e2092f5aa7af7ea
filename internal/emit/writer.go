// Package emit writes generated file sets to disk. Writes run in parallel,
// unchanged files are left alone so editor watchers and build caches stay
// quiet, and a dry run reports what would change without touching anything.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer applies a generated file set under Root.
type Writer struct {
	// Root is the output directory. It is created if missing.
	Root string
	// DryRun reports the plan without writing anything.
	DryRun bool
	// Keep leaves files that differ from the generated content untouched
	// and records them as conflicts instead of overwriting.
	Keep bool
	// Workers bounds write parallelism. Zero means GOMAXPROCS.
	Workers int
}

// Result summarizes one apply: paths are relative to Root and sorted.
type Result struct {
	// Written lists files created or updated (or that would be, on dry run).
	Written []string
	// Unchanged lists files already identical to the generated content.
	Unchanged []string
	// Conflicts lists differing files left in place under Keep.
	Conflicts []string
}

// Summary renders the result in one line.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%d written, %d unchanged", len(r.Written), len(r.Unchanged))
	if len(r.Conflicts) > 0 {
		s += fmt.Sprintf(", %d conflicts", len(r.Conflicts))
	}
	return s
}

// WriteAll applies files (relative path to content) under the writer's root.
// On error the already written files stay in place; generation is expected to
// be rerunnable.
func (w *Writer) WriteAll(ctx context.Context, files map[string]string) (*Result, error) {
	if !w.DryRun {
		if err := os.MkdirAll(w.Root, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	workers := w.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		result Result
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for path, content := range files {
		path, content := path, content // per-loop range vars before go1.22
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			state, err := w.writeOne(path, []byte(content))
			if err != nil {
				return err
			}

			mu.Lock()
			switch state {
			case fileWritten:
				result.Written = append(result.Written, path)
			case fileUnchanged:
				result.Unchanged = append(result.Unchanged, path)
			case fileConflict:
				result.Conflicts = append(result.Conflicts, path)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Written)
	sort.Strings(result.Unchanged)
	sort.Strings(result.Conflicts)
	return &result, nil
}

type fileState int

const (
	fileWritten fileState = iota
	fileUnchanged
	fileConflict
)

// writeOne applies a single file and classifies the outcome.
func (w *Writer) writeOne(path string, content []byte) (fileState, error) {
	full, err := w.resolve(path)
	if err != nil {
		return 0, err
	}

	existing, err := os.ReadFile(full)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return fileUnchanged, nil
	case err == nil && w.Keep:
		return fileConflict, nil
	case err != nil && !os.IsNotExist(err):
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if w.DryRun {
		return fileWritten, nil
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return fileWritten, nil
}

// resolve joins path under Root and rejects escapes.
func (w *Writer) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid output path: %s escapes the output directory", path)
	}
	return filepath.Join(w.Root, clean), nil
}
