package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindJDLFiles recursively finds all .jdl files in the specified directory,
// sorted by path so file order is stable across runs.
func FindJDLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		// Check if file has .jdl extension
		if filepath.Ext(path) == ".jdl" {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Bundle is the concatenation of several JDL source files. Declarations may
// reference each other across files, so the parser sees one combined text;
// the bundle remembers where each file starts so line numbers in diagnostics
// can be mapped back to the file they came from.
type Bundle struct {
	// Text is the combined source, files in order, each newline-terminated.
	Text string

	spans []span
}

type span struct {
	path  string
	start int // 1-based first line of this file within Text
	lines int
}

// ReadBundle reads paths in order and joins their contents. Files that do
// not end in a newline get one so the next file starts on a fresh line and
// line counting stays exact.
func ReadBundle(paths []string) (*Bundle, error) {
	var combined strings.Builder
	bundle := &Bundle{}
	line := 1

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		text := string(content)
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}

		n := strings.Count(text, "\n")
		bundle.spans = append(bundle.spans, span{path: path, start: line, lines: n})
		line += n
		combined.WriteString(text)
	}

	bundle.Text = combined.String()
	return bundle, nil
}

// Files returns the bundled paths in order.
func (b *Bundle) Files() []string {
	paths := make([]string, len(b.spans))
	for i, s := range b.spans {
		paths[i] = s.path
	}
	return paths
}

// Resolve maps a 1-based line in the combined text to the originating file
// and the line within it. Out-of-range lines clamp to the nearest file so a
// diagnostic always lands somewhere visible.
func (b *Bundle) Resolve(line int) (string, int) {
	if len(b.spans) == 0 {
		return "", line
	}
	if line < 1 {
		line = 1
	}

	current := b.spans[0]
	for _, s := range b.spans {
		if s.start > line {
			break
		}
		current = s
	}
	return current.path, line - current.start + 1
}
