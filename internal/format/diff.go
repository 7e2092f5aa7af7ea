package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiffResult pairs a source file with its formatted form.
type DiffResult struct {
	Original  string
	Formatted string
	Changed   bool
}

// Diff compares original and formatted source.
func Diff(original, formatted string) *DiffResult {
	return &DiffResult{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
}

// String renders a colored line diff for terminal output.
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("No changes needed")
	}

	var buf bytes.Buffer
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	d.eachChangedLine(func(line int, before, after string) {
		cyan.Fprintf(&buf, "@@ Line %d @@\n", line)
		if before != "" {
			red.Fprintf(&buf, "- %s\n", before)
		}
		if after != "" {
			green.Fprintf(&buf, "+ %s\n", after)
		}
	})

	return buf.String()
}

// UnifiedDiff renders the changes in unified diff form, suitable for piping
// into patch tooling. The empty string means no changes.
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	d.eachChangedLine(func(line int, before, after string) {
		fmt.Fprintf(&buf, "@@ -%d +%d @@\n", line, line)
		if before != "" {
			fmt.Fprintf(&buf, "-%s\n", before)
		}
		if after != "" {
			fmt.Fprintf(&buf, "+%s\n", after)
		}
	})

	return buf.String()
}

// Stats summarizes the changes in one line.
func (d *DiffResult) Stats() string {
	if !d.Changed {
		return "No changes"
	}

	added, removed, changed := 0, 0, 0
	d.eachChangedLine(func(line int, before, after string) {
		switch {
		case before == "":
			added++
		case after == "":
			removed++
		default:
			changed++
		}
	})

	return fmt.Sprintf("%d lines changed, %d added, %d removed", changed, added, removed)
}

// eachChangedLine walks both versions line by line and reports positions
// where they differ. Lines are compared by position, not by content moves.
func (d *DiffResult) eachChangedLine(fn func(line int, before, after string)) {
	before := strings.Split(d.Original, "\n")
	after := strings.Split(d.Formatted, "\n")

	n := len(before)
	if len(after) > n {
		n = len(after)
	}

	for i := 0; i < n; i++ {
		var b, a string
		if i < len(before) {
			b = before[i]
		}
		if i < len(after) {
			a = after[i]
		}
		if b != a {
			fn(i+1, b, a)
		}
	}
}
