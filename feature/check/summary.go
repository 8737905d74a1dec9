package check

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// PrintSummary writes a human-readable summary of outcome to w.
func PrintSummary(w io.Writer, outcome *Outcome) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	s := outcome.Summary()

	bold.Fprintf(w, "\n=== bitbackup check: %s ===\n\n", outcome.Layout.Root)
	fmt.Fprintf(w, "  Files visited: %d\n", outcome.FilesVisited)
	fmt.Fprintf(w, "  Directories visited: %d\n", outcome.DirsVisited)
	fmt.Fprintf(w, "  Added: %d\n", s.Added)
	fmt.Fprintf(w, "  Removed: %d\n", s.Removed)
	fmt.Fprintf(w, "  Modified: ")
	if s.Modified > 0 {
		yellow.Fprintf(w, "%d\n", s.Modified)
	} else {
		fmt.Fprintf(w, "%d\n", s.Modified)
	}
	fmt.Fprintf(w, "  Unchanged: %d\n", s.Unchanged+s.Backfilled)
	fmt.Fprintf(w, "  Bit rot: ")
	if s.BitRot > 0 {
		red.Fprintf(w, "%d\n", s.BitRot)
	} else {
		green.Fprintf(w, "%d\n", s.BitRot)
	}

	if outcome.Result != nil && outcome.Result.HasBitRot() {
		fmt.Fprintf(w, "\n")
		red.Fprintf(w, "KO: %d file(s) with bit rot were found.\n", s.BitRot)
		for _, item := range outcome.Result.BitRot {
			fmt.Fprintf(w, "  %s\n", filepath.Join(outcome.Layout.Root, filepath.FromSlash(item.File.Path)))
			fmt.Fprintf(w, "    expected:   %s\n", item.File.HashValue)
			fmt.Fprintf(w, "    calculated: %s\n", item.Calculated)
		}
	} else {
		fmt.Fprintf(w, "\n")
		green.Fprintf(w, "OK: no files with bit rot were found.\n")
	}

	if outcome.ReportPath != "" {
		fmt.Fprintf(w, "\n  Report: %s\n", outcome.ReportPath)
	}
	if outcome.IndexPath != "" {
		fmt.Fprintf(w, "  Index: %s\n", outcome.IndexPath)
	}
	for _, name := range outcome.Archived {
		fmt.Fprintf(w, "  Archived: %s\n", name)
	}
}
