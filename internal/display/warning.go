// Package display formats user-facing warnings for the aggregate CLI.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out, in yellow when color is enabled
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// WarnNothingCopied is shown when a run finishes without copying anything
func WarnNothingCopied(root string, extensions []string) Warning {
	return Warning{
		Title:      "No files were copied",
		Message:    fmt.Sprintf("Nothing under %s matched the included extensions", root),
		Suggestion: fmt.Sprintf("Place the binary at the top of a tree containing %s files", strings.Join(extensions, ", ")),
	}
}

// WarnRunLocked is shown when another aggregation holds the run lock
func WarnRunLocked(lockPath string) Warning {
	return Warning{
		Title:      "Another aggregation is already running",
		Message:    "Two runs in the same destination would race on collision names",
		Files:      []string{lockPath},
		Suggestion: "Wait for the other run to finish, then try again",
	}
}
