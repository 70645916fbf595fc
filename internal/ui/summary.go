package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// RunSummary holds the numbers and paths the final message reports.
type RunSummary struct {
	Host      string
	Directory string
	Files     []string
	Succeeded int
	Failed    int
	Skipped   int
}

// RenderSummary writes the final success message naming the output directory,
// followed by the listing of produced files. Partial operation failures show
// up only in the counts; the user infers details from missing/empty files.
func RenderSummary(w io.Writer, s RunSummary) {
	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	pathStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)

	fmt.Fprintf(w, "\n%s Audit of %s complete\n",
		successStyle.Render(SymbolSuccess), s.Host)

	counts := fmt.Sprintf("%d collected", s.Succeeded)
	if s.Failed > 0 {
		counts += ", " + warnStyle.Render(fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Skipped > 0 {
		counts += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	fmt.Fprintf(w, "  %s\n\n", mutedStyle.Render(counts))

	fmt.Fprintf(w, "Report written to %s\n", pathStyle.Render(s.Directory))
	for _, f := range s.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
