package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ProgressDisplay renders one status line per completed operation.
type ProgressDisplay struct {
	w     io.Writer
	quiet bool

	successStyle lipgloss.Style
	failStyle    lipgloss.Style
	skipStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewProgressDisplay creates a progress display writing to w.
func NewProgressDisplay(w io.Writer) *ProgressDisplay {
	return &ProgressDisplay{
		w:            w,
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		failStyle:    lipgloss.NewStyle().Foreground(ColorError),
		skipStyle:    lipgloss.NewStyle().Foreground(ColorMuted),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// SetQuiet suppresses per-operation lines; the final summary still prints.
func (pd *ProgressDisplay) SetQuiet(quiet bool) {
	pd.quiet = quiet
}

// Success renders: ✓ <name>
func (pd *ProgressDisplay) Success(name string) {
	if pd.quiet {
		return
	}
	fmt.Fprintf(pd.w, "%s %s\n", pd.successStyle.Render(SymbolSuccess), name)
}

// Fail renders: ✗ <name> (detail)
func (pd *ProgressDisplay) Fail(name, detail string) {
	if pd.quiet {
		return
	}
	line := fmt.Sprintf("%s %s", pd.failStyle.Render(SymbolFail), name)
	if detail != "" {
		line += " " + pd.mutedStyle.Render("("+detail+")")
	}
	fmt.Fprintln(pd.w, line)
}

// Skip renders: ⊘ <name> (detail)
func (pd *ProgressDisplay) Skip(name, detail string) {
	if pd.quiet {
		return
	}
	line := fmt.Sprintf("%s %s", pd.skipStyle.Render(SymbolSkipped), name)
	if detail != "" {
		line += " " + pd.mutedStyle.Render("("+detail+")")
	}
	fmt.Fprintln(pd.w, line)
}
