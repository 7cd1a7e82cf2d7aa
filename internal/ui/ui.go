// Package ui provides terminal render helpers for the CLI: consistent
// accent/pass/warn/error styling with automatic degradation on dumb
// terminals and pipes.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// styled reports whether output should carry colors: stdout must be a
// terminal with at least ANSI support.
func styled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

func render(s lipgloss.Style, text string) string {
	if !styled() {
		return text
	}
	return s.Render(text)
}

// RenderAccent styles informational highlights.
func RenderAccent(text string) string { return render(accentStyle, text) }

// RenderPass styles success markers.
func RenderPass(text string) string { return render(passStyle, text) }

// RenderWarn styles warnings.
func RenderWarn(text string) string { return render(warnStyle, text) }

// RenderErr styles failures.
func RenderErr(text string) string { return render(errStyle, text) }

// RenderFaint styles secondary detail.
func RenderFaint(text string) string { return render(faintStyle, text) }

// Width returns the terminal width, or fallback when stdout is not a
// terminal.
func Width(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
