package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
)

// styles holds the text report palette. Colors follow the muted/accent
// scheme; success and failure are marked with symbols rather than red/green.
type styles struct {
	Accent     lipgloss.Style
	AccentBold lipgloss.Style
	Muted      lipgloss.Style
	Bold       lipgloss.Style
	Plain      lipgloss.Style
}

func newStyles(w io.Writer, colorMode string) styles {
	r := lipgloss.NewRenderer(w)
	if useColor(w, colorMode) {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		Accent:     r.NewStyle().Foreground(lipgloss.Color("#A78BFA")),
		AccentBold: r.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true),
		Muted:      r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Bold:       r.NewStyle().Bold(true),
		Plain:      r.NewStyle(),
	}
}

func useColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
