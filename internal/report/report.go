// Package report renders the outcome of a correction run for the operator,
// either as a grouped text summary or as JSON for CI pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/autofix"
	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

// NoIssuesMessage is printed when a run applied no fixes
const NoIssuesMessage = "No issues found - workflow is already correct!"

// Report is everything known about one processed workflow file
type Report struct {
	RunID        string        `json:"runId"`
	File         string        `json:"file"`
	Workflow     string        `json:"workflow,omitempty"`
	Fixes        []autofix.Fix `json:"fixes"`
	Written      bool          `json:"written"`
	DryRun       bool          `json:"dryRun"`
	InputDigest  string        `json:"inputDigest,omitempty"`
	OutputDigest string        `json:"outputDigest,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Options controls rendering
type Options struct {
	Format string // config.OutputText or config.OutputJSON
	Color  string // config.ColorAuto, ColorAlways or ColorNever
	// Command is shown in the dry-run hint, e.g. "workflow-autofix flow.json"
	Command string
}

// Renderer writes reports to an output stream
type Renderer struct {
	out    io.Writer
	opts   Options
	styles styles
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, opts Options) (*Renderer, error) {
	if opts.Format == "" {
		opts.Format = config.OutputText
	}
	if opts.Format != config.OutputText && opts.Format != config.OutputJSON {
		return nil, fmt.Errorf("%w: unknown report format %q", errors.ErrInvalidArgument, opts.Format)
	}

	return &Renderer{
		out:    w,
		opts:   opts,
		styles: newStyles(w, opts.Color),
	}, nil
}

// Render writes one report. JSON output is one document per line.
func (r *Renderer) Render(rep Report) error {
	if rep.Fixes == nil {
		rep.Fixes = []autofix.Fix{}
	}

	if r.opts.Format == config.OutputJSON {
		return r.renderJSON(rep)
	}
	_, err := io.WriteString(r.out, r.Text(rep))
	return err
}

type jsonReport struct {
	Report
	Count  int             `json:"count"`
	Groups []autofix.Group `json:"groups"`
}

func (r *Renderer) renderJSON(rep Report) error {
	groups := autofix.GroupFixes(rep.Fixes)
	if groups == nil {
		groups = []autofix.Group{}
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(jsonReport{Report: rep, Count: len(rep.Fixes), Groups: groups})
}

// Text returns the human readable form of rep
func (r *Renderer) Text(rep Report) string {
	s := r.styles
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Processing:"), s.Accent.Render(rep.File))
	if rep.Workflow != "" {
		fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Workflow:"), rep.Workflow)
	}
	b.WriteString("\n")

	if rep.Error != "" {
		fmt.Fprintf(&b, "✗ %s\n\n", rep.Error)
		return b.String()
	}

	if len(rep.Fixes) == 0 {
		fmt.Fprintf(&b, "✓ %s\n\n", NoIssuesMessage)
		return b.String()
	}

	b.WriteString(s.Bold.Render(fmt.Sprintf("Applied %d fixes:", len(rep.Fixes))))
	b.WriteString("\n")

	for _, group := range autofix.GroupFixes(rep.Fixes) {
		fmt.Fprintf(&b, "\n%s %s\n", s.AccentBold.Render(group.Title), s.Muted.Render(fmt.Sprintf("(%d)", len(group.Fixes))))
		for _, fix := range group.Fixes {
			fmt.Fprintf(&b, "   Step %q: %s\n", fix.StepID, fix.Description)
		}
	}
	b.WriteString("\n")

	switch {
	case rep.Written:
		fmt.Fprintf(&b, "✓ Fixes written to: %s\n\n", s.Accent.Render(rep.File))
	case rep.DryRun:
		b.WriteString("→ To apply these fixes, run with --write\n")
		if r.opts.Command != "" {
			fmt.Fprintf(&b, "   %s\n", s.Muted.Render(r.opts.Command+" --write"))
		}
		b.WriteString("\n")
	}

	return b.String()
}
