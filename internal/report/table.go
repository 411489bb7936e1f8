package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableRow is one line of a Table. Muted rows are dimmed, e.g. disabled rules.
type TableRow struct {
	Cells []string
	Muted bool
}

// Table writes a borderless, column-aligned table with a bold header row.
func (r *Renderer) Table(headers []string, rows []TableRow) error {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = row.Cells
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderRow(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = r.styles.Bold
			case row >= 0 && row < len(rows) && rows[row].Muted:
				style = r.styles.Muted
			case col == 0:
				style = r.styles.Accent
			default:
				style = r.styles.Plain
			}
			if col < len(headers)-1 {
				style = style.PaddingRight(2)
			}
			return style
		})

	_, err := fmt.Fprintln(r.out, tbl.String())
	return err
}
