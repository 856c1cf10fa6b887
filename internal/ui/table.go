package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a borderless, space-aligned table for summaries such as index
// statistics. Widths are measured in terminal cells so styled and wide
// characters line up.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row. Missing cells are blank; extra cells are ignored.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table with every row indented by indent spaces.
func (t *Table) String() string {
	return t.Indent(0)
}

// Indent renders the table with a left margin.
func (t *Table) Indent(indent int) string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	margin := strings.Repeat(" ", indent)
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		sb.WriteString(margin)
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(cell)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
