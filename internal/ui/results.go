package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/quicksearch/internal/model"
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // Column identifier, not displayed
	WidthRatio float64        // Proportion of flexible width; 0 means fixed at MinWidth
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Style      lipgloss.Style // Style applied to cells in this column
}

// Result columns: [num, icon, text, page, url]
var (
	colNum  = ColumnDef{Name: "num", MinWidth: 4, Style: Muted}
	colIcon = ColumnDef{Name: "icon", MinWidth: 2}
	colText = ColumnDef{Name: "text", WidthRatio: 0.45, MinWidth: 20, MaxWidth: 80}
	colPage = ColumnDef{Name: "page", WidthRatio: 0.20, MinWidth: 10, MaxWidth: 30, Style: Muted}
	colURL  = ColumnDef{Name: "url", WidthRatio: 0.35, MinWidth: 15, MaxWidth: 60, Style: Muted}

	resultLayout = []ColumnDef{colNum, colIcon, colText, colPage, colURL}
)

// ResultsTable renders grouped search results, one table per section.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	query   string
	link    func(*model.Entry) string
}

// NewResultsTable creates a results renderer. query is highlighted inside
// entry text; link maps an entry to the URL shown (nil shows entry.URL).
func NewResultsTable(display *DisplayContext, query string, link func(*model.Entry) string) *ResultsTable {
	if display == nil {
		display = NewDisplayContextWithWidth(DefaultTermWidth)
	}
	if link == nil {
		link = func(e *model.Entry) string { return e.URL }
	}
	return &ResultsTable{
		display: display,
		columns: resultLayout,
		query:   query,
		link:    link,
	}
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *ResultsTable) calculateWidths() []int {
	const (
		columnPadding = 2
		leftMargin    = 2
	)

	widths := make([]int, len(t.columns))
	var totalRatio float64
	var fixedWidth int

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	available := t.display.AvailableWidth(leftMargin) - fixedWidth - (len(t.columns)-1)*columnPadding
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			continue
		}
		width := int(float64(available) * col.WidthRatio / totalRatio)
		if width < col.MinWidth {
			width = col.MinWidth
		}
		if col.MaxWidth > 0 && width > col.MaxWidth {
			width = col.MaxWidth
		}
		widths[i] = width
	}
	return widths
}

// Render returns every section with a header followed by its entries.
// Rows are numbered across sections so the numbers match flat JSON output.
func (t *ResultsTable) Render(sections []model.Section) string {
	if model.Count(sections) == 0 {
		return ""
	}

	widths := t.calculateWidths()
	var b strings.Builder
	num := 0

	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionHeader(section.Name, len(section.Entries)))
		b.WriteString("\n")

		rows := make([][]string, 0, len(section.Entries))
		for _, e := range section.Entries {
			num++
			rows = append(rows, []string{
				fmt.Sprintf("%d", num),
				e.Kind.Icon(),
				Highlight(TruncateWithEllipsis(e.Text, widths[2]), t.query),
				TruncateWithEllipsis(e.Subtitle(), widths[3]),
				TruncateWithEllipsis(t.link(e), widths[4]),
			})
		}
		b.WriteString(t.renderRows(rows, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *ResultsTable) renderRows(rows [][]string, widths []int) string {
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}
			style := t.columns[col].Style.Width(widths[col])
			if col == 0 {
				style = style.Align(lipgloss.Right)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render()
}

// TruncateWithEllipsis shortens s to at most maxLen runes, breaking at a word
// boundary when one is close.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
