package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Table is a text table whose columns are padded by display width, so
// wide runes line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// MaxCell truncates longer cells when positive.
	MaxCell int
}

// AddRow appends one row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out with theme's header style.
func (t *Table) Render(theme Theme) string {
	columns := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		if t.MaxCell > 0 {
			return runewidth.Truncate(row[i], t.MaxCell, "...")
		}
		return row[i]
	}

	widths := make([]int, columns)
	for _, row := range append([][]string{t.Headers}, t.Rows...) {
		for i := 0; i < columns; i++ {
			if w := runewidth.StringWidth(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(row []string) string {
		parts := make([]string, columns)
		for i := range parts {
			if i == columns-1 {
				parts[i] = cell(row, i)
				continue
			}
			parts[i] = runewidth.FillRight(cell(row, i), widths[i])
		}
		return strings.TrimRight(strings.Join(parts, columnGap), " ")
	}

	var b strings.Builder
	if len(t.Headers) > 0 {
		b.WriteString(theme.Header.Render(line(t.Headers)))
		b.WriteString("\n")
	}
	for _, row := range t.Rows {
		b.WriteString(line(row))
		b.WriteString("\n")
	}
	return b.String()
}
