// results.go formats a ResultSet into fixed-width grid lines for the
// viewport.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kqlcommander/kqlcommander/kusto"
)

// maxCellWidth caps column width so one wide value cannot push the
// whole grid off screen; panning covers the rest.
const maxCellWidth = 50

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// formatResultSet renders header, separator and rows as a fixed-width
// grid. The synthetic id column is shown first.
func formatResultSet(rs *kusto.ResultSet) []string {
	if rs == nil || len(rs.Columns) == 0 {
		return []string{StyleDimmed.Render("(no results)")}
	}

	runeLen := utf8.RuneCountInString

	cols := append([]kusto.GridColumn{{Key: "id", Name: "id"}}, rs.Columns...)

	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = runeLen(col.Name)
	}
	cells := make([][]string, len(rs.Rows))
	for r, row := range rs.Rows {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			s := formatCell(row[col.Key])
			cells[r][i] = s
			if runeLen(s) > widths[i] {
				widths[i] = runeLen(s)
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}

	var lines []string
	header := ""
	for i, col := range cols {
		header += fmt.Sprintf(" %-*s │", widths[i], col.Name)
	}
	// Build separator from header: replace every char with ─, except │ → ┼
	var sepBuilder strings.Builder
	for _, ch := range header {
		if ch == '│' {
			sepBuilder.WriteRune('┼')
		} else {
			sepBuilder.WriteRune('─')
		}
	}
	lines = append(lines, strings.TrimRight(header, "│"))
	lines = append(lines, strings.TrimRight(sepBuilder.String(), "┼"))

	for _, row := range cells {
		line := ""
		for i, cell := range row {
			if runeLen(cell) > widths[i] {
				runes := []rune(cell)
				cell = string(runes[:widths[i]-1]) + "…"
			}
			line += fmt.Sprintf(" %-*s │", widths[i], cell)
		}
		lines = append(lines, strings.TrimRight(line, "│"))
	}

	lines = append(lines, "", fmt.Sprintf("(%d row%s)", len(rs.Rows), plural(len(rs.Rows))))
	return lines
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
