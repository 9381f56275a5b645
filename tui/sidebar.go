// sidebar.go renders the database/table/column tree with scope
// checkboxes. The cursor moves over databases only; toggling a
// database flips its membership in the schema scope.
package tui

import (
	"github.com/kqlcommander/kqlcommander/session"
)

// sidebarLines builds the visible sidebar content. Lines are windowed
// so the cursor database stays on screen.
func (a *App) sidebarLines(width, height int) []string {
	title := "   Databases"
	if a.focus == focusSidebar {
		title = StyleTitle.Render(" ● Databases")
	}
	lines := []string{title}

	if a.sess.Tree == nil {
		lines = append(lines, StyleDimmed.Render(" (loading tree...)"))
		return lines
	}
	if len(a.sess.Tree.DatabasesTree) == 0 {
		lines = append(lines, StyleDimmed.Render(" (no databases)"))
		return lines
	}

	var body []string
	cursorLine := 0
	for i, db := range a.sess.Tree.DatabasesTree {
		check := "[ ]"
		if a.sess.Scope.Contains(i) {
			check = "[x]"
		}
		line := check + " " + db.DatabaseName
		if i == a.dbCursor {
			cursorLine = len(body)
			if a.focus == focusSidebar {
				line = StyleListItemActive.Render("▸ " + line)
			} else {
				line = StyleDimmed.Render("▸ " + line)
			}
		} else {
			line = "  " + line
		}
		body = append(body, truncate(line, width))

		for _, tbl := range db.Tables {
			body = append(body, truncate(StyleDimmed.Render("    "+tbl.TableName), width))
			if a.showSchema {
				for _, col := range tbl.Schema {
					body = append(body, truncate(
						StyleDimmed.Render("      "+col.ColumnName+" "+session.StripTypePrefix(col.DataType)),
						width))
				}
			}
		}
	}

	// Window around the cursor line
	avail := height - 1 // title
	if avail < 1 {
		avail = 1
	}
	start := 0
	if cursorLine >= avail {
		start = cursorLine - avail/2
	}
	end := start + avail
	if end > len(body) {
		end = len(body)
		start = end - avail
		if start < 0 {
			start = 0
		}
	}
	return append(lines, body[start:end]...)
}

// truncate cuts a rendered line to the sidebar width. Styled lines
// longer than the pane are rare enough that dropping the tail is fine.
func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
