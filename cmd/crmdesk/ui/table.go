package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column describes one table column. Width is the content width in
// cells; the cell padding comes from the row styles.
type Column struct {
	Title string
	Width int
}

// Table is a minimal selectable table used for the contact list and
// the potentials list. It renders only; cursor movement is driven by
// the owning model.
type Table struct {
	Columns []Column
	Rows    [][]string
	Cursor  int
	Height  int // max visible rows, 0 means unbounded
	Styles  Styles
}

// NewTable builds a table with the default styles.
func NewTable(cols []Column) Table {
	return Table{Columns: cols, Styles: DefaultStyles()}
}

// SetRows replaces the rows and clamps the cursor.
func (t *Table) SetRows(rows [][]string) {
	t.Rows = rows
	if t.Cursor >= len(rows) {
		t.Cursor = len(rows) - 1
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
}

// MoveUp moves the cursor one row up, stopping at the first row.
func (t *Table) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves the cursor one row down, stopping at the last row.
func (t *Table) MoveDown() {
	if t.Cursor < len(t.Rows)-1 {
		t.Cursor++
	}
}

// Selected returns the row under the cursor, or nil when empty.
func (t *Table) Selected() []string {
	if t.Cursor < 0 || t.Cursor >= len(t.Rows) {
		return nil
	}
	return t.Rows[t.Cursor]
}

// View renders the table. The cursor row uses the selected style; long
// cells are truncated with an ellipsis to the column width.
func (t *Table) View() string {
	var b strings.Builder

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = t.Styles.TableHeader.Render(pad(c.Title, c.Width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	start, end := t.window()
	for ri := start; ri < end; ri++ {
		row := t.Rows[ri]
		style := t.Styles.TableRow
		if ri == t.Cursor {
			style = t.Styles.TableSelected
		}
		cells := make([]string, len(t.Columns))
		for ci, c := range t.Columns {
			var v string
			if ci < len(row) {
				v = row[ci]
			}
			cells[ci] = style.Render(pad(Truncate(v, c.Width), c.Width))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if ri < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// window returns the visible row range, scrolling so the cursor stays
// in view when Height is set.
func (t *Table) window() (int, int) {
	if t.Height <= 0 || len(t.Rows) <= t.Height {
		return 0, len(t.Rows)
	}
	start := t.Cursor - t.Height/2
	if start < 0 {
		start = 0
	}
	if start+t.Height > len(t.Rows) {
		start = len(t.Rows) - t.Height
	}
	return start, start + t.Height
}

// Truncate shortens s to at most width cells, appending an ellipsis
// when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
