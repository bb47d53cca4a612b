package ui

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := Truncate("hello world", 8); got != "hello w…" {
		t.Errorf("expected ellipsis truncation, got %q", got)
	}
	if got := Truncate("hi", 0); got != "" {
		t.Errorf("expected empty for zero width, got %q", got)
	}
	if got := Truncate("hello", 1); got != "…" {
		t.Errorf("expected bare ellipsis, got %q", got)
	}
}

func TestTableCursorClamping(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 10}})
	tbl.SetRows([][]string{{"Ana"}, {"Bob"}, {"Carla"}})

	tbl.MoveUp()
	if tbl.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", tbl.Cursor)
	}
	tbl.MoveDown()
	tbl.MoveDown()
	tbl.MoveDown()
	if tbl.Cursor != 2 {
		t.Errorf("cursor moved past last row: %d", tbl.Cursor)
	}

	tbl.SetRows([][]string{{"Ana"}})
	if tbl.Cursor != 0 {
		t.Errorf("cursor not clamped after shrink: %d", tbl.Cursor)
	}
}

func TestTableSelected(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 10}, {Title: "City", Width: 10}})
	if tbl.Selected() != nil {
		t.Error("expected nil selection on empty table")
	}
	tbl.SetRows([][]string{{"Ana", "Lisbon"}, {"Bob", "Porto"}})
	tbl.MoveDown()
	sel := tbl.Selected()
	if sel == nil || sel[0] != "Bob" {
		t.Errorf("unexpected selection: %v", sel)
	}
}

func TestTableViewContainsRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 12}})
	tbl.SetRows([][]string{{"Ana Lee"}, {"Bob Wu"}})
	out := tbl.View()
	if !strings.Contains(out, "Name") {
		t.Error("header missing from view")
	}
	if !strings.Contains(out, "Ana Lee") || !strings.Contains(out, "Bob Wu") {
		t.Errorf("rows missing from view:\n%s", out)
	}
}

func TestTableWindowFollowsCursor(t *testing.T) {
	tbl := NewTable([]Column{{Title: "N", Width: 6}})
	rows := make([][]string, 20)
	for i := range rows {
		rows[i] = []string{string(rune('a' + i))}
	}
	tbl.SetRows(rows)
	tbl.Height = 5

	for i := 0; i < 19; i++ {
		tbl.MoveDown()
	}
	out := tbl.View()
	if !strings.Contains(out, "t") {
		t.Errorf("last row not visible after scrolling:\n%s", out)
	}
	if strings.Contains(out, "\na ") {
		t.Errorf("first row still visible after scrolling to bottom:\n%s", out)
	}
}
