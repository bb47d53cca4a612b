package ui

import (
	"strings"
	"testing"

	"crmdesk/internal/record"
)

func TestFieldDisplayValueBoolean(t *testing.T) {
	d := record.FieldDescriptor{FieldName: "donotcall", Type: record.TypeBoolean}
	for _, v := range []string{"true", "1", "True"} {
		if got := FieldDisplayValue(d, v); got != "[x]" {
			t.Errorf("value %q: expected checked box, got %q", v, got)
		}
	}
	for _, v := range []string{"false", "0", ""} {
		if got := FieldDisplayValue(d, v); got != "[ ]" {
			t.Errorf("value %q: expected unchecked box, got %q", v, got)
		}
	}
}

func TestFieldDisplayValueTextCollapses(t *testing.T) {
	d := record.FieldDescriptor{FieldName: "description", Type: record.TypeText}
	got := FieldDisplayValue(d, "first line\nsecond line")
	if got != "first line…" {
		t.Errorf("expected first line with ellipsis, got %q", got)
	}
	if got := FieldDisplayValue(d, "single"); got != "single" {
		t.Errorf("single line altered: %q", got)
	}
}

func TestFieldLineMandatoryMarker(t *testing.T) {
	s := DefaultStyles()
	d := record.FieldDescriptor{FieldName: "lastname", Label: "Last Name", Type: record.TypeString, Mandatory: true, Editable: true}
	line := FieldLine(s, d, "Lee", 20, false)
	if !strings.Contains(line, "Last Name") {
		t.Errorf("label missing: %q", line)
	}
	if !strings.Contains(line, "*") {
		t.Errorf("mandatory marker missing: %q", line)
	}
	if !strings.Contains(line, "Lee") {
		t.Errorf("value missing: %q", line)
	}
}

func TestFieldLineFallsBackToFieldName(t *testing.T) {
	s := DefaultStyles()
	d := record.FieldDescriptor{FieldName: "leadsource", Type: record.TypePicklist, Editable: true}
	line := FieldLine(s, d, "Web", 20, false)
	if !strings.Contains(line, "leadsource") {
		t.Errorf("fieldname fallback missing: %q", line)
	}
}

func TestFieldLineCursor(t *testing.T) {
	s := DefaultStyles()
	d := record.FieldDescriptor{FieldName: "email", Label: "Email", Type: record.TypeEmail, Editable: true}
	focused := FieldLine(s, d, "a@b.c", 10, true)
	blurred := FieldLine(s, d, "a@b.c", 10, false)
	if !strings.Contains(focused, ">") {
		t.Errorf("focused line missing cursor: %q", focused)
	}
	if strings.Contains(blurred, ">") {
		t.Errorf("blurred line has cursor: %q", blurred)
	}
}

func TestNextPicklistOption(t *testing.T) {
	d := record.FieldDescriptor{
		FieldName: "leadsource",
		Type:      record.TypePicklist,
		Options:   []string{"Web", "Phone", "Referral"},
	}
	if got := NextPicklistOption(d, "Web"); got != "Phone" {
		t.Errorf("expected Phone, got %q", got)
	}
	if got := NextPicklistOption(d, "Referral"); got != "Web" {
		t.Errorf("expected wrap to Web, got %q", got)
	}
	if got := NextPicklistOption(d, "bogus"); got != "Web" {
		t.Errorf("unknown value should land on first option, got %q", got)
	}
	empty := record.FieldDescriptor{FieldName: "leadsource", Type: record.TypePicklist}
	if got := NextPicklistOption(empty, "keep"); got != "keep" {
		t.Errorf("no options should keep current, got %q", got)
	}
	nonPick := record.FieldDescriptor{FieldName: "email", Type: record.TypeEmail}
	if got := NextPicklistOption(nonPick, "x"); got != "x" {
		t.Errorf("non-picklist should keep current, got %q", got)
	}
}
