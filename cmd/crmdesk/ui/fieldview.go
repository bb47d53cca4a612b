package ui

import (
	"fmt"
	"strings"

	"crmdesk/internal/record"
)

// FieldLine renders one field as a "Label: value" line for the detail
// view. Booleans render as a checkbox, picklists show the selected
// option, and non-editable fields are dimmed. A mandatory marker is
// appended to the label. focused highlights the field under the cursor.
func FieldLine(s Styles, d record.FieldDescriptor, value string, labelWidth int, focused bool) string {
	label := d.Label
	if label == "" {
		label = d.FieldName
	}
	if d.Mandatory {
		label += s.Mandatory.Render("*")
	}
	label = padRight(label, labelWidth)

	display := FieldDisplayValue(d, value)

	labelStyle := s.FieldLabel
	valueStyle := s.FieldValue
	if !d.Editable {
		valueStyle = s.FieldReadOnly
	}
	if focused {
		labelStyle = s.FieldFocused
		valueStyle = s.FieldFocused
	}

	cursor := "  "
	if focused {
		cursor = s.FieldFocused.Render("> ")
	}
	return fmt.Sprintf("%s%s %s", cursor, labelStyle.Render(label), valueStyle.Render(display))
}

// FieldDisplayValue converts a stored field value to its on-screen
// form for the field's type.
func FieldDisplayValue(d record.FieldDescriptor, value string) string {
	switch d.Type {
	case record.TypeBoolean:
		if record.ParseBool(value) {
			return "[x]"
		}
		return "[ ]"
	case record.TypeText:
		// Multi-line text collapses to its first line in list context.
		if i := strings.IndexByte(value, '\n'); i >= 0 {
			return value[:i] + "…"
		}
		return value
	case record.TypeNumber:
		return record.FormatNumber(value)
	case record.TypePicklist:
		if value == "" {
			return "(not set)"
		}
		return value
	default:
		return value
	}
}

// PicklistOptions returns the options for a picklist field, or nil for
// other types. An unknown current value is still shown by the caller;
// selection cycles through these.
func PicklistOptions(d record.FieldDescriptor) []string {
	if d.Type != record.TypePicklist {
		return nil
	}
	return d.Options
}

// NextPicklistOption returns the option following current, wrapping
// around. With no options it returns current unchanged.
func NextPicklistOption(d record.FieldDescriptor, current string) string {
	return cyclePicklist(d, current, 1)
}

// PrevPicklistOption returns the option preceding current, wrapping
// around.
func PrevPicklistOption(d record.FieldDescriptor, current string) string {
	return cyclePicklist(d, current, -1)
}

func cyclePicklist(d record.FieldDescriptor, current string, step int) string {
	opts := PicklistOptions(d)
	if len(opts) == 0 {
		return current
	}
	for i, o := range opts {
		if o == current {
			return opts[(i+step+len(opts))%len(opts)]
		}
	}
	return opts[0]
}

func padRight(s string, width int) string {
	// Width is measured on the unstyled label; the mandatory marker
	// adds escape codes, so count printable runes only.
	n := printableLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func printableLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == '\x1b':
			inEsc = true
		default:
			n++
		}
	}
	return n
}
