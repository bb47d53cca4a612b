// Package record holds the domain core of the console: field descriptors,
// payload normalization, and the dirty-tracking used by every edit surface.
// Everything in this package is pure state manipulation; network and UI
// concerns live elsewhere.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldType is the declared type of a record field as reported by the API.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeText      FieldType = "text" // multi-line
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeDatetime  FieldType = "datetime"
	TypeEmail     FieldType = "email"
	TypePhone     FieldType = "phone"
	TypePicklist  FieldType = "picklist"
	TypeReference FieldType = "reference"
)

// FieldDescriptor describes one editable attribute of a record.
// Options is populated for picklist fields only.
type FieldDescriptor struct {
	FieldName string    `json:"fieldname"`
	Label     string    `json:"label"`
	Type      FieldType `json:"type"`
	Mandatory bool      `json:"mandatory"`
	Editable  bool      `json:"editable"`
	Options   []string  `json:"options,omitempty"`
}

// FieldValue is a descriptor paired with a concrete value, the shape the
// update endpoint wants for every changed field.
type FieldValue struct {
	FieldName string    `json:"fieldname"`
	Label     string    `json:"label"`
	Type      FieldType `json:"type"`
	Value     string    `json:"value"`
	Mandatory bool      `json:"mandatory"`
}

// ParseBool reports whether a stored field value represents a checked
// boolean. The API is not consistent about encodings, so all historical
// truthy spellings are accepted: "true", "TRUE", "1". Everything else,
// including the empty string, reads as false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	}
	return false
}

// FormatBool returns the canonical on-write encoding for boolean fields.
// The upstream API historically accepted both "true"/"false" and "1"/"0";
// this client always writes "true"/"false".
func FormatBool(checked bool) string {
	if checked {
		return "true"
	}
	return "false"
}

// CoerceScalar converts a raw JSON scalar into the canonical string form
// used throughout the value snapshots: strings pass through, booleans become
// "true"/"false", numbers keep their minimal decimal form, and null or
// anything non-scalar collapses to "".
func CoerceScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return FormatBool(b)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// truthy interprets loosely-typed JSON flags (mandatory, editable) that the
// API serves variously as booleans, numbers, or strings.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseBool(s)
	}
	return false
}

// ValidFieldName reports whether a user-supplied field name is acceptable
// for the add-field flow: non-empty, letters, digits, and underscores only.
func ValidFieldName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// FormatNumber normalizes numeric input for display; invalid input is
// returned unchanged so the user sees what they typed.
func FormatNumber(value string) string {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
