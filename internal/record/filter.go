package record

import "strings"

// FilterFields returns the descriptors whose label, field name, or current
// value contains the query, case-insensitively. An empty query returns the
// input unchanged.
func FilterFields(fields []FieldDescriptor, values map[string]string, query string) []FieldDescriptor {
	if query == "" {
		return fields
	}
	q := strings.ToLower(query)
	out := make([]FieldDescriptor, 0, len(fields))
	for _, fd := range fields {
		if containsFold(fd.Label, q) || containsFold(fd.FieldName, q) || containsFold(values[fd.FieldName], q) {
			out = append(out, fd)
		}
	}
	return out
}

// FilterPotentials returns the rows whose id, name, or closing date contains
// the query, case-insensitively.
func FilterPotentials(items []Potential, query string) []Potential {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]Potential, 0, len(items))
	for _, p := range items {
		if containsFold(p.ID, q) || containsFold(p.Name, q) || containsFold(p.ClosingDate, q) {
			out = append(out, p)
		}
	}
	return out
}

// containsFold expects needle already lowered.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
