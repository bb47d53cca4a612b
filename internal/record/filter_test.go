package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterFields(t *testing.T) {
	fields := []FieldDescriptor{
		{FieldName: "firstname", Label: "First Name"},
		{FieldName: "mailingcity", Label: "City"},
		{FieldName: "email", Label: "Primary Email"},
	}
	values := map[string]string{
		"firstname":   "Ana",
		"mailingcity": "Pula",
		"email":       "ana@example.com",
	}

	assert.Len(t, FilterFields(fields, values, ""), 3)

	// Matches by label, case-insensitive.
	got := FilterFields(fields, values, "CITY")
	assert.Equal(t, []string{"mailingcity"}, fieldNames(got))

	// Matches by field name.
	got = FilterFields(fields, values, "first")
	assert.Equal(t, []string{"firstname"}, fieldNames(got))

	// Matches by current value.
	got = FilterFields(fields, values, "example.com")
	assert.Equal(t, []string{"email"}, fieldNames(got))

	// "ana" hits both the firstname value and the email value.
	got = FilterFields(fields, values, "ana")
	assert.Equal(t, []string{"firstname", "email"}, fieldNames(got))

	assert.Empty(t, FilterFields(fields, values, "zzz"))
}

func TestFilterPotentials(t *testing.T) {
	items := []Potential{
		{ID: "5x1", Name: "Renewal 2026", ClosingDate: "2026-10-01"},
		{ID: "5x2", Name: "Upsell", ClosingDate: "2026-12-15"},
	}

	assert.Len(t, FilterPotentials(items, ""), 2)
	assert.Len(t, FilterPotentials(items, "renewal"), 1)
	assert.Len(t, FilterPotentials(items, "2026-12"), 1)
	assert.Len(t, FilterPotentials(items, "5x"), 2)
	assert.Empty(t, FilterPotentials(items, "nothing"))
}
