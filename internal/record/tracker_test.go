package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededTracker(t *testing.T) *Tracker {
	t.Helper()
	tr := NewTracker()
	tr.Seed(
		[]FieldDescriptor{
			{FieldName: "firstname", Label: "First Name", Type: TypeString, Editable: true},
			{FieldName: "lastname", Label: "Last Name", Type: TypeString, Editable: true},
			{FieldName: "email", Label: "Email", Type: TypeEmail, Mandatory: true, Editable: true},
		},
		map[string]string{"firstname": "Ana", "lastname": "Lee", "email": "a@x.com"},
	)
	return tr
}

func TestDeltaMinimality(t *testing.T) {
	tr := NewTracker()
	tr.Seed(
		[]FieldDescriptor{
			{FieldName: "a", Label: "A", Type: TypeString, Editable: true},
			{FieldName: "b", Label: "B", Type: TypeString, Editable: true},
		},
		map[string]string{"a": "1", "b": "2"},
	)

	tr.Set("a", "9")

	d := tr.Delta()
	assert.Equal(t, map[string]string{"a": "9"}, d.Values)
	require.Len(t, d.Fields, 1)
	assert.Equal(t, "a", d.Fields[0].FieldName)
	assert.Equal(t, "9", d.Fields[0].Value)

	// Touching a field back to its original value drops it from the delta.
	tr.Set("b", "3")
	tr.Set("b", "2")
	assert.Equal(t, map[string]string{"a": "9"}, tr.Delta().Values)
}

func TestCommitIsIdempotent(t *testing.T) {
	tr := seededTracker(t)
	tr.Set("email", "ana@x.com")
	tr.Set("firstname", "Anna")
	tr.Commit()

	assert.False(t, tr.IsDirty())
	assert.True(t, tr.Delta().Empty())

	tr.Commit()
	assert.True(t, tr.Delta().Empty())
}

func TestDiscardRoundTrip(t *testing.T) {
	tr := seededTracker(t)
	before := tr.Values()

	tr.Set("firstname", "Zoe")
	tr.Set("email", "zoe@x.com")
	tr.Discard()

	assert.False(t, tr.IsDirty())
	if diff := cmp.Diff(before, tr.Values()); diff != "" {
		t.Errorf("values after discard differ from original (-want +got):\n%s", diff)
	}
}

func TestDirtyFlagMatchesDelta(t *testing.T) {
	tr := seededTracker(t)

	steps := []struct {
		name, value string
	}{
		{"firstname", "Ana"}, // no-op write
		{"firstname", "Anna"},
		{"firstname", "Ana"}, // back to original
		{"email", "ana@x.com"},
	}
	for _, step := range steps {
		tr.Set(step.name, step.value)
		assert.Equal(t, !tr.Delta().Empty(), tr.IsDirty(),
			"dirty flag out of sync after Set(%q, %q)", step.name, step.value)
	}
}

func TestDirtyCallbackFiresOnTransitions(t *testing.T) {
	tr := seededTracker(t)
	var transitions []bool
	tr.OnDirtyChange(func(dirty bool) { transitions = append(transitions, dirty) })

	tr.Set("firstname", "Anna") // clean -> dirty
	tr.Set("firstname", "Anne") // still dirty, no callback
	tr.Set("firstname", "Ana")  // dirty -> clean

	assert.Equal(t, []bool{true, false}, transitions)
}

func TestSaveScenarioEmailEdit(t *testing.T) {
	tr := seededTracker(t)
	tr.Set("email", "ana@x.com")

	d := tr.Delta()
	require.Equal(t, map[string]string{"email": "ana@x.com"}, d.Values)
	require.Len(t, d.Fields, 1)
	assert.Equal(t, FieldValue{
		FieldName: "email",
		Label:     "Email",
		Type:      TypeEmail,
		Value:     "ana@x.com",
		Mandatory: true,
	}, d.Fields[0])

	// Server confirmed the write.
	tr.Commit()
	assert.False(t, tr.IsDirty())
	assert.True(t, tr.Delta().Empty())
}

func TestAddFieldWithValueIsImmediatelyDirty(t *testing.T) {
	tr := seededTracker(t)
	tr.AddField(FieldDescriptor{FieldName: "budget", Label: "Budget", Type: TypeNumber, Editable: true}, "1000")

	assert.True(t, tr.IsDirty())
	d := tr.Delta()
	assert.Equal(t, "1000", d.Values["budget"])
	require.Len(t, d.Fields, 1)
	assert.Equal(t, "budget", d.Fields[0].FieldName)
}

func TestAddFieldWithEmptyValueStaysClean(t *testing.T) {
	tr := seededTracker(t)
	tr.AddField(FieldDescriptor{FieldName: "notes", Type: TypeText, Editable: true}, "")

	assert.False(t, tr.IsDirty())
	assert.True(t, tr.Delta().Empty())

	// Label defaults to the field name when omitted.
	fd, ok := tr.Field("notes")
	require.True(t, ok)
	assert.Equal(t, "notes", fd.Label)
}

func TestUnseededTrackerIsInert(t *testing.T) {
	tr := NewTracker()

	assert.False(t, tr.Seeded())
	assert.True(t, tr.Delta().Empty())
	assert.False(t, tr.IsDirty())

	// Set before Seed must not fabricate an original to diff against.
	tr.Set("ghost", "boo")
	assert.True(t, tr.Delta().Empty())
	assert.False(t, tr.IsDirty())
}

func TestSeedResetsDirtyState(t *testing.T) {
	tr := seededTracker(t)
	tr.Set("firstname", "Anna")
	require.True(t, tr.IsDirty())

	tr.Seed(tr.Fields(), map[string]string{"firstname": "Bo", "lastname": "Ng", "email": "b@x.com"})
	assert.False(t, tr.IsDirty())
	assert.Equal(t, "Bo", tr.Value("firstname"))
}
