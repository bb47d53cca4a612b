package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededPotentials(t *testing.T) *PotentialTracker {
	t.Helper()
	tr := NewPotentialTracker()
	tr.Seed([]Potential{
		{ID: "5x1", Name: "Renewal 2026", ClosingDate: "2026-10-01"},
		{ID: "5x2", Name: "Upsell", ClosingDate: "2026-12-15"},
	})
	return tr
}

func TestPotentialInPlaceEdit(t *testing.T) {
	tr := seededPotentials(t)
	tr.SetName(1, "Upsell Plus")

	require.True(t, tr.IsDirty())
	d := tr.Delta()
	require.Len(t, d.Changed, 1)
	assert.Equal(t, "5x2", d.Changed[0].ID)
	assert.Equal(t, "Upsell Plus", d.Changed[0].Name)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.RemovedIDs)

	tr.Commit()
	assert.False(t, tr.IsDirty())
	assert.True(t, tr.Delta().Empty())
}

func TestPotentialAddThenRemoveReturnsClean(t *testing.T) {
	tr := seededPotentials(t)

	p := tr.Append()
	assert.True(t, IsNewPotentialID(p.ID))
	assert.NotEmpty(t, p.ClosingDate)
	require.True(t, tr.IsDirty())

	// The appended row sits at the end; removing it restores the original.
	tr.Remove(tr.Len() - 1)
	assert.False(t, tr.IsDirty())
	assert.True(t, tr.Delta().Empty())
	assert.Equal(t, 2, tr.Len())
}

func TestPotentialAddedRowsAppearInDelta(t *testing.T) {
	tr := seededPotentials(t)
	p := tr.Append()
	tr.SetName(tr.Len()-1, "Brand new deal")

	d := tr.Delta()
	require.Len(t, d.Added, 1)
	assert.Equal(t, p.ID, d.Added[0].ID)
	assert.Equal(t, "Brand new deal", d.Added[0].Name)
	assert.Empty(t, d.Changed)

	ups := d.Upserts()
	require.Len(t, ups, 1)
	assert.Equal(t, p.ID, ups[0].ID)
}

func TestPotentialRemovalTrackedByID(t *testing.T) {
	tr := seededPotentials(t)
	tr.Remove(0)

	require.True(t, tr.IsDirty())
	d := tr.Delta()
	assert.Empty(t, d.Changed)
	assert.Empty(t, d.Added)
	assert.Equal(t, []string{"5x1"}, d.RemovedIDs)
	assert.Empty(t, d.Upserts(), "removals are not sent upstream")
}

func TestPotentialEditSurvivesReordering(t *testing.T) {
	// Removing the first row shifts indexes; the diff must still match the
	// edited row by id, not by position.
	tr := seededPotentials(t)
	tr.Remove(0)
	tr.SetName(0, "Upsell Max")

	d := tr.Delta()
	require.Len(t, d.Changed, 1)
	assert.Equal(t, "5x2", d.Changed[0].ID)
	assert.Equal(t, []string{"5x1"}, d.RemovedIDs)
}

func TestPotentialDiscard(t *testing.T) {
	tr := seededPotentials(t)
	tr.Append()
	tr.SetName(0, "Scribble")
	tr.Remove(1)
	require.True(t, tr.IsDirty())

	tr.Discard()
	assert.False(t, tr.IsDirty())
	assert.Equal(t, []Potential{
		{ID: "5x1", Name: "Renewal 2026", ClosingDate: "2026-10-01"},
		{ID: "5x2", Name: "Upsell", ClosingDate: "2026-12-15"},
	}, tr.Items())
}

func TestPotentialUnseededTrackerIsInert(t *testing.T) {
	tr := NewPotentialTracker()
	assert.False(t, tr.Seeded())
	assert.True(t, tr.Delta().Empty())
	assert.False(t, tr.IsDirty())
}

func TestPotentialDirtyCallback(t *testing.T) {
	tr := seededPotentials(t)
	var transitions []bool
	tr.OnDirtyChange(func(dirty bool) { transitions = append(transitions, dirty) })

	tr.SetName(0, "Changed")
	tr.SetName(0, "Renewal 2026")
	assert.Equal(t, []bool{true, false}, transitions)
}
