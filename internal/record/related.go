package record

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Potential is one related opportunity row attached to a contact.
type Potential struct {
	ID          string `json:"id"`
	Name        string `json:"potentialname"`
	ClosingDate string `json:"closingdate"`
}

// newPotentialIDPrefix marks rows created client-side that have not been
// persisted yet.
const newPotentialIDPrefix = "new_"

// IsNewPotentialID reports whether an id was generated client-side.
func IsNewPotentialID(id string) bool {
	return strings.HasPrefix(id, newPotentialIDPrefix)
}

// RelatedDelta is the minimal change set for the potentials list. Changed
// and Added are sent to the server; RemovedIDs cannot be persisted by the
// upstream API and are surfaced to the user instead.
type RelatedDelta struct {
	Changed    []Potential
	Added      []Potential
	RemovedIDs []string
}

// Empty reports whether the delta carries no changes.
func (d RelatedDelta) Empty() bool {
	return len(d.Changed) == 0 && len(d.Added) == 0 && len(d.RemovedIDs) == 0
}

// Upserts returns changed and added rows in one slice, the payload shape of
// the updatePotentials endpoint.
func (d RelatedDelta) Upserts() []Potential {
	out := make([]Potential, 0, len(d.Changed)+len(d.Added))
	out = append(out, d.Changed...)
	out = append(out, d.Added...)
	return out
}

// PotentialTracker applies the snapshot/dirty/delta cycle to the ordered
// potentials list. Rows are matched by stable id rather than position, so
// the diff survives inserts and removals.
type PotentialTracker struct {
	original []Potential
	current  []Potential
	seeded   bool
	dirty    bool
	onDirty  func(bool)
}

// NewPotentialTracker returns an unseeded tracker.
func NewPotentialTracker() *PotentialTracker {
	return &PotentialTracker{}
}

// OnDirtyChange registers a dirty-transition callback.
func (t *PotentialTracker) OnDirtyChange(fn func(bool)) { t.onDirty = fn }

// Seed installs both snapshots from the fetched related list.
func (t *PotentialTracker) Seed(items []Potential) {
	t.original = append([]Potential(nil), items...)
	t.current = append([]Potential(nil), items...)
	t.seeded = true
	t.setDirty(false)
}

// Seeded reports whether Seed has run.
func (t *PotentialTracker) Seeded() bool { return t.seeded }

// Items returns a copy of the live list.
func (t *PotentialTracker) Items() []Potential {
	return append([]Potential(nil), t.current...)
}

// Len returns the live list length.
func (t *PotentialTracker) Len() int { return len(t.current) }

// SetName updates one row's name in the edit buffer.
func (t *PotentialTracker) SetName(index int, name string) {
	if index < 0 || index >= len(t.current) {
		return
	}
	t.current[index].Name = name
	t.recompute()
}

// SetClosingDate updates one row's closing date in the edit buffer.
func (t *PotentialTracker) SetClosingDate(index int, date string) {
	if index < 0 || index >= len(t.current) {
		return
	}
	t.current[index].ClosingDate = date
	t.recompute()
}

// Append adds a new row with an empty name, today's closing date, and a
// client-generated temporary id, and returns it.
func (t *PotentialTracker) Append() Potential {
	p := Potential{
		ID:          newPotentialIDPrefix + uuid.NewString(),
		ClosingDate: time.Now().Format("2006-01-02"),
	}
	t.current = append(t.current, p)
	t.recompute()
	return p
}

// Remove splices a row out of the edit buffer by index.
func (t *PotentialTracker) Remove(index int) {
	if index < 0 || index >= len(t.current) {
		return
	}
	t.current = append(t.current[:index], t.current[index+1:]...)
	t.recompute()
}

// IsDirty reports whether the live list differs from the original.
func (t *PotentialTracker) IsDirty() bool { return t.dirty }

// Delta computes the id-matched change set. Unseeded trackers yield an
// empty delta.
func (t *PotentialTracker) Delta() RelatedDelta {
	var d RelatedDelta
	if !t.seeded {
		return d
	}
	origByID := make(map[string]Potential, len(t.original))
	for _, p := range t.original {
		origByID[p.ID] = p
	}
	seen := make(map[string]bool, len(t.current))
	for _, p := range t.current {
		seen[p.ID] = true
		orig, ok := origByID[p.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, p)
		case p.Name != orig.Name || p.ClosingDate != orig.ClosingDate:
			d.Changed = append(d.Changed, p)
		}
	}
	for _, p := range t.original {
		if !seen[p.ID] {
			d.RemovedIDs = append(d.RemovedIDs, p.ID)
		}
	}
	return d
}

// Commit replaces the original snapshot after a confirmed save.
func (t *PotentialTracker) Commit() {
	t.original = append([]Potential(nil), t.current...)
	t.setDirty(false)
}

// Discard resets the edit buffer to the original snapshot.
func (t *PotentialTracker) Discard() {
	t.current = append([]Potential(nil), t.original...)
	t.setDirty(false)
}

func (t *PotentialTracker) recompute() {
	t.setDirty(!t.Delta().Empty())
}

func (t *PotentialTracker) setDirty(dirty bool) {
	changed := t.dirty != dirty
	t.dirty = dirty
	if changed && t.onDirty != nil {
		t.onDirty(dirty)
	}
}
