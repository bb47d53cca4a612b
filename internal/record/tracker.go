package record

// Tracker holds the current and original value snapshots for one record and
// derives the dirty flag and the minimal update delta from them. It is not
// safe for concurrent use; all access happens on the UI event loop.
type Tracker struct {
	fields   []FieldDescriptor
	original map[string]string
	current  map[string]string
	seeded   bool
	dirty    bool
	onDirty  func(bool)
}

// Delta is the minimal set of changed fields: the raw value map the update
// endpoint wants under "data", and the matching descriptor/value pairs it
// wants under "fields".
type Delta struct {
	Values map[string]string
	Fields []FieldValue
}

// Empty reports whether the delta carries no changes.
func (d Delta) Empty() bool { return len(d.Values) == 0 }

// NewTracker returns an unseeded tracker. Until Seed runs, the tracker is
// clean and Delta returns an empty delta.
func NewTracker() *Tracker {
	return &Tracker{
		original: map[string]string{},
		current:  map[string]string{},
	}
}

// OnDirtyChange registers a callback invoked whenever the dirty flag
// transitions. It replaces the ambient save-bar signalling of the original
// console with an explicit hook owned by the container.
func (t *Tracker) OnDirtyChange(fn func(bool)) { t.onDirty = fn }

// Seed installs the field list and sets both snapshots to the given values.
// It is called exactly once per record identity; reseeding mid-edit is the
// caller's bug to avoid (guarded by the record id check in the console).
func (t *Tracker) Seed(fields []FieldDescriptor, values map[string]string) {
	t.fields = append([]FieldDescriptor(nil), fields...)
	t.original = copyValues(values)
	t.current = copyValues(values)
	t.seeded = true
	t.setDirty(false)
}

// Seeded reports whether Seed has run.
func (t *Tracker) Seeded() bool { return t.seeded }

// Fields returns the ordered field descriptors.
func (t *Tracker) Fields() []FieldDescriptor { return t.fields }

// Field looks up a descriptor by name.
func (t *Tracker) Field(name string) (FieldDescriptor, bool) {
	for _, fd := range t.fields {
		if fd.FieldName == name {
			return fd, true
		}
	}
	return FieldDescriptor{}, false
}

// Value returns the live edit-buffer value for a field.
func (t *Tracker) Value(name string) string { return t.current[name] }

// Values returns a copy of the live edit buffer.
func (t *Tracker) Values() map[string]string { return copyValues(t.current) }

// Set writes into the edit buffer and recomputes the dirty flag.
// This is the only mutation path exercised by field inputs.
func (t *Tracker) Set(name, value string) {
	if !t.seeded {
		return
	}
	t.current[name] = value
	t.recompute()
}

// AddField appends a descriptor and seeds only the edit buffer, so a field
// added with a non-empty initial value is immediately dirty while an empty
// one still equals its absent original.
func (t *Tracker) AddField(fd FieldDescriptor, value string) {
	if fd.Label == "" {
		fd.Label = fd.FieldName
	}
	t.fields = append(t.fields, fd)
	t.current[fd.FieldName] = value
	t.recompute()
}

// IsDirty reports whether any value differs from the original snapshot.
func (t *Tracker) IsDirty() bool { return t.dirty }

// Delta returns exactly the fields whose current value differs from the
// original, keyed by name and paired with their descriptors. Calling it on
// an unseeded tracker yields an empty delta; there is nothing original to
// diff against yet.
func (t *Tracker) Delta() Delta {
	d := Delta{Values: map[string]string{}}
	if !t.seeded {
		return d
	}
	for name, value := range t.current {
		if value == t.original[name] {
			continue
		}
		d.Values[name] = value
		if fd, ok := t.Field(name); ok {
			d.Fields = append(d.Fields, FieldValue{
				FieldName: fd.FieldName,
				Label:     fd.Label,
				Type:      fd.Type,
				Value:     value,
				Mandatory: fd.Mandatory,
			})
		}
	}
	return d
}

// Commit replaces the original snapshot with the edit buffer after a
// confirmed successful save.
func (t *Tracker) Commit() {
	t.original = copyValues(t.current)
	t.setDirty(false)
}

// Discard resets the edit buffer to the original snapshot.
func (t *Tracker) Discard() {
	t.current = copyValues(t.original)
	t.setDirty(false)
}

func (t *Tracker) recompute() {
	dirty := false
	for name, value := range t.current {
		if value != t.original[name] {
			dirty = true
			break
		}
	}
	t.setDirty(dirty)
}

func (t *Tracker) setDirty(dirty bool) {
	changed := t.dirty != dirty
	t.dirty = dirty
	if changed && t.onDirty != nil {
		t.onDirty(dirty)
	}
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
