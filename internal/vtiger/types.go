// Package vtiger is the HTTP boundary to the remote CRM API. It owns the
// wire shapes, the session credential, and the tri-state outcome contract:
// success, application error (well-formed body with success=false), or a
// wrapped transport/format error. No retries happen here; a failed write
// leaves the caller's edit state untouched so a manual retry stays possible.
package vtiger

import (
	"crmdesk/internal/record"
)

// Contact is one row of the bulk contact list, flattened from the
// normalized field snapshot for quick table rendering. The full descriptor
// list is kept so a row can seed an edit surface without a refetch.
type Contact struct {
	ID           string
	FirstName    string
	LastName     string
	Title        string
	Organization string
	Email        string
	OfficePhone  string
	MobilePhone  string
	AssignedTo   string

	Fields []record.FieldDescriptor
	Values map[string]string
}

// DisplayName renders "First Last" with sensible fallbacks.
func (c Contact) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.LastName != "":
		return c.LastName
	case c.FirstName != "":
		return c.FirstName
	}
	return c.ID
}

// Phone returns the office phone, falling back to mobile.
func (c Contact) Phone() string {
	if c.OfficePhone != "" {
		return c.OfficePhone
	}
	return c.MobilePhone
}

// contactFromValues maps the well-known vtiger contact field names onto the
// flat summary columns.
func contactFromValues(fields []record.FieldDescriptor, values map[string]string) Contact {
	assigned := values["assigned_user_id"]
	if assigned == "" {
		assigned = "Unassigned"
	}
	id := values["contact_no"]
	if id == "" {
		id = values["id"]
	}
	return Contact{
		ID:           id,
		FirstName:    values["firstname"],
		LastName:     values["lastname"],
		Title:        values["title"],
		Organization: values["account_id"],
		Email:        values["email"],
		OfficePhone:  values["phone"],
		MobilePhone:  values["mobile"],
		AssignedTo:   assigned,
		Fields:       fields,
		Values:       values,
	}
}

// Record is one fully hydrated record: ordered field descriptors, the flat
// value snapshot, and the related potentials list.
type Record struct {
	ID         string
	Fields     []record.FieldDescriptor
	Values     map[string]string
	Potentials []record.Potential
}

// APIError is an application-level failure: the server answered with a
// well-formed body carrying success=false and a message, which is surfaced
// to the user verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }
