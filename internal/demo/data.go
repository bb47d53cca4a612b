package demo

import (
	"sync"

	"crmdesk/internal/record"
)

// field is one descriptor/value pair in the demo dataset.
type field struct {
	record.FieldDescriptor
	Value string
}

// contactRecord is one seeded contact with its related potentials.
type contactRecord struct {
	ID         string
	Label      string
	Fields     []field
	Potentials []record.Potential
}

// dataset is the in-memory CRM state behind the demo server.
type dataset struct {
	mu      sync.Mutex
	records map[string]*contactRecord
	nextID  int
}

func textField(name, label, value string) field {
	return field{
		FieldDescriptor: record.FieldDescriptor{FieldName: name, Label: label, Type: record.TypeString, Editable: true},
		Value:           value,
	}
}

func typedField(name, label string, ft record.FieldType, value string) field {
	return field{
		FieldDescriptor: record.FieldDescriptor{FieldName: name, Label: label, Type: ft, Editable: true},
		Value:           value,
	}
}

// seed builds the demo dataset: a handful of contacts shaped exactly like
// the upstream vtiger shim serves them.
func seed() *dataset {
	mk := func(id, label, first, last, title, org, email, phone string, potentials ...record.Potential) *contactRecord {
		return &contactRecord{
			ID:    id,
			Label: label,
			Fields: []field{
				textField("contact_no", "Contact Id", id),
				textField("firstname", "First Name", first),
				{FieldDescriptor: record.FieldDescriptor{FieldName: "lastname", Label: "Last Name", Type: record.TypeString, Mandatory: true, Editable: true}, Value: last},
				textField("title", "Title", title),
				textField("account_id", "Organization Name", org),
				typedField("email", "Primary Email", record.TypeEmail, email),
				typedField("phone", "Office Phone", record.TypePhone, phone),
				typedField("mobile", "Mobile Phone", record.TypePhone, ""),
				typedField("donotcall", "Do Not Call", record.TypeBoolean, "false"),
				{FieldDescriptor: record.FieldDescriptor{FieldName: "leadsource", Label: "Lead Source", Type: record.TypePicklist, Editable: true, Options: []string{"Cold Call", "Web Site", "Partner", "Trade Show"}}, Value: "Web Site"},
				typedField("support_start_date", "Support Start Date", record.TypeDate, "2026-01-01"),
				typedField("description", "Description", record.TypeText, ""),
				textField("assigned_user_id", "Assigned To", "Administrator"),
			},
			Potentials: potentials,
		}
	}

	ds := &dataset{records: map[string]*contactRecord{}, nextID: 100}
	for _, rec := range []*contactRecord{
		mk("12x1", "Ana Lee", "Ana", "Lee", "CTO", "Vortex Labs", "ana@vortex.example", "555-0101",
			record.Potential{ID: "5x1", Name: "Platform Renewal", ClosingDate: "2026-10-01"},
			record.Potential{ID: "5x2", Name: "Support Upsell", ClosingDate: "2026-12-15"},
		),
		mk("12x2", "Bob Wu", "Bob", "Wu", "Head of Ops", "Northwind", "bob@northwind.example", "555-0202"),
		mk("12x3", "Carla Diaz", "Carla", "Diaz", "CEO", "Diaz Consulting", "carla@diaz.example", "555-0303",
			record.Potential{ID: "5x3", Name: "Consulting Retainer", ClosingDate: "2026-09-30"},
		),
	} {
		ds.records[rec.ID] = rec
	}
	return ds
}
