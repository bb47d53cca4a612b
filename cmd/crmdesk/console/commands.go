package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/internal/record"
	"crmdesk/internal/vtiger"
)

// Messages produced by the async commands below. Record-scoped
// messages carry the record id so stale responses can be dropped.
type (
	loggedInMsg struct {
		token string
	}
	contactsLoadedMsg struct {
		contacts []vtiger.Contact
	}
	// recordLoadedMsg carries the id the fetch was issued for; the
	// record's own id may be the server's canonical form and can
	// legitimately differ.
	recordLoadedMsg struct {
		id  string
		rec *vtiger.Record
	}
	// recordSavedMsg and potentialsSavedMsg report each gateway call
	// separately so each tracker commits on its own success.
	recordSavedMsg struct {
		id  string
		err error
	}
	potentialsSavedMsg struct {
		id  string
		err error
	}
	fieldCreatedMsg struct {
		id string
	}
	errMsg struct {
		op  string
		err error
	}
)

func (m *Model) loginCmd(username, accessKey string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Login(context.Background(), username, accessKey)
		if err != nil {
			return errMsg{op: "login", err: err}
		}
		if m.store != nil {
			if serr := m.store.Save(m.client.BaseURL(), username, token); serr != nil {
				m.logger.Warn("session not persisted", zap.Error(serr))
			}
		}
		return loggedInMsg{token: token}
	}
}

func (m *Model) loadContactsCmd() tea.Cmd {
	return func() tea.Msg {
		contacts, err := m.client.Contacts(context.Background())
		if err != nil {
			return errMsg{op: "load contacts", err: err}
		}
		return contactsLoadedMsg{contacts: contacts}
	}
}

func (m *Model) loadRecordCmd(id string) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.client.FetchRecord(context.Background(), id)
		if err != nil {
			return errMsg{op: "load record", err: err}
		}
		return recordLoadedMsg{id: id, rec: rec}
	}
}

func (m *Model) saveRecordCmd(id string, delta record.Delta) tea.Cmd {
	return func() tea.Msg {
		return recordSavedMsg{id: id, err: m.client.UpdateRecord(context.Background(), id, delta)}
	}
}

func (m *Model) savePotentialsCmd(id string, delta record.RelatedDelta) tea.Cmd {
	return func() tea.Msg {
		return potentialsSavedMsg{id: id, err: m.client.UpdatePotentials(context.Background(), delta)}
	}
}

func (m *Model) createFieldCmd(id string, fv record.FieldValue) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.CreateField(context.Background(), id, fv, true); err != nil {
			return errMsg{op: "create field", err: err}
		}
		return fieldCreatedMsg{id: id}
	}
}
