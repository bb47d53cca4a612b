package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/internal/record"
	"crmdesk/internal/vtiger"
)

// Update routes messages to the active screen. Async results are
// handled here regardless of mode so a screen switch never loses one.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.Height = m.height - 8
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.saving() && !m.loggingIn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loggedInMsg:
		m.loggingIn = false
		m.errMsg = ""
		m.mode = ModeContacts
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadContactsCmd())

	case contactsLoadedMsg:
		m.loading = false
		m.contacts = msg.contacts
		m.refreshTable()
		return m, nil

	case recordLoadedMsg:
		// Stale guard: compare the id the fetch was issued for, not the
		// server's canonical record id, which may use another key form.
		if msg.id != m.activeID {
			m.logger.Debug("dropping stale record response",
				zap.String("got", msg.id), zap.String("want", m.activeID))
			return m, nil
		}
		m.loading = false
		// A reload (after field creation) must not wipe edits made
		// while the refetch was in flight.
		if m.dirty() {
			m.status = "refresh skipped, unsaved changes kept"
			return m, nil
		}
		m.tracker.Seed(msg.rec.Fields, msg.rec.Values)
		m.ptracker.Seed(msg.rec.Potentials)
		return m, nil

	case recordSavedMsg:
		if msg.id != m.activeID {
			return m, nil
		}
		m.pendingSaves--
		if msg.err != nil {
			m.errMsg = describeError("save record", msg.err)
			m.logger.Warn("record save failed", zap.Error(msg.err))
			return m, nil
		}
		m.tracker.Commit()
		m.noteSaved()
		return m, nil

	case potentialsSavedMsg:
		if msg.id != m.activeID {
			return m, nil
		}
		m.pendingSaves--
		if msg.err != nil {
			m.errMsg = describeError("save potentials", msg.err)
			m.logger.Warn("potentials save failed", zap.Error(msg.err))
			return m, nil
		}
		m.ptracker.Commit()
		m.noteSaved()
		return m, nil

	case fieldCreatedMsg:
		if msg.id != m.activeID {
			return m, nil
		}
		// Reload so the new field shows with server-assigned defaults.
		m.status = "field created"
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadRecordCmd(m.activeID))

	case errMsg:
		m.loading = false
		m.loggingIn = false
		m.errMsg = describeError(msg.op, msg.err)
		m.logger.Warn("operation failed", zap.String("op", msg.op), zap.Error(msg.err))
		return m, nil
	}

	switch m.mode {
	case ModeLogin:
		return m.updateLogin(msg)
	case ModeContacts:
		return m.updateContacts(msg)
	case ModeDetail:
		return m.updateDetail(msg)
	case ModeWizard:
		return m.updateWizard(msg)
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateLoginInputs(msg)
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, textinput.Blink
	case "enter":
		if m.loggingIn {
			return m, nil
		}
		username := strings.TrimSpace(m.loginInputs[0].Value())
		accessKey := strings.TrimSpace(m.loginInputs[1].Value())
		if username == "" || accessKey == "" {
			m.errMsg = "username and access key are required"
			return m, nil
		}
		if len(accessKey) < 6 {
			m.errMsg = "access key must be at least 6 characters"
			return m, nil
		}
		m.loggingIn = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.loginCmd(username, accessKey))
	}
	return m.updateLoginInputs(msg)
}

func (m *Model) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.loginInputs {
		var cmd tea.Cmd
		m.loginInputs[i], cmd = m.loginInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateContacts(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		switch key.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.refreshTable()
		case "enter":
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.refreshTable()
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.table.MoveUp()
	case "down", "j":
		m.table.MoveDown()
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "r":
		m.loading = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.loadContactsCmd())
	case "enter":
		c := m.selectedContact()
		if c == nil {
			return m, nil
		}
		m.mode = ModeDetail
		m.resetDetail(c.ID)
		m.loading = true
		m.errMsg = ""
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.loadRecordCmd(c.ID))
	}
	return m, nil
}

// refreshTable rebuilds the table rows from the contact list, applying
// the active search filter.
func (m *Model) refreshTable() {
	query := strings.TrimSpace(m.search.Value())
	rows := make([][]string, 0, len(m.contacts))
	for _, c := range m.contacts {
		if query != "" && !contactMatches(c, query) {
			continue
		}
		rows = append(rows, []string{c.DisplayName(), c.Email, c.Phone(), c.AssignedTo})
	}
	m.table.SetRows(rows)
}

// contactMatches searches the full field snapshot, not only the
// summary columns, so filtering by e.g. city or title works.
func contactMatches(c vtiger.Contact, query string) bool {
	return len(record.FilterFields(c.Fields, c.Values, query)) > 0
}

// selectedContact resolves the table cursor back to a contact, walking
// the same filter the table rows came from.
func (m *Model) selectedContact() *vtiger.Contact {
	query := strings.TrimSpace(m.search.Value())
	idx := -1
	for i := range m.contacts {
		if query != "" && !contactMatches(m.contacts[i], query) {
			continue
		}
		idx++
		if idx == m.table.Cursor {
			return &m.contacts[i]
		}
	}
	return nil
}

// noteSaved shows the saved status once every in-flight save has
// landed cleanly.
func (m *Model) noteSaved() {
	if m.pendingSaves == 0 && m.errMsg == "" {
		m.status = "saved"
	}
}

func describeError(op string, err error) string {
	if apiErr, ok := err.(*vtiger.APIError); ok {
		return op + ": " + apiErr.Message
	}
	return op + ": " + err.Error()
}
