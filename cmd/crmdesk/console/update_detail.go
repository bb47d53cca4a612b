package console

import (
	"errors"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/cmd/crmdesk/ui"
	"crmdesk/internal/record"
)

func (m *Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		return m.updateFieldEdit(key)
	}

	if m.detailSearching {
		switch key.String() {
		case "esc":
			m.detailSearching = false
			m.fieldSearch.Blur()
			m.fieldSearch.SetValue("")
		case "enter":
			m.detailSearching = false
			m.fieldSearch.Blur()
		default:
			var cmd tea.Cmd
			m.fieldSearch, cmd = m.fieldSearch.Update(msg)
			m.clampCursors()
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.tab == TabFields {
			m.tab = TabPotentials
		} else {
			m.tab = TabFields
		}
		return m, nil
	case "/":
		m.detailSearching = true
		m.fieldSearch.Focus()
		return m, textinput.Blink
	case "esc", "q":
		if m.fieldSearch.Value() != "" {
			m.fieldSearch.SetValue("")
			m.clampCursors()
			return m, nil
		}
		if m.dirty() {
			// First esc throws the edits away; the next one leaves.
			m.tracker.Discard()
			m.ptracker.Discard()
			m.status = "changes discarded"
			return m, nil
		}
		m.mode = ModeContacts
		m.status = ""
		m.errMsg = ""
		return m, nil
	case "ctrl+s", "s":
		return m.startSave()
	case "a":
		if m.tab == TabFields {
			m.mode = ModeWizard
			m.wizard = newWizard()
			return m, textinput.Blink
		}
		m.ptracker.Append()
		m.fieldSearch.SetValue("")
		m.potCursor = m.ptracker.Len() - 1
		return m, nil
	}

	if m.tab == TabFields {
		return m.updateFieldsTab(key)
	}
	return m.updatePotentialsTab(key)
}

// clampCursors keeps both cursors inside the filtered lists after the
// search query changes.
func (m *Model) clampCursors() {
	if n := len(m.visibleFields()); m.fieldCursor >= n {
		m.fieldCursor = max(0, n-1)
	}
	if n := len(m.visiblePotentials()); m.potCursor >= n {
		m.potCursor = max(0, n-1)
	}
}

func (m *Model) updateFieldsTab(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.visibleFields()
	switch key.String() {
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "left", "right":
		if m.fieldCursor >= len(fields) {
			return m, nil
		}
		fd := fields[m.fieldCursor]
		if fd.Type != record.TypePicklist || !fd.Editable {
			return m, nil
		}
		cur := m.tracker.Value(fd.FieldName)
		if key.String() == "left" {
			m.tracker.Set(fd.FieldName, ui.PrevPicklistOption(fd, cur))
		} else {
			m.tracker.Set(fd.FieldName, ui.NextPicklistOption(fd, cur))
		}
	case "enter", " ":
		if m.fieldCursor >= len(fields) {
			return m, nil
		}
		fd := fields[m.fieldCursor]
		if !fd.Editable {
			m.status = fd.Label + " is read only"
			return m, nil
		}
		switch fd.Type {
		case record.TypeBoolean:
			cur := record.ParseBool(m.tracker.Value(fd.FieldName))
			m.tracker.Set(fd.FieldName, record.FormatBool(!cur))
		case record.TypePicklist:
			next := ui.NextPicklistOption(fd, m.tracker.Value(fd.FieldName))
			m.tracker.Set(fd.FieldName, next)
		default:
			m.beginTextEdit(fd)
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) beginTextEdit(fd record.FieldDescriptor) {
	in := textinput.New()
	in.SetValue(m.tracker.Value(fd.FieldName))
	in.CursorEnd()
	in.Focus()
	in.CharLimit = 512
	switch fd.Type {
	case record.TypeNumber, record.TypePhone:
		in.Validate = digitsOnly
	case record.TypeDate:
		in.Placeholder = "2006-01-02"
	}
	m.editInput = in
	m.editFieldName = fd.FieldName
	m.editing = true
	m.status = ""
}

// digitsOnly admits digits plus the separators phone numbers carry.
func digitsOnly(s string) error {
	for _, r := range s {
		if unicode.IsDigit(r) || strings.ContainsRune("+-()., ", r) {
			continue
		}
		return errors.New("digits only")
	}
	return nil
}

func (m *Model) updateFieldEdit(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		m.editing = false
		value := m.editInput.Value()
		if m.tab == TabPotentials {
			idx := m.potIndex(m.editPotID)
			if idx < 0 {
				return m, nil
			}
			if m.potColumn == 0 {
				m.ptracker.SetName(idx, value)
			} else {
				m.ptracker.SetClosingDate(idx, value)
			}
			return m, nil
		}
		fd, ok := m.tracker.Field(m.editFieldName)
		if !ok {
			return m, nil
		}
		if fd.Mandatory && strings.TrimSpace(value) == "" {
			m.errMsg = fd.Label + " is mandatory"
			return m, nil
		}
		m.errMsg = ""
		m.tracker.Set(fd.FieldName, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(tea.Msg(key))
	return m, cmd
}

func (m *Model) updatePotentialsTab(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visiblePotentials()
	switch key.String() {
	case "up", "k":
		if m.potCursor > 0 {
			m.potCursor--
		}
	case "down", "j":
		if m.potCursor < len(items)-1 {
			m.potCursor++
		}
	case "left", "h":
		m.potColumn = 0
	case "right", "l":
		m.potColumn = 1
	case "d":
		if m.potCursor < len(items) {
			idx := m.potIndex(items[m.potCursor].ID)
			if idx < 0 {
				return m, nil
			}
			wasNew := record.IsNewPotentialID(items[m.potCursor].ID)
			m.ptracker.Remove(idx)
			if !wasNew {
				m.status = "removed locally; the server keeps existing potentials"
			}
			m.clampCursors()
		}
	case "enter":
		if m.potCursor >= len(items) {
			return m, nil
		}
		p := items[m.potCursor]
		in := textinput.New()
		if m.potColumn == 0 {
			in.SetValue(p.Name)
		} else {
			in.SetValue(p.ClosingDate)
			in.Placeholder = "2006-01-02"
		}
		in.CursorEnd()
		in.Focus()
		in.CharLimit = 128
		m.editInput = in
		m.editPotID = p.ID
		m.editing = true
	}
	return m, nil
}

// startSave dispatches one request per dirty tracker so a failure on
// one gateway never blocks the other's commit. Only one round of saves
// may be in flight; a clean record saves nothing.
func (m *Model) startSave() (tea.Model, tea.Cmd) {
	if m.saving() {
		m.status = "save already in progress"
		return m, nil
	}
	if !m.dirty() {
		m.status = "no changes to save"
		return m, nil
	}
	m.errMsg = ""
	m.status = ""
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.tracker.IsDirty() {
		m.pendingSaves++
		cmds = append(cmds, m.saveRecordCmd(m.activeID, m.tracker.Delta()))
	}
	if m.ptracker.IsDirty() {
		m.pendingSaves++
		cmds = append(cmds, m.savePotentialsCmd(m.activeID, m.ptracker.Delta()))
	}
	return m, tea.Batch(cmds...)
}
