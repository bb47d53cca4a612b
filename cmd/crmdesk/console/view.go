package console

import (
	"fmt"
	"strings"

	"crmdesk/cmd/crmdesk/ui"
)

const labelWidth = 24

// View renders the active screen with a shared header and footer.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case ModeLogin:
		body = m.viewLogin()
	case ModeContacts:
		body = m.viewContacts()
	case ModeDetail:
		body = m.viewDetail()
	case ModeWizard:
		body = m.viewWizard()
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("crmdesk"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Success.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render(m.footerHelp()))
	return b.String()
}

func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sign in"))
	b.WriteString("\n\n")
	labels := [2]string{"Username  ", "Access key"}
	for i := range m.loginInputs {
		b.WriteString("  " + m.styles.FieldLabel.Render(labels[i]) + " " + m.loginInputs[i].View())
		b.WriteString("\n")
	}
	if m.loggingIn {
		b.WriteString("\n  " + m.spinner.View() + " signing in")
	}
	return b.String()
}

func (m *Model) viewContacts() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Contacts"))
	if m.loading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.styles.Muted.Render("filter: ") + m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(m.table.Rows) == 0 && !m.loading {
		b.WriteString(m.styles.Muted.Render("  no contacts"))
	} else {
		b.WriteString(m.table.View())
	}
	return b.String()
}

func (m *Model) viewDetail() string {
	var b strings.Builder

	fieldsTab := "Details"
	potsTab := fmt.Sprintf("Potentials (%d)", m.ptracker.Len())
	if m.tab == TabFields {
		fieldsTab = m.styles.Badge.Render(fieldsTab)
		potsTab = m.styles.Muted.Render(potsTab)
	} else {
		fieldsTab = m.styles.Muted.Render(fieldsTab)
		potsTab = m.styles.Badge.Render(potsTab)
	}
	b.WriteString(fieldsTab + "  " + potsTab)
	if m.loading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	if m.dirty() {
		b.WriteString(m.styles.SaveBar.Render(" unsaved changes  press s to save "))
		b.WriteString("\n")
	}
	if m.saving() {
		b.WriteString(m.spinner.View() + " saving\n")
	}
	if m.detailSearching || m.fieldSearch.Value() != "" {
		b.WriteString(m.styles.Muted.Render("filter: ") + m.fieldSearch.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.tab == TabFields {
		b.WriteString(m.viewFields())
	} else {
		b.WriteString(m.viewPotentials())
	}
	return b.String()
}

func (m *Model) viewFields() string {
	fields := m.visibleFields()
	if len(fields) == 0 {
		if m.fieldSearch.Value() != "" {
			return m.styles.Muted.Render("  no matching fields")
		}
		return m.styles.Muted.Render("  no fields")
	}
	var b strings.Builder
	for i, fd := range fields {
		focused := i == m.fieldCursor
		if m.editing && fd.FieldName == m.editFieldName {
			label := fd.Label
			if label == "" {
				label = fd.FieldName
			}
			b.WriteString("> " + m.styles.FieldFocused.Render(label) + " " + m.editInput.View())
		} else {
			b.WriteString(ui.FieldLine(m.styles, fd, m.tracker.Value(fd.FieldName), labelWidth, focused))
		}
		if i < len(fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) viewPotentials() string {
	items := m.visiblePotentials()
	if len(items) == 0 {
		if m.fieldSearch.Value() != "" {
			return m.styles.Muted.Render("  no matching potentials")
		}
		return m.styles.Muted.Render("  no potentials, press a to add one")
	}
	var b strings.Builder
	for i, p := range items {
		name := ui.Truncate(p.Name, 36)
		date := p.ClosingDate
		focused := i == m.potCursor
		if m.editing && p.ID == m.editPotID {
			if m.potColumn == 0 {
				b.WriteString("> " + m.editInput.View() + "  " + m.styles.Muted.Render(date))
			} else {
				b.WriteString("> " + name + "  " + m.editInput.View())
			}
		} else if focused {
			nameStyle, dateStyle := m.styles.FieldFocused, m.styles.Muted
			if m.potColumn == 1 {
				nameStyle, dateStyle = m.styles.Muted, m.styles.FieldFocused
			}
			b.WriteString("> " + nameStyle.Render(name) + "  " + dateStyle.Render(date))
		} else {
			b.WriteString("  " + name + "  " + m.styles.Muted.Render(date))
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) viewWizard() string {
	w := m.wizard
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Add field"))
	b.WriteString("\n\n")

	switch w.step {
	case stepFieldName:
		b.WriteString("  Field name: " + w.input.View())
	case stepLabel:
		b.WriteString("  " + m.styles.Muted.Render(w.fieldName) + "\n")
		b.WriteString("  Label: " + w.input.View())
	case stepType:
		b.WriteString("  Type:\n")
		for i, t := range wizardTypes {
			marker := "   "
			line := string(t)
			if i == w.typeIdx {
				marker = " > "
				line = m.styles.FieldFocused.Render(line)
			}
			b.WriteString(marker + line + "\n")
		}
	case stepValue:
		b.WriteString("  Initial value: " + w.input.View())
	case stepMandatory:
		box := "[ ]"
		if w.mandatory {
			box = "[x]"
		}
		b.WriteString("  Mandatory: " + box + "\n\n")
		b.WriteString("  " + m.styles.Muted.Render("space to toggle, enter to continue"))
	case stepConfirm:
		b.WriteString("  " + m.styles.Bold.Render("Create this field?") + "\n\n")
		mandatory := "no"
		if w.mandatory {
			mandatory = "yes"
		}
		b.WriteString(fmt.Sprintf("  name:      %s\n  label:     %s\n  type:      %s\n  value:     %s\n  mandatory: %s\n",
			w.fieldName, w.label, w.fieldType(), w.value, mandatory))
		b.WriteString("\n  " + m.styles.Muted.Render("enter to create, n to cancel"))
	}
	if w.errMsg != "" {
		b.WriteString("\n\n  " + m.styles.Error.Render(w.errMsg))
	}
	return b.String()
}

func (m *Model) footerHelp() string {
	switch m.mode {
	case ModeLogin:
		return "tab switch field • enter sign in • ctrl+c quit"
	case ModeContacts:
		if m.searching {
			return "enter apply • esc clear"
		}
		return "↑/↓ move • enter open • / filter • r refresh • q quit"
	case ModeDetail:
		if m.editing {
			return "enter apply • esc cancel"
		}
		if m.detailSearching {
			return "enter apply • esc clear"
		}
		if m.tab == TabPotentials {
			return "↑/↓ move • ←/→ column • enter edit • a add • d delete • / filter • s save • tab details • esc back"
		}
		return "↑/↓ move • enter edit • ←/→ picklist • a add field • / filter • s save • tab potentials • esc back"
	case ModeWizard:
		return "enter next • esc cancel"
	}
	return ""
}
