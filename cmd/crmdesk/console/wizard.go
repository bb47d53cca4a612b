package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/record"
)

// wizardStep is one screen of the add-field wizard.
type wizardStep int

const (
	stepFieldName wizardStep = iota
	stepLabel
	stepType
	stepValue
	stepMandatory
	stepConfirm
)

// wizardTypes is the selectable type list, in display order.
var wizardTypes = []record.FieldType{
	record.TypeString,
	record.TypeText,
	record.TypeNumber,
	record.TypeBoolean,
	record.TypeDate,
	record.TypeEmail,
	record.TypePhone,
}

type wizardState struct {
	step      wizardStep
	input     textinput.Model
	fieldName string
	label     string
	typeIdx   int
	value     string
	mandatory bool
	errMsg    string
}

func newWizard() wizardState {
	in := textinput.New()
	in.Placeholder = "field_name"
	in.Focus()
	in.CharLimit = 64
	return wizardState{step: stepFieldName, input: in}
}

func (w wizardState) fieldType() record.FieldType {
	return wizardTypes[w.typeIdx]
}

// descriptor builds the field value submitted to createField.
func (w wizardState) descriptor() record.FieldValue {
	value := w.value
	if w.fieldType() == record.TypeBoolean {
		// Booleans always submit a canonical value.
		value = record.FormatBool(record.ParseBool(w.value))
	}
	return record.FieldValue{
		FieldName: w.fieldName,
		Label:     w.label,
		Type:      w.fieldType(),
		Value:     value,
		Mandatory: w.mandatory,
	}
}

func (m *Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	w := &m.wizard

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = ModeDetail
		return m, nil
	}

	switch w.step {
	case stepFieldName:
		if key.String() == "enter" {
			name := strings.TrimSpace(w.input.Value())
			if !record.ValidFieldName(name) {
				w.errMsg = "field name must be letters, digits or underscores"
				return m, nil
			}
			if _, exists := m.tracker.Field(name); exists {
				w.errMsg = "field " + name + " already exists"
				return m, nil
			}
			w.fieldName = name
			w.errMsg = ""
			w.step = stepLabel
			w.input = textinput.New()
			w.input.Placeholder = "Display Label"
			w.input.Focus()
			w.input.CharLimit = 64
			return m, textinput.Blink
		}
	case stepLabel:
		if key.String() == "enter" {
			label := strings.TrimSpace(w.input.Value())
			if label == "" {
				w.errMsg = "label is required"
				return m, nil
			}
			w.label = label
			w.errMsg = ""
			w.step = stepType
			return m, nil
		}
	case stepType:
		switch key.String() {
		case "up", "k":
			if w.typeIdx > 0 {
				w.typeIdx--
			}
			return m, nil
		case "down", "j":
			if w.typeIdx < len(wizardTypes)-1 {
				w.typeIdx++
			}
			return m, nil
		case "enter":
			w.step = stepValue
			w.input = textinput.New()
			if w.fieldType() == record.TypeBoolean {
				w.input.Placeholder = "true or false (optional)"
			} else {
				w.input.Placeholder = "initial value"
			}
			w.input.Focus()
			w.input.CharLimit = 512
			return m, textinput.Blink
		}
		return m, nil
	case stepValue:
		if key.String() == "enter" {
			value := strings.TrimSpace(w.input.Value())
			// Every type except boolean needs an initial value; an
			// unchecked box is a legitimate starting state.
			if value == "" && w.fieldType() != record.TypeBoolean {
				w.errMsg = "an initial value is required"
				return m, nil
			}
			w.value = value
			w.errMsg = ""
			w.step = stepMandatory
			return m, nil
		}
	case stepMandatory:
		switch key.String() {
		case " ", "y", "n":
			w.mandatory = !w.mandatory
		case "enter":
			w.step = stepConfirm
		}
		return m, nil
	case stepConfirm:
		switch key.String() {
		case "enter", "y":
			m.mode = ModeDetail
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.createFieldCmd(m.activeID, w.descriptor()))
		case "n":
			m.mode = ModeDetail
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return m, cmd
}
