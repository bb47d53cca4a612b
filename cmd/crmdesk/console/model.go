// Package console implements the interactive terminal frontend: login,
// contact list, record detail with change tracking, the potentials tab,
// and the add-field wizard.
package console

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/cmd/crmdesk/ui"
	"crmdesk/internal/record"
	"crmdesk/internal/session"
	"crmdesk/internal/vtiger"
)

// ViewMode identifies the screen currently shown.
type ViewMode int

const (
	ModeLogin ViewMode = iota
	ModeContacts
	ModeDetail
	ModeWizard
)

// DetailTab selects between the field list and the potentials list on
// the detail screen.
type DetailTab int

const (
	TabFields DetailTab = iota
	TabPotentials
)

// Model is the bubbletea model for the whole console.
type Model struct {
	client *vtiger.Client
	store  *session.Store
	logger *zap.Logger
	styles ui.Styles

	mode   ViewMode
	width  int
	height int

	// login screen
	loginInputs [2]textinput.Model
	loginFocus  int
	loggingIn   bool

	// contact list
	contacts  []vtiger.Contact
	table     ui.Table
	search    textinput.Model
	searching bool
	loading   bool
	spinner   spinner.Model

	// record detail. activeID guards against stale record responses:
	// a load result for any other id is dropped on arrival.
	activeID        string
	tracker         *record.Tracker
	ptracker        *record.PotentialTracker
	tab             DetailTab
	fieldCursor     int
	potCursor       int
	editing         bool
	editInput       textinput.Model
	editFieldName   string
	editPotID       string
	potColumn       int
	pendingSaves    int
	unsaved         bool
	fieldSearch     textinput.Model
	detailSearching bool

	wizard wizardState

	status string
	errMsg string
}

// Options configures a console Model.
type Options struct {
	Client *vtiger.Client
	Store  *session.Store
	Logger *zap.Logger
	// Session resumes an existing login and skips the login screen.
	Session string
}

// New builds the console model. With a resumable session the contact
// list loads immediately; otherwise the login form is shown.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	username.CharLimit = 64
	accessKey := textinput.New()
	accessKey.Placeholder = "access key"
	accessKey.EchoMode = textinput.EchoPassword
	accessKey.CharLimit = 64

	search := textinput.New()
	search.Placeholder = "filter contacts"
	search.CharLimit = 64

	fieldSearch := textinput.New()
	fieldSearch.Placeholder = "filter fields"
	fieldSearch.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		client:      opts.Client,
		store:       opts.Store,
		logger:      logger,
		styles:      ui.DefaultStyles(),
		mode:        ModeLogin,
		loginInputs: [2]textinput.Model{username, accessKey},
		search:      search,
		fieldSearch: fieldSearch,
		spinner:     sp,
		tracker:     record.NewTracker(),
		ptracker:    record.NewPotentialTracker(),
		table: ui.NewTable([]ui.Column{
			{Title: "Name", Width: 28},
			{Title: "Email", Width: 30},
			{Title: "Phone", Width: 16},
			{Title: "Assigned To", Width: 18},
		}),
	}
	m.wireDirtySignal()
	if opts.Session != "" {
		m.client.SetSession(opts.Session)
		m.mode = ModeContacts
		m.loading = true
	}
	return m
}

// wireDirtySignal registers the trackers' dirty-transition callbacks
// so the unsaved-changes banner reflects either tracker flipping.
func (m *Model) wireDirtySignal() {
	onDirty := func(bool) {
		m.unsaved = m.tracker.IsDirty() || m.ptracker.IsDirty()
	}
	m.tracker.OnDirtyChange(onDirty)
	m.ptracker.OnDirtyChange(onDirty)
}

// Init starts the initial load when a session was resumed.
func (m *Model) Init() tea.Cmd {
	if m.mode == ModeContacts {
		return tea.Batch(m.spinner.Tick, m.loadContactsCmd())
	}
	return textinput.Blink
}

// dirty reports whether either tracker has uncommitted changes for the
// active record. The flag is maintained by the OnDirtyChange callbacks.
func (m *Model) dirty() bool {
	return m.unsaved
}

// saving reports whether any save request is still in flight.
func (m *Model) saving() bool {
	return m.pendingSaves > 0
}

func (m *Model) resetDetail(id string) {
	m.activeID = id
	m.tracker = record.NewTracker()
	m.ptracker = record.NewPotentialTracker()
	m.wireDirtySignal()
	m.unsaved = false
	m.tab = TabFields
	m.fieldCursor = 0
	m.potCursor = 0
	m.editing = false
	m.pendingSaves = 0
	m.detailSearching = false
	m.fieldSearch.SetValue("")
}

// visibleFields applies the detail search filter to the field list.
func (m *Model) visibleFields() []record.FieldDescriptor {
	return record.FilterFields(m.tracker.Fields(), m.tracker.Values(), m.fieldSearch.Value())
}

// visiblePotentials applies the detail search filter to the potentials.
func (m *Model) visiblePotentials() []record.Potential {
	return record.FilterPotentials(m.ptracker.Items(), m.fieldSearch.Value())
}

// potIndex maps a potential id back to its position in the unfiltered
// tracker list, which is what the tracker mutators take.
func (m *Model) potIndex(id string) int {
	for i, p := range m.ptracker.Items() {
		if p.ID == id {
			return i
		}
	}
	return -1
}
