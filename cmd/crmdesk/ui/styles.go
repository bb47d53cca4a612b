// Package ui provides the shared visual primitives for the crmdesk
// console: theme, styles, the contact table, and field presentation.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. The console mirrors the blue admin look of the web
// frontend it replaces, with a green accent reserved for the unsaved-
// changes affordance.
var (
	ColorPrimary = lipgloss.Color("#2563eb") // blue
	ColorAccent  = lipgloss.Color("#16a34a") // green, dirty/save affordance
	ColorError   = lipgloss.Color("#dc2626")
	ColorWarning = lipgloss.Color("#d97706")
	ColorMuted   = lipgloss.Color("#6b7280")
	ColorBorder  = lipgloss.Color("#374151")
	ColorWhite   = lipgloss.Color("#f9fafb")
)

// Styles holds every style the console renders with.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// SaveBar is the unsaved-changes banner shown while a record is dirty.
	SaveBar lipgloss.Style

	// Field presentation
	FieldLabel    lipgloss.Style
	FieldValue    lipgloss.Style
	FieldReadOnly lipgloss.Style
	FieldFocused  lipgloss.Style
	Mandatory     lipgloss.Style

	// Table presentation
	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style
	TableSelected lipgloss.Style

	Panel lipgloss.Style
	Badge lipgloss.Style
}

// DefaultStyles builds the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorWhite).
			Padding(0, 2).
			Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1),
		Title:    lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
		Body:     lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
		Bold:     lipgloss.NewStyle().Bold(true),

		Success: lipgloss.NewStyle().Foreground(ColorAccent),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),

		SaveBar: lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorAccent).
			Padding(0, 1).
			Bold(true),

		FieldLabel:    lipgloss.NewStyle().Foreground(ColorMuted),
		FieldValue:    lipgloss.NewStyle(),
		FieldReadOnly: lipgloss.NewStyle().Foreground(ColorMuted).Faint(true),
		FieldFocused:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		Mandatory:     lipgloss.NewStyle().Foreground(ColorError),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1),
		TableRow:    lipgloss.NewStyle().Padding(0, 1),
		TableSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorWhite).
			Background(ColorPrimary).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2),
		Badge: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
	}
}

// NoColor reports whether color output should be suppressed.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
