package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Highlight             *lipgloss.Style
	Tag                   *lipgloss.Style
	Meta                  *lipgloss.Style
	Attached              *lipgloss.Style
	Child                 *lipgloss.Style
	Error                 *lipgloss.Style
	Warning               *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	Confirm               *lipgloss.Style
	HelpKey               *lipgloss.Style
	HelpText              *lipgloss.Style
	PreviewBorder         *lipgloss.Style
	PreviewTitle          *lipgloss.Style
	PreviewBody           *lipgloss.Style
	PreviewError          *lipgloss.Style
}

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Highlight: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	Tag: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	),
	Meta: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Attached: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Child: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Confirm: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	HelpKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	HelpText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PreviewBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	PreviewTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PreviewBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	PreviewError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
