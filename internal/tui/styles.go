package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorMuted  = lipgloss.Color("#808495")
	ColorText   = lipgloss.Color("#E6E6EA")
	ColorAccent = lipgloss.Color("#FF4B4B")
	ColorRed    = lipgloss.Color("#F38BA8")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	DetailStyle = lipgloss.NewStyle().
			Padding(0, 2)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)
)
