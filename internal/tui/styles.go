package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#00875F")
	ColorSecondary = lipgloss.Color("#5F87AF")
	ColorDanger    = lipgloss.Color("#D75F5F")
	ColorMuted     = lipgloss.Color("#6C6C6C")
	ColorBorder    = lipgloss.Color("#444444")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Underline(true).
			Padding(0, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Width(26)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	NegativeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	SectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger).
			Padding(1, 2)
)
