package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all the styles used in the TUI.
type Styles struct {
	// Text styles
	Title  lipgloss.Style
	Header lipgloss.Style
	Subtle lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Host row styles
	Target   lipgloss.Style
	IP       lipgloss.Style
	Progress lipgloss.Style
	Outcome  lipgloss.Style

	// Container styles
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange

		Target: lipgloss.NewStyle().
			Foreground(lipgloss.Color("87")), // Cyan

		IP: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),

		Progress: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow

		Outcome: lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")), // Purple

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1),
	}
}

// DarkTheme returns a dark theme style set.
func DarkTheme() Styles {
	return DefaultStyles()
}

// LightTheme returns a light theme style set.
func LightTheme() Styles {
	s := DefaultStyles()

	// Adjust colors for light backgrounds
	s.Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0"))
	s.IP = lipgloss.NewStyle().Foreground(lipgloss.Color("0"))

	return s
}

// MinimalTheme returns a style set without colors.
func MinimalTheme() Styles {
	s := DefaultStyles()

	s.Title = lipgloss.NewStyle().Bold(true)
	s.Target = lipgloss.NewStyle().Bold(true)
	s.IP = lipgloss.NewStyle()
	s.Progress = lipgloss.NewStyle()
	s.Outcome = lipgloss.NewStyle().Italic(true)
	s.Success = lipgloss.NewStyle().Bold(true)
	s.Error = lipgloss.NewStyle().Bold(true)

	return s
}

// ThemeByName returns the named theme, falling back to the default.
func ThemeByName(name string) Styles {
	switch name {
	case "light":
		return LightTheme()
	case "minimal":
		return MinimalTheme()
	default:
		return DarkTheme()
	}
}
