package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
}

// ActiveTheme wraps the current theme selection
type ActiveTheme struct {
	Theme Theme
}

// Current holds the active theme
var Current = ActiveTheme{Theme: Default()}

// Default returns the default palette (Nord-ish blues)
func Default() Theme {
	return Theme{
		Name:       "default",
		Foreground: lipgloss.Color("#D8DEE9"),
		Subtle:     lipgloss.Color("#4C566A"),
		Border:     lipgloss.Color("#434C5E"),
		Primary:    lipgloss.Color("#88C0D0"),
		Secondary:  lipgloss.Color("#81A1C1"),
		Success:    lipgloss.Color("#A3BE8C"),
		Warning:    lipgloss.Color("#EBCB8B"),
		Error:      lipgloss.Color("#BF616A"),
		Info:       lipgloss.Color("#5E81AC"),
	}
}
