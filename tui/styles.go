package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the view.
type Styles struct {
	Sets   lipgloss.Style
	Label  lipgloss.Style
	Prompt lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
}

// NewStyles returns the default palette, or unstyled text when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Sets:   plain,
			Label:  plain,
			Prompt: plain,
			Output: plain,
			Error:  plain,
			Status: plain,
		}
	}
	return Styles{
		Sets: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Output: lipgloss.NewStyle(),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Status: lipgloss.NewStyle().Faint(true),
	}
}
