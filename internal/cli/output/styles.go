package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
}

// newStyles builds the style set. When colored is false every style is a
// no-op so that piped output stays clean.
func newStyles(colored bool) Styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return Styles{
			Header1: plain,
			Header2: plain,
			Bold:    plain,
			Muted:   plain,
			Error:   plain,
			Warning: plain,
			Success: plain,
			Info:    plain,
		}
	}

	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Underline(true),
		Header2: lipgloss.NewStyle().Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}
