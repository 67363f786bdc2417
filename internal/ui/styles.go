package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	Doc     lipgloss.Style
	Title   lipgloss.Style
	Status  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles picks a palette suited to the terminal background.
func NewStyles() Styles {
	if termenv.HasDarkBackground() {
		return newPalette("#3B82F6", "#64748B", "#10B981", "#F87171")
	}
	return newPalette("#1D4ED8", "#475569", "#047857", "#B91C1C")
}

func newPalette(title, status, success, errColor string) Styles {
	return Styles{
		Doc:     lipgloss.NewStyle().Margin(1, 2),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(title)).Bold(true),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color(status)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(success)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(errColor)).Bold(true),
	}
}
