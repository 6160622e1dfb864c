package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups every style the chat view uses.
type Styles struct {
	Title     lipgloss.Style
	User      lipgloss.Style
	UserLabel lipgloss.Style
	Agent     map[string]lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Cell      lipgloss.Style
	CellTitle lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Prompt    lipgloss.Style
}

// DefaultStyles gives each persona its own color: green for Compadre, red
// for Contra, blue for Arquiteto.
func DefaultStyles() Styles {
	label := lipgloss.NewStyle().Bold(true).MarginTop(1)

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8A33D")).Padding(0, 1),
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		UserLabel: label.Foreground(lipgloss.Color("#E8A33D")),
		Agent: map[string]lipgloss.Style{
			"Compadre":  label.Foreground(lipgloss.Color("#3FA34D")),
			"Contra":    label.Foreground(lipgloss.Color("#D64545")),
			"Arquiteto": label.Foreground(lipgloss.Color("#3D7DD6")),
		},
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3D7DD6")).
			Padding(0, 1).
			MarginTop(1),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3D7DD6")),
		Cell: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		CellTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D64545")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A33D")),
	}
}

func (s Styles) agentLabel(name string) lipgloss.Style {
	if st, ok := s.Agent[name]; ok {
		return st
	}
	return lipgloss.NewStyle().Bold(true).MarginTop(1)
}
