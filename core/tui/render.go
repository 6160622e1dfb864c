package tui

import (
	"strings"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func newRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	for _, msg := range m.history {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderMessage(msg conversation.Message) string {
	switch {
	case msg.Role == conversation.RoleUser:
		return m.styles.UserLabel.Render("Você") + "\n" + m.styles.User.Render(msg.Content)
	case msg.Type == conversation.TypeMission:
		return m.renderMission(msg)
	case msg.Type == conversation.TypeCanvas:
		return m.renderCanvas(msg)
	default:
		return m.styles.agentLabel(msg.AgentName).Render(msg.AgentName) + "\n" + m.markdown(msg.Content)
	}
}

func (m Model) markdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderMission(msg conversation.Message) string {
	mission, err := msg.Mission()
	if err != nil {
		return m.renderRawArtifact("Missão", msg)
	}
	body := m.styles.CardTitle.Render("🎯 Missão: "+mission.Title) + "\n" + mission.Description
	return m.styles.Card.Width(m.cardWidth()).Render(body)
}

func (m Model) renderCanvas(msg conversation.Message) string {
	canvas, err := msg.Canvas()
	if err != nil {
		return m.renderRawArtifact("Canvas", msg)
	}

	cellWidth := m.cardWidth()/2 - 2
	cell := func(title, text string) string {
		return m.styles.Cell.Width(cellWidth).Render(m.styles.CellTitle.Render(title) + "\n" + text)
	}

	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cell("Problema", canvas.Problem), cell("Solução", canvas.Solution)),
		lipgloss.JoinHorizontal(lipgloss.Top, cell("Público", canvas.Audience), cell("Diferencial", canvas.Differential)),
	)
	return m.styles.Card.Render(m.styles.CardTitle.Render("📋 Lean Canvas") + "\n" + grid)
}

func (m Model) renderRawArtifact(title string, msg conversation.Message) string {
	return m.styles.Card.Width(m.cardWidth()).Render(m.styles.CardTitle.Render(title) + "\n" + string(msg.Data))
}

func (m Model) cardWidth() int {
	w := m.viewport.Width - 4
	if w < 24 {
		w = 24
	}
	return w
}
