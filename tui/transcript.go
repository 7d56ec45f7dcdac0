package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jackwu/spectra/model"
)

// refreshTranscript re-renders the log into the viewport, following the
// bottom when the user has not scrolled away from it.
func (m *Model) refreshTranscript() {
	follow := m.transcript.AtBottom()
	m.transcript.SetContent(renderTranscript(m.session.Messages(), m.transcript.Width))
	if follow {
		m.transcript.GotoBottom()
	}
}

func renderTranscript(msgs []model.Message, width int) string {
	wrap := lipgloss.NewStyle().Width(max(1, width))
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		prefix, style := lineStyle(msg.Role)
		lines = append(lines, style.Inherit(wrap).Render(prefix+msg.Text))
	}
	return strings.Join(lines, "\n")
}

func lineStyle(role model.Role) (string, lipgloss.Style) {
	switch role {
	case model.RoleAssistant:
		return "AI> ", assistantStyle
	case model.RoleUser:
		return "USER> ", userStyle
	default:
		return "", systemStyle
	}
}

// frame draws a double-line box with title set into the top border.
func frame(title, body string, width int) string {
	inner := max(4, width-2)
	label := " " + title + " "
	fill := max(0, inner-2-lipgloss.Width(label))
	top := frameStyle.Render("╔══") + frameTitleStyle.Render(label) + frameStyle.Render(strings.Repeat("═", fill)+"╗")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), false, true, true, true).
		BorderForeground(green).
		Padding(0, 1).
		Width(inner).
		Render(body)
	return top + "\n" + box
}
