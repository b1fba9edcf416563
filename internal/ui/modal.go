package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/showcase/internal/status"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// ackModal blocks input until the user acknowledges its message.
type ackModal struct {
	title string
	body  string
	level status.Level
}

func newAckModal(title, body string, level status.Level) ackModal {
	return ackModal{title: title, body: body, level: level}
}

func (a ackModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil, false
	}
	if key.Matches(keyMsg, keys.Confirm, keys.Escape) || keyMsg.String() == " " {
		return a, nil, true
	}
	return a, nil, false
}

func (a ackModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.LevelText(a.level).Bold(true).Render(a.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(40).Render(a.body))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: OK"))

	border := theme.Accent
	if a.level == status.LevelError {
		border = theme.Danger
	}
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(48)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
