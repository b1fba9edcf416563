package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top bar: logo, position and product title.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("showcase", styles.Logo)}

	switch {
	case m.loading:
		parts = append(parts, bg.Render("Loading products...", styles.WarningText.Bold(true)))
	case m.session.Empty():
		parts = append(parts, bg.Render("No products", styles.DangerText))
	default:
		index, count := m.session.Position()
		parts = append(parts, bg.Render(fmt.Sprintf("%d of %d", index+1, count), styles.AccentText.Bold(true)))
		if p, ok := m.session.Current(); ok {
			parts = append(parts, bg.Render(truncate(p.Title, max(m.width/2, 10)), styles.Text.Bold(true)))
			if p.IsAvailable {
				parts = append(parts, bg.Render("● Available", styles.SuccessText))
			} else {
				parts = append(parts, bg.Render("● Not available", styles.DangerText))
			}
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints for the current mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.focus != fieldNone:
		commands = []cmd{
			{"Enter", "Save"},
			{"Tab", "Next field"},
			{"Esc", "Done"},
			{"PgUp/PgDn", "Prev/Next"},
		}
	case m.session.Empty():
		commands = []cmd{
			{"T", "Theme"},
			{"q", "Quit"},
		}
	default:
		commands = []cmd{
			{"←/→", "Prev/Next"},
			{"g/G", "First/Last"},
			{"e", "Price"},
			{"a", "Availability"},
			{"N", "Note"},
			{"c", "Copy all"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(0, 1).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(segments, "  "))
}

// renderStatusLine renders the transient status message, or a hint when
// there is none.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	if msg, ok := m.session.Status(); ok {
		badge := styles.LevelStyle(msg.Level).Render(levelLabel(msg.Level))
		content = badge + bg.Space() + bg.Render(truncate(msg.Text, max(m.width-14, 10)), styles.LevelText(msg.Level))
	} else {
		content = bg.Render(m.theme.Name, styles.FaintText)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(0, 1).
		Width(m.width).
		MaxHeight(1).
		Render(content)
}
