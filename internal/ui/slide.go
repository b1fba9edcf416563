package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/showcase/internal/catalog"
	"github.com/five82/showcase/internal/imageload"
	"github.com/five82/showcase/internal/source"
)

// renderMain renders the full screen: header, command bar, slide, status.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// contentHeight is what remains below the two bars and above the status line.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// paneWidths splits the width between the image and the detail pane. On
// narrow terminals both panes take the full width and stack.
func (m Model) paneWidths() (image, detail int) {
	if m.width < LayoutCompactWidth {
		return m.width, m.width
	}
	image = max(m.width*3/5, minImageWidth)
	return image, m.width - image
}

func (m Model) renderContent() string {
	height := m.contentHeight()
	switch {
	case m.loading:
		return m.renderMessageBox("Products", []string{"Loading products..."}, height)
	case m.session.Empty():
		return m.renderEmpty(height)
	}

	p, _ := m.session.Current()
	imageWidth, detailWidth := m.paneWidths()
	if m.width < LayoutCompactWidth {
		detailHeight := min(9, height/2)
		imagePane := m.renderImagePane(p, imageWidth, height-detailHeight)
		detailPane := m.renderDetailPane(detailWidth, detailHeight)
		return lipgloss.JoinVertical(lipgloss.Left, imagePane, detailPane)
	}
	imagePane := m.renderImagePane(p, imageWidth, height)
	detailPane := m.renderDetailPane(detailWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, imagePane, detailPane)
}

// renderEmpty is the terminal screen shown when nothing could be loaded.
func (m Model) renderEmpty(height int) string {
	lines := []string{"No products available"}
	if err := m.session.LoadErr(); err != nil && !errors.Is(err, catalog.ErrEmptyCatalog) {
		var loadErr *source.LoadError
		if errors.As(err, &loadErr) {
			lines = append(lines, "", "Could not read "+loadErr.Location, loadErr.Err.Error())
		} else {
			lines = append(lines, "", err.Error())
		}
	}
	return m.renderMessageBox("Products", lines, height)
}

func (m Model) renderMessageBox(title string, lines []string, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	innerWidth := max(m.width-4, 1)
	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		style := styles.MutedText
		if i == 0 {
			style = styles.Text.Bold(true)
		}
		rendered = append(rendered, style.Width(innerWidth).Align(lipgloss.Center).Render(truncate(line, innerWidth)))
	}
	padTop := max((height-2-len(rendered))/2, 0)
	content := strings.Repeat("\n", padTop) + strings.Join(rendered, "\n")
	return m.renderTitledBox(title, content, m.width, height, false)
}

// renderImagePane draws the product image with its title as caption. The
// image is dimmed while a newer one loads.
func (m Model) renderImagePane(p catalog.Product, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	innerWidth := max(width-2, 1)
	imageRows := max(height-3, 1) // borders + caption

	frame := m.session.Frame()
	art := imageload.Render(frame.Image, innerWidth, imageRows, frame.State == imageload.StateLoading)

	var caption string
	switch frame.State {
	case imageload.StateLoading:
		caption = styles.WarningText.Render("Loading image...")
	case imageload.StateFailed:
		caption = styles.DangerText.Render("Image unavailable")
	default:
		caption = styles.MutedText.Render(truncate(p.Title, innerWidth))
	}
	caption = lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(caption)

	return m.renderTitledBox(truncate(p.Title, max(innerWidth-4, 1)), art+"\n"+caption, width, height, false)
}

// renderDetailPane draws the editable fields of the current product.
func (m Model) renderDetailPane(width, height int) string {
	focused := m.focus != fieldNone
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	innerWidth := max(width-2, 1)

	label := func(text string, active bool) string {
		style := styles.MutedText
		if active {
			style = styles.AccentText.Bold(true)
		}
		return style.Width(fieldLabelWidth).Render(text)
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, bg.Space()+label("Price", m.focus == fieldPrice)+m.priceInput.View())

	check := "[ ]"
	checkStyle := styles.MutedText
	if m.notAvailable {
		check = "[x]"
		checkStyle = styles.DangerText
	}
	lines = append(lines, "")
	lines = append(lines, bg.Space()+label("Not available", false)+bg.Render(check, checkStyle))

	lines = append(lines, "")
	lines = append(lines, bg.Space()+label("Note", m.focus == fieldNote)+m.noteInput.View())

	if p, ok := m.session.Current(); ok {
		lines = append(lines, "", "")
		lines = append(lines, bg.Space()+bg.Render("Shared as", styles.FaintText))
		for _, line := range strings.Split(catalog.Export([]catalog.Product{p}, m.session.Currency()), "\n") {
			if strings.HasPrefix(line, "---") || line == "" {
				continue
			}
			lines = append(lines, bg.Space()+bg.Render(truncate(singleLine(line), innerWidth-2), styles.MutedText))
		}
	}

	return m.renderTitledBox("Details", strings.Join(lines, "\n"), width, height, focused)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
