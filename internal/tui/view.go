package tui

import "strings"

// maxDialogWidth keeps long git output readable on wide terminals.
const maxDialogWidth = 100

func (m ErrorDialog) View() string {
	if m.dismissed {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.TitleStyle().Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.styles.MessageStyle().Render(m.message))
	b.WriteString("\n")
	b.WriteString(m.styles.HintStyle().Render("You can open an issue about it if you want to."))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.StatusStyle(m.statusError).Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	box := m.styles.BoxStyle()
	if w := m.boxWidth(); w > 0 {
		box = box.Width(w)
	}
	return box.Render(b.String()) + "\n"
}

func (m ErrorDialog) boxWidth() int {
	if m.width <= 0 {
		return 0
	}
	// border and padding take 6 columns
	w := m.width - 6
	if w > maxDialogWidth {
		w = maxDialogWidth
	}
	if w < 20 {
		return 0
	}
	return w
}
