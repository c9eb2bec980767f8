package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = "NearBy MKT"

// renderMain renders header, active view and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	switch m.currentView {
	case ViewReels:
		b.WriteString(m.renderReels())
	default:
		b.WriteString(m.renderSearch())
	}
	body := b.String()

	footer := m.renderFooter()
	if m.height > 0 {
		gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer)
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return body + "\n" + footer
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewSearch, ViewReels} {
		label := strings.ToUpper(v.String()[:1]) + v.String()[1:]
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Padding(0, 1).Render(label))
		}
	}

	var counts []string
	if m.favs != nil {
		counts = append(counts, fmt.Sprintf("♥ %d", len(m.favs.List())))
	}
	if m.cart != nil {
		counts = append(counts, fmt.Sprintf("🛒 %d", m.cart.TotalQty()))
	}

	left := styles.Logo.Render(logo) + "  " + strings.Join(tabs, "")
	right := styles.MutedText.Render(strings.Join(counts, "  "))
	space := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if space < 1 {
		space = 1
	}
	return styles.Header.Width(max(m.width, 1)).Render(left + strings.Repeat(" ", space) + right)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	text := m.help.View(m.keys)
	if m.flash != "" {
		text = styles.AccentText.Render(m.flash)
	}
	return styles.Footer.Width(max(m.width, 1)).Render(text)
}
