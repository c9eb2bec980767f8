package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/search"
)

// dropdownRow is one selectable line under the search box.
type dropdownRow struct {
	term  string
	entry *catalog.Entry
}

func (m Model) dropdownRows() []dropdownRow {
	d := m.dropdown
	if d.Mode == search.DropdownSuggestions {
		rows := make([]dropdownRow, len(d.Suggestions))
		for i := range d.Suggestions {
			e := d.Suggestions[i]
			rows[i] = dropdownRow{term: e.Name, entry: &e}
		}
		return rows
	}
	rows := make([]dropdownRow, 0, len(d.Trending)+len(d.Recent))
	for _, t := range d.Trending {
		rows = append(rows, dropdownRow{term: t})
	}
	for _, r := range d.Recent {
		rows = append(rows, dropdownRow{term: r})
	}
	return rows
}

func (m Model) dropdownLen() int {
	return len(m.dropdownRows())
}

// handleSearchInputKey handles keys while the search box has focus.
func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.selected = -1
		if len(m.results) > 0 {
			m.selected = 0
		}
		return m, nil
	case "tab":
		return m.switchView()
	case "up", "ctrl+p":
		if n := m.dropdownLen(); n > 0 {
			if m.selected <= 0 {
				m.selected = n - 1
			} else {
				m.selected--
			}
		}
		return m, nil
	case "down", "ctrl+n":
		if n := m.dropdownLen(); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	case "enter":
		return m.submitSearch()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.search.SetQuery(after)
		m.selected = -1
		m.dropdown = m.search.Dropdown()
	}
	return m, cmd
}

// submitSearch runs the highlighted dropdown term, or the typed query when
// nothing is highlighted.
func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	var (
		nav search.Navigation
		ok  bool
	)
	rows := m.dropdownRows()
	if m.selected >= 0 && m.selected < len(rows) {
		nav, ok = m.search.SubmitTerm(rows[m.selected].term)
	} else {
		nav, ok = m.search.Submit()
	}
	if !ok {
		return m, nil
	}
	m.lastNav = nav
	m.results = m.catalog.Search(nav.Query, m.catalog.Len())
	m.input.SetValue(nav.Query)
	m.input.Blur()
	m.selected = -1
	if len(m.results) > 0 {
		m.selected = 0
	}
	m.dropdown = m.search.Dropdown()
	return m, nil
}

// handleSearchKey handles keys on the results list.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/", "i":
		m.selected = -1
		return m, m.input.Focus()
	case "j", "down":
		if m.selected < len(m.results)-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "C":
		m.search.ClearRecent()
		m.dropdown = m.search.Dropdown()
		return m, m.setFlash("Recent searches cleared")
	case "f":
		entry, ok := m.selectedResult()
		if !ok || m.favs == nil {
			return m, nil
		}
		if m.favs.Toggle(entry.ID) {
			return m, m.setFlash("Added " + entry.Name + " to favorites")
		}
		return m, m.setFlash("Removed " + entry.Name + " from favorites")
	case "a", "+", "x", "-":
		entry, ok := m.selectedResult()
		if !ok || m.cart == nil {
			return m, nil
		}
		delta := 1
		if s := msg.String(); s == "x" || s == "-" {
			delta = -1
		}
		qty := m.cart.Add(entry.ID, delta)
		return m, m.setFlash(fmt.Sprintf("%s × %d in cart", entry.Name, qty))
	}
	return m, nil
}

func (m Model) selectedResult() (catalog.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.results) {
		return catalog.Entry{}, false
	}
	return m.results[m.selected], true
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	var b strings.Builder

	box := styles.Card
	if m.input.Focused() {
		box = styles.FocusCard
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")

	if m.input.Focused() {
		b.WriteString(m.renderDropdown())
		return b.String()
	}
	b.WriteString(m.renderResults())
	return b.String()
}

func (m Model) renderDropdown() string {
	styles := m.theme.Styles()
	rows := m.dropdownRows()
	var b strings.Builder

	if m.dropdown.Mode == search.DropdownSuggestions {
		if m.dropdown.Hint != "" {
			b.WriteString(styles.FaintText.Render(m.dropdown.Hint))
			return styles.Card.Render(b.String())
		}
		for i, row := range rows {
			line := fmt.Sprintf("%-32s %s", row.entry.Name, styles.MutedText.Render(row.entry.Category))
			b.WriteString(m.selectable(i, line))
			b.WriteString("\n")
		}
		return styles.Card.Render(strings.TrimRight(b.String(), "\n"))
	}

	b.WriteString(styles.AccentText.Bold(true).Render("Trending"))
	b.WriteString("\n")
	chips := make([]string, 0, len(m.dropdown.Trending))
	for i, t := range m.dropdown.Trending {
		if i == m.selected {
			chips = append(chips, styles.Selected.Padding(0, 1).Render(t))
			continue
		}
		chips = append(chips, styles.Chip.Render(t))
	}
	b.WriteString(strings.Join(chips, " "))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Recent"))
	b.WriteString("\n")
	if len(m.dropdown.Recent) == 0 {
		b.WriteString(styles.FaintText.Render("No recent searches"))
	}
	offset := len(m.dropdown.Trending)
	for i, r := range m.dropdown.Recent {
		b.WriteString(m.selectable(offset+i, "↺ "+r))
		b.WriteString("\n")
	}
	return styles.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderResults() string {
	styles := m.theme.Styles()
	if m.lastNav.Query == "" {
		return styles.FaintText.Render("Press / to search. Tab switches to reels.")
	}
	var b strings.Builder
	b.WriteString(styles.MutedText.Render(m.lastNav.Path))
	b.WriteString("\n")
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("%d results for %q", len(m.results), m.lastNav.Query)))
	b.WriteString("\n\n")
	for i, e := range m.results {
		marks := ""
		if m.favs != nil && m.favs.Has(e.ID) {
			marks += styles.HeartText.Render(" ♥")
		}
		if m.cart != nil {
			if qty := m.cart.Qty(e.ID); qty > 0 {
				marks += styles.SuccessText.Render(fmt.Sprintf(" 🛒%d", qty))
			}
		}
		line := fmt.Sprintf("%-32s %-12s", e.Name, e.Category)
		b.WriteString(m.selectable(i, line) + marks)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) selectable(i int, line string) string {
	styles := m.theme.Styles()
	if i == m.selected {
		return styles.Selected.Render("› " + line)
	}
	return styles.Text.Render("  " + line)
}
