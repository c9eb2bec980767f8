package search

import (
	"strings"

	"github.com/five82/nearby/internal/catalog"
)

// DropdownMode says which panel the search dropdown shows.
type DropdownMode int

const (
	// DropdownDiscover shows trending and recent terms for an empty query.
	DropdownDiscover DropdownMode = iota
	// DropdownSuggestions shows live catalog matches.
	DropdownSuggestions
)

// EmptyHint is shown when a typed query has no suggestions.
const EmptyHint = "No results. Press Enter to search all."

// Dropdown is what the search box shows under the input.
type Dropdown struct {
	Mode        DropdownMode
	Suggestions []catalog.Entry
	Hint        string
	Trending    []string
	Recent      []string
}

// Dropdown describes the panel for the current input.
func (e *Engine) Dropdown() Dropdown {
	snap := e.Snapshot()
	if strings.TrimSpace(snap.Query) == "" {
		return Dropdown{
			Mode:     DropdownDiscover,
			Trending: snap.Trending,
			Recent:   snap.Recent,
		}
	}
	d := Dropdown{Mode: DropdownSuggestions, Suggestions: snap.Suggestions}
	if len(d.Suggestions) == 0 {
		d.Hint = EmptyHint
	}
	return d
}
