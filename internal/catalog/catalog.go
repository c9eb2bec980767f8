// Package catalog holds the immutable, searchable set of shops and listings.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultLimit caps the number of suggestions returned by Search.
const DefaultLimit = 8

// ID identifies a catalog entry. Fixtures use both strings and numbers, so
// decoding accepts either and keeps the decimal text form of numbers.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts scalar ids of any type.
func (id *ID) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw == nil {
		*id = ""
		return nil
	}
	*id = ID(fmt.Sprint(raw))
	return nil
}

// Entry is a single searchable record.
type Entry struct {
	ID       ID     `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// Index is an ordered, read-only view over catalog entries. The zero value is
// an empty index.
type Index struct {
	entries []Entry
	folded  []foldedEntry
	byID    map[ID]int
}

type foldedEntry struct {
	name     string
	category string
}

// NewIndex copies entries into a new index. When two entries share an ID the
// first one wins.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		entries: make([]Entry, 0, len(entries)),
		folded:  make([]foldedEntry, 0, len(entries)),
		byID:    make(map[ID]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := idx.byID[e.ID]; dup {
			continue
		}
		idx.byID[e.ID] = len(idx.entries)
		idx.entries = append(idx.entries, e)
		idx.folded = append(idx.folded, foldedEntry{
			name:     fold(e.Name),
			category: fold(e.Category),
		})
	}
	return idx
}

// Len returns the number of entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Entries returns a copy of all entries in insertion order.
func (x *Index) Entries() []Entry {
	if x == nil || len(x.entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(x.entries))
	copy(dup, x.entries)
	return dup
}

// Lookup finds an entry by ID.
func (x *Index) Lookup(id ID) (Entry, bool) {
	if x == nil {
		return Entry{}, false
	}
	i, ok := x.byID[id]
	if !ok {
		return Entry{}, false
	}
	return x.entries[i], true
}

type rank int

const (
	rankNamePrefix rank = iota
	rankNameContains
	rankCategory
	rankNone
)

// Search returns up to limit entries whose name or category contains query,
// ignoring case. Name prefix matches come first, then name substring matches,
// then category-only matches; each group keeps catalog order. A blank query
// matches nothing and a non-positive limit means DefaultLimit.
func (x *Index) Search(query string, limit int) []Entry {
	if x == nil {
		return nil
	}
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	type hit struct {
		pos  int
		rank rank
	}
	var hits []hit
	for i, f := range x.folded {
		if r := match(f, q); r != rankNone {
			hits = append(hits, hit{pos: i, rank: r})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].rank < hits[b].rank
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = x.entries[h.pos]
	}
	return out
}

func match(f foldedEntry, q string) rank {
	switch {
	case strings.HasPrefix(f.name, q):
		return rankNamePrefix
	case strings.Contains(f.name, q):
		return rankNameContains
	case strings.Contains(f.category, q):
		return rankCategory
	default:
		return rankNone
	}
}

// fold builds a fresh Caser per call; Casers are stateful and must not be
// shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}
