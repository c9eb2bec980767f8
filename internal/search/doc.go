// Package search implements the header search box behaviour: live catalog
// suggestions while typing, a recent-search history, and the trending terms
// shown before anything is typed.
//
// SetQuery is called on every keystroke. It stores the raw text right away and
// recomputes suggestions only after the input has been quiet for the debounce
// window (200ms by default); the OnSuggestions callback then receives a
// snapshot from the timer goroutine. Search is the pure lookup behind it.
//
// Submit and SubmitTerm trim the query, record it in the recent list and
// return the results path the caller should navigate to. A blank query is a
// no-op.
//
// Recent searches are persisted through kv under RecentKey as a JSON array of
// strings. Storage problems are logged and otherwise ignored.
package search
