// Package ui provides the Bubble Tea terminal front end for nearby.
//
// # Views
//
// The Search view is the header search box: a text input that forwards every
// keystroke to search.Engine.SetQuery, a dropdown with live suggestions (or
// trending and recent terms while the input is empty), and a results list
// after submitting. Favorites and cart quantities are toggled on the
// highlighted result.
//
// The Reels view shows the active item of reels.Feed as a card. Videos show
// song, profile, caption and engagement; ads show brand, title and call to
// action. Double tap is two presses of d inside the feed's double tap window
// and draws a short heart burst.
//
// # Data Flow
//
// Suggestions are computed on the debounce timer goroutine. The engine
// callback pushes the newest snapshot into a one-slot channel and a blocking
// command turns it into a suggestionsMsg, so the model is only touched from
// the Bubble Tea loop.
//
// # Keyboard Shortcuts
//
// Global:
//   - tab: Switch between Search and Reels
//   - T: Cycle theme (Dracula, Nightfox, Kanagawa, Slate)
//   - ?: Toggle help
//   - q, ctrl+c: Quit
//
// Search:
//   - /: Focus the search box; esc leaves it
//   - up/down: Move through the dropdown; enter submits the highlighted term
//   - j/k: Move through results
//   - f: Toggle favorite, a/x: Add to or remove from cart
//   - C: Clear recent searches
//
// Reels:
//   - j/k: Next/previous reel
//   - space: Play/pause, m: Mute
//   - l: Like, d d: Double tap like, s: Save
//   - c: Comment, y: Copy share link
//
// Theme, mute state and the last view are saved to prefs.toml as they change.
package ui
