package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	SwitchView key.Binding
	Escape     key.Binding

	// Search view
	FocusInput     key.Binding
	Up             key.Binding
	Down           key.Binding
	Submit         key.Binding
	ToggleFavorite key.Binding
	AddToCart      key.Binding
	RemoveFromCart key.Binding
	ClearRecent    key.Binding

	// Reels view
	Next      key.Binding
	Prev      key.Binding
	Mute      key.Binding
	PlayPause key.Binding
	Like      key.Binding
	Save      key.Binding
	Comment   key.Binding
	DoubleTap key.Binding
	Share     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Search/Reels"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave input"),
		),

		FocusInput: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Type a search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "Previous suggestion"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "Next suggestion"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Search"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favorite shop"),
		),
		AddToCart: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a", "Add to cart"),
		),
		RemoveFromCart: key.NewBinding(
			key.WithKeys("x", "-"),
			key.WithHelp("x", "Remove from cart"),
		),
		ClearRecent: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear recent"),
		),

		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "Next reel"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "Previous reel"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Mute/unmute"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Play/pause"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Like"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Save to favourites"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Comment"),
		),
		DoubleTap: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Tap (twice to like)"),
		),
		Share: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy share link"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Search
		{k.FocusInput, k.Up, k.Down, k.Submit, k.Escape},
		{k.ToggleFavorite, k.AddToCart, k.RemoveFromCart, k.ClearRecent},
		// Reels
		{k.Next, k.Prev, k.PlayPause, k.Mute},
		{k.Like, k.DoubleTap, k.Save, k.Comment, k.Share},
		// General
		{k.SwitchView, k.CycleTheme, k.Help, k.Quit},
	}
}
