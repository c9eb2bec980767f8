package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nearby/internal/reels"
)

// handleReelsKey handles keys on the reel feed.
func (m Model) handleReelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active, ok := m.feed.Active()
	switch msg.String() {
	case "j", "down":
		m.feed.Next()
	case "k", "up":
		m.feed.Prev()
	case "m":
		m.prefs.Muted = m.feed.ToggleMute()
		m.savePrefs()
	case " ":
		m.feed.TogglePlayback()
	case "l":
		if ok {
			m.feed.ToggleLike(active.ID)
		}
	case "s":
		if ok && m.feed.ToggleFavorite(active.ID) {
			if v, _ := m.feed.Active(); isFaved(v) {
				return m, m.setFlash("Saved to favourites")
			}
			return m, m.setFlash("Removed from favourites")
		}
	case "c":
		if ok && !active.IsAd() {
			m.commenting = true
			m.commentInput.SetValue("")
			return m, m.commentInput.Focus()
		}
	case "d":
		if ok && m.feed.Tap(active.ID, m.now()) {
			m.heartUntil = m.now().Add(heartBurst)
			return m, tea.Tick(heartBurst, func(time.Time) tea.Msg { return heartDoneMsg{} })
		}
	case "y":
		return m, m.shareCmd()
	}
	return m, nil
}

// handleCommentKey handles keys while the comment box has focus.
func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commenting = false
		m.commentInput.Blur()
		return m, nil
	case "enter":
		active, ok := m.feed.Active()
		text := m.commentInput.Value()
		if !ok || !m.feed.AddComment(active.ID, text) {
			// Blank comments keep the box open.
			return m, nil
		}
		m.commenting = false
		m.commentInput.Blur()
		m.commentInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m Model) shareCmd() tea.Cmd {
	ctx, feed, log := m.ctx, m.feed, m.log
	return func() tea.Msg {
		p, err := feed.Share(ctx)
		if err != nil {
			log.Warn("share reel", zap.Error(err))
			if p.URL != "" {
				return flashMsg{text: "Share failed. Link: " + p.URL}
			}
			return flashMsg{text: "Nothing to share"}
		}
		return flashMsg{text: "Link copied: " + p.URL}
	}
}

func isFaved(it reels.Item) bool {
	v, ok := it.Video()
	return ok && v.Faved
}

func (m Model) renderReels() string {
	styles := m.theme.Styles()
	snap := m.feed.Snapshot()
	active, ok := snap.ActiveItem()
	if !ok {
		return styles.FaintText.Render("No reels yet.")
	}

	var b strings.Builder
	state := snap.States[snap.Active]
	badge := state.String()
	if active.IsAd() {
		badge = "ad"
	}
	sound := "🔇 muted"
	if !snap.Muted {
		sound = "🔊 sound on"
	}
	fmt.Fprintf(&b, "%s %s  %s\n\n",
		styles.Badge(badge).Render(strings.ToUpper(badge)),
		styles.MutedText.Render(fmt.Sprintf("%d / %d", snap.Active+1, len(snap.Items))),
		styles.FaintText.Render(sound),
	)

	var card strings.Builder
	active.Match(
		func(v reels.Video) {
			song := v.Song
			if song == "" {
				song = "Original Audio"
			}
			profile := v.ProfileName
			if profile == "" {
				profile = "@user"
			}
			fmt.Fprintf(&card, "%s\n", styles.FaintText.Render("♪ "+song))
			fmt.Fprintf(&card, "%s\n", styles.MutedText.Render("▶ "+v.Src))
			if m.now().Before(m.heartUntil) {
				card.WriteString(styles.HeartText.Render("        ❤"))
				card.WriteString("\n")
			}
			fmt.Fprintf(&card, "\n%s\n%s\n\n", styles.Text.Bold(true).Render(profile), styles.Text.Render(v.Caption))

			heart := styles.MutedText.Render("♡")
			if v.Liked {
				heart = styles.HeartText.Render("♥")
			}
			saved := styles.MutedText.Render("☆")
			if v.Faved {
				saved = styles.WarningText.Render("★")
			}
			fmt.Fprintf(&card, "%s %d   💬 %d   %s", heart, v.Likes, len(v.Comments), saved)
			for _, c := range lastN(v.Comments, 3) {
				fmt.Fprintf(&card, "\n%s", styles.FaintText.Render("  • "+c))
			}
		},
		func(a reels.Ad) {
			fmt.Fprintf(&card, "%s\n", styles.InfoText.Render("Sponsored · "+a.Brand))
			fmt.Fprintf(&card, "\n%s\n\n", styles.Text.Bold(true).Render(a.Title))
			fmt.Fprintf(&card, "%s  %s", styles.Chip.Render(a.CTA), styles.FaintText.Render(a.Link))
		},
	)
	b.WriteString(styles.FocusCard.Width(min(max(m.width-4, 20), 60)).Render(card.String()))

	if m.commenting {
		b.WriteString("\n")
		b.WriteString(styles.Card.Render(m.commentInput.View()))
	}
	return b.String()
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
