package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nearby/internal/cart"
	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/favorites"
	"github.com/five82/nearby/internal/prefs"
	"github.com/five82/nearby/internal/reels"
	"github.com/five82/nearby/internal/search"
)

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewReels
)

func (v View) String() string {
	if v == ViewReels {
		return "reels"
	}
	return "search"
}

const (
	heartBurst   = 600 * time.Millisecond
	flashTimeout = 3 * time.Second
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Search    *search.Engine
	Feed      *reels.Feed
	Favorites *favorites.Set
	Cart      *cart.Cart
	Catalog   *catalog.Index
	Logger    *zap.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	// Now is the clock used for taps; nil uses time.Now.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	search    *search.Engine
	feed      *reels.Feed
	favs      *favorites.Set
	cart      *cart.Cart
	catalog   *catalog.Index
	log       *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	now       func() time.Time

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	flash       string
	flashSeq    int

	// Search state
	input       textinput.Model
	suggestions chan search.Snapshot
	dropdown    search.Dropdown
	selected    int // dropdown row or result row; -1 = none
	results     []catalog.Entry
	lastNav     search.Navigation

	// Reels state
	commentInput textinput.Model
	commenting   bool
	heartUntil   time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	engine := opts.Search
	if engine == nil {
		engine = search.New(search.Options{Catalog: opts.Catalog})
	}
	feed := opts.Feed
	if feed == nil {
		feed = reels.New(reels.Options{})
	}

	input := textinput.New()
	input.Placeholder = "Search shops, food, groceries..."
	input.Prompt = "🔍 "
	input.CharLimit = 120

	comment := textinput.New()
	comment.Placeholder = "Add a comment..."
	comment.Prompt = "💬 "
	comment.CharLimit = 280

	view := ViewSearch
	if opts.Prefs.View == ViewReels.String() {
		view = ViewReels
	}

	m := Model{
		ctx:          ctx,
		search:       engine,
		feed:         feed,
		favs:         opts.Favorites,
		cart:         opts.Cart,
		catalog:      opts.Catalog,
		log:          logger,
		prefs:        opts.Prefs,
		prefsPath:    prefsPath,
		now:          now,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		theme:        GetTheme(opts.Prefs.Theme),
		currentView:  view,
		input:        input,
		commentInput: comment,
		selected:     -1,
		suggestions:  make(chan search.Snapshot, 1),
	}
	m.prefs.Theme = m.theme.Name
	engine.OnSuggestions(deliverLatest(m.suggestions))
	m.dropdown = engine.Dropdown()
	if view == ViewSearch {
		m.input.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForSuggestions(m.ctx, m.suggestions),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		m.commentInput.Width = max(msg.Width-8, 10)
		m.ready = true
		return m, nil

	case suggestionsMsg:
		m.dropdown = m.search.Dropdown()
		if m.selected >= m.dropdownLen() {
			m.selected = -1
		}
		return m, waitForSuggestions(m.ctx, m.suggestions)

	case flashMsg:
		return m, m.setFlash(msg.text)

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case heartDoneMsg:
		return m, nil
	}

	if m.input.Focused() || m.commenting {
		return m.updateInputs(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text inputs own the keyboard while focused.
	if m.currentView == ViewSearch && m.input.Focused() {
		return m.handleSearchInputKey(msg)
	}
	if m.currentView == ViewReels && m.commenting {
		return m.handleCommentKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case "tab":
		return m.switchView()
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewReels:
		return m.handleReelsKey(msg)
	}
	return m, nil
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	if m.currentView == ViewSearch {
		m.currentView = ViewReels
		m.input.Blur()
		m.feed.Resume()
	} else {
		m.currentView = ViewSearch
		m.feed.Pause()
	}
	m.prefs.View = m.currentView.String()
	m.savePrefs()
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.commenting {
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setFlash shows text in the footer until it times out or is replaced.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	return clearFlashCmd(m.flashSeq)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs", zap.Error(err))
	}
}

// Messages

type suggestionsMsg search.Snapshot

type flashMsg struct{ text string }

type clearFlashMsg struct{ seq int }

type heartDoneMsg struct{}

// Commands

// deliverLatest returns a suggestion callback that keeps only the newest
// snapshot in ch and never blocks the debounce goroutine.
func deliverLatest(ch chan search.Snapshot) func(search.Snapshot) {
	return func(s search.Snapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

func waitForSuggestions(ctx context.Context, ch <-chan search.Snapshot) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case s := <-ch:
			return suggestionsMsg(s)
		}
	}
}

func clearFlashCmd(seq int) tea.Cmd {
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
