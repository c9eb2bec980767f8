package search

import (
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/debounce"
	"github.com/five82/nearby/internal/kv"
)

// RecentKey is where submitted queries are persisted.
const RecentKey = "search.recent"

const (
	defaultDebounce      = 200 * time.Millisecond
	defaultRecentCap     = 10
	defaultTrendingLimit = 10
	resultsPath          = "/search"
)

// Options configure an Engine. Zero values select defaults. Limit is capped
// at catalog.DefaultLimit.
type Options struct {
	Catalog       *catalog.Index
	Store         kv.Store
	Logger        *zap.Logger
	Debounce      time.Duration
	Limit         int
	RecentCap     int
	TrendingLimit int
	Trending      []string

	// OnSuggestions is called from the debounce timer goroutine each time
	// suggestions are recomputed.
	OnSuggestions func(Snapshot)
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Query       string
	Debounced   string
	Suggestions []catalog.Entry
	Recent      []string
	Trending    []string
}

// Navigation tells the caller to show the results view.
type Navigation struct {
	Query string
	Path  string
}

// Engine answers live suggestion queries and remembers recent searches.
type Engine struct {
	mu          sync.RWMutex
	index       *catalog.Index
	store       kv.Store
	log         *zap.Logger
	debouncer   *debounce.Debouncer
	delay       time.Duration
	limit       int
	recentCap   int
	trendingCap int
	onSuggest   func(Snapshot)

	query       string
	debounced   string
	suggestions []catalog.Entry
	recent      []string
	trending    []string
}

// New builds an Engine and restores recent searches from the store.
func New(opts Options) *Engine {
	e := &Engine{
		index:       opts.Catalog,
		store:       opts.Store,
		log:         opts.Logger,
		debouncer:   debounce.New(),
		delay:       opts.Debounce,
		limit:       opts.Limit,
		recentCap:   opts.RecentCap,
		trendingCap: opts.TrendingLimit,
		onSuggest:   opts.OnSuggestions,
		trending:    cleanTerms(opts.Trending),
	}
	if e.index == nil {
		e.index = catalog.NewIndex(nil)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.delay <= 0 {
		e.delay = defaultDebounce
	}
	if e.limit <= 0 || e.limit > catalog.DefaultLimit {
		e.limit = catalog.DefaultLimit
	}
	if e.recentCap <= 0 {
		e.recentCap = defaultRecentCap
	}
	if e.trendingCap <= 0 {
		e.trendingCap = defaultTrendingLimit
	}
	e.recent = e.loadRecent()
	return e
}

// Close stops any pending suggestion update.
func (e *Engine) Close() {
	e.debouncer.Stop()
}

// OnSuggestions replaces the callback given in Options.
func (e *Engine) OnSuggestions(fn func(Snapshot)) {
	e.mu.Lock()
	e.onSuggest = fn
	e.mu.Unlock()
}

// SetQuery records raw input and schedules a suggestion update once typing
// pauses.
func (e *Engine) SetQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = text
	// Scheduled under e.mu so query and the pending text come from the same
	// call. The timer callback releases the debouncer lock before taking e.mu.
	e.debouncer.Schedule(func() { e.applyDebounced(text) }, e.delay)
}

func (e *Engine) applyDebounced(text string) {
	suggestions := e.Search(text)

	e.mu.Lock()
	e.debounced = text
	e.suggestions = suggestions
	snap := e.snapshotLocked()
	cb := e.onSuggest
	e.mu.Unlock()

	e.log.Debug("suggestions updated", zap.String("query", text), zap.Int("count", len(suggestions)))
	if cb != nil {
		cb(snap)
	}
}

// Search returns catalog entries matching text. It does not touch engine state.
func (e *Engine) Search(text string) []catalog.Entry {
	return e.index.Search(text, e.limit)
}

// Query returns the raw input.
func (e *Engine) Query() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.query
}

// Suggestions returns the entries for the last debounced query.
func (e *Engine) Suggestions() []catalog.Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.suggestions)
}

// Recent returns submitted queries, most recent first.
func (e *Engine) Recent() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.recent)
}

// Trending returns the trending terms shown for an empty query.
func (e *Engine) Trending() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.trendingLocked())
}

// SetTrending replaces the trending terms.
func (e *Engine) SetTrending(terms []string) {
	cleaned := cleanTerms(terms)
	e.mu.Lock()
	e.trending = cleaned
	e.mu.Unlock()
}

// AddRecent stores text at the front of the recent list. Blank input is
// ignored and an existing copy is moved rather than duplicated.
func (e *Engine) AddRecent(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recent = pushRecent(e.recent, text, e.recentCap)
	e.persistRecentLocked()
}

// ClearRecent forgets all recent searches.
func (e *Engine) ClearRecent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recent = nil
	e.persistRecentLocked()
}

// Submit runs the current raw input as a search.
func (e *Engine) Submit() (Navigation, bool) {
	return e.submit(e.Query())
}

// SubmitTerm runs term as a search, ignoring the raw input.
func (e *Engine) SubmitTerm(term string) (Navigation, bool) {
	return e.submit(term)
}

func (e *Engine) submit(raw string) (Navigation, bool) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return Navigation{}, false
	}
	e.AddRecent(q)
	e.log.Debug("search submitted", zap.String("query", q))
	return Navigation{
		Query: q,
		Path:  resultsPath + "?query=" + encodeURIComponent(q),
	}, true
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Query:       e.query,
		Debounced:   e.debounced,
		Suggestions: slices.Clone(e.suggestions),
		Recent:      slices.Clone(e.recent),
		Trending:    slices.Clone(e.trendingLocked()),
	}
}

func (e *Engine) trendingLocked() []string {
	if len(e.trending) > e.trendingCap {
		return e.trending[:e.trendingCap]
	}
	return e.trending
}

func (e *Engine) loadRecent() []string {
	if e.store == nil {
		return nil
	}
	var saved []string
	if _, err := kv.GetJSON(e.store, RecentKey, &saved); err != nil {
		e.log.Warn("load recent searches", zap.Error(err))
		return nil
	}
	// Rebuild through pushRecent so hand-edited data still honours the
	// no-blank, no-duplicate and cap rules.
	var recent []string
	for i := len(saved) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(saved[i]); s != "" {
			recent = pushRecent(recent, s, e.recentCap)
		}
	}
	return recent
}

func (e *Engine) persistRecentLocked() {
	if e.store == nil {
		return
	}
	recent := e.recent
	if recent == nil {
		recent = []string{}
	}
	if err := kv.SetJSON(e.store, RecentKey, recent); err != nil {
		e.log.Warn("save recent searches", zap.Error(err))
	}
}

func pushRecent(list []string, text string, limit int) []string {
	out := make([]string, 0, min(len(list)+1, limit))
	out = append(out, text)
	for _, s := range list {
		if len(out) == limit {
			break
		}
		if s != text {
			out = append(out, s)
		}
	}
	return out
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// encodeURIComponent escapes s the way browsers do for a query parameter
// value: spaces become %20 rather than '+'.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
