package reels

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/nearby/internal/kv"
	"github.com/five82/nearby/internal/share"
)

// FeedKey is where the assembled feed is persisted.
const FeedKey = "reels.feed"

const (
	DefaultCadence         = 5
	DefaultDoubleTapWindow = 300 * time.Millisecond
	// MaxUploadDuration allows a little slack over one minute for container
	// metadata rounding.
	MaxUploadDuration = 60*time.Second + 50*time.Millisecond

	shareTitle    = "NearBy MKT Reel"
	uploadPrefix  = "upl-"
	uploadProfile = "@you"
	uploadCaption = "My new reel ✨"
)

var (
	ErrUploadTooLong = errors.New("upload longer than allowed")
	ErrEmptySource   = errors.New("upload has no media source")
	ErrEmptyFeed     = errors.New("feed is empty")
	ErrUnknownItem   = errors.New("no such reel")
)

// PlayState is the playback state of one item.
type PlayState int

const (
	Idle PlayState = iota
	Playing
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Player drives the actual media. Implementations must not call back into
// the Feed; their failures never block feed transitions.
type Player interface {
	Play(id string) error
	Pause(id string)
	Seek(id string, pos time.Duration)
	SetMuted(muted bool)
}

type nopPlayer struct{}

func (nopPlayer) Play(string) error          { return nil }
func (nopPlayer) Pause(string)               {}
func (nopPlayer) Seek(string, time.Duration) {}
func (nopPlayer) SetMuted(bool)              {}

// HeartBurst is the transient feedback for a double tap.
type HeartBurst struct {
	ID string
	At time.Time
}

// Upload describes a user-recorded reel.
type Upload struct {
	Src      string
	Duration time.Duration
	Caption  string
}

// Options configure a Feed. Zero values select defaults.
type Options struct {
	Store           kv.Store
	Logger          *zap.Logger
	Player          Player
	Sharer          share.Sharer
	ShareBaseURL    string
	Cadence         int
	DoubleTapWindow time.Duration
	MaxUpload       time.Duration
	// StartUnmuted flips the default of starting muted.
	StartUnmuted bool
	OnHeartBurst func(HeartBurst)
	NewID        func() string
}

// Snapshot is a deep copy of the feed state.
type Snapshot struct {
	Items  []Item
	States []PlayState
	Active int
	Muted  bool
}

// ActiveItem returns the item under the cursor.
func (s Snapshot) ActiveItem() (Item, bool) {
	if s.Active < 0 || s.Active >= len(s.Items) {
		return Item{}, false
	}
	return s.Items[s.Active], true
}

// Feed owns the reel sequence, the cursor and engagement state.
type Feed struct {
	mu        sync.Mutex
	items     []Item
	states    []PlayState
	active    int
	muted     bool
	lastTap   time.Time
	lastTapID string
	store     kv.Store
	log       *zap.Logger
	player    Player
	sharer    share.Sharer
	shareBase string
	cadence   int
	window    time.Duration
	maxUpload time.Duration
	onBurst   func(HeartBurst)
	newID     func() string
}

// New returns an empty feed. Call Load to fill it.
func New(opts Options) *Feed {
	f := &Feed{
		muted:     !opts.StartUnmuted,
		store:     opts.Store,
		log:       opts.Logger,
		player:    opts.Player,
		sharer:    opts.Sharer,
		shareBase: strings.TrimSpace(opts.ShareBaseURL),
		cadence:   opts.Cadence,
		window:    opts.DoubleTapWindow,
		maxUpload: opts.MaxUpload,
		onBurst:   opts.OnHeartBurst,
		newID:     opts.NewID,
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	if f.player == nil {
		f.player = nopPlayer{}
	}
	if f.sharer == nil {
		f.sharer = share.Nop{}
	}
	if f.cadence == 0 {
		f.cadence = DefaultCadence
	}
	if f.window <= 0 {
		f.window = DefaultDoubleTapWindow
	}
	if f.maxUpload <= 0 {
		f.maxUpload = MaxUploadDuration
	}
	if f.newID == nil {
		f.newID = func() string { return uploadPrefix + uuid.NewString() }
	}
	return f
}

// Load fills the feed. A previously persisted sequence is used verbatim;
// otherwise videos and ads are interleaved and the result is persisted. It
// reports whether the persisted sequence was used.
func (f *Feed) Load(videos []VideoSource, ads []AdSource) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	restored := false
	if saved, ok := f.loadPersisted(); ok {
		f.items = saved
		restored = true
	} else {
		f.items = Assemble(videos, ads, f.cadence)
		f.persistLocked()
	}
	f.states = make([]PlayState, len(f.items))
	f.active = 0
	f.player.SetMuted(f.muted)
	f.startLocked(0)

	f.log.Debug("feed loaded", zap.Int("items", len(f.items)), zap.Bool("restored", restored))
	return restored
}

func (f *Feed) loadPersisted() ([]Item, bool) {
	if f.store == nil {
		return nil, false
	}
	var items []Item
	found, err := kv.GetJSON(f.store, FeedKey, &items)
	if err != nil {
		f.log.Warn("load persisted feed", zap.Error(err))
		return nil, false
	}
	if !found || len(items) == 0 {
		return nil, false
	}
	return items, true
}

// Next moves the cursor forward. It reports whether the cursor moved.
func (f *Feed) Next() bool {
	return f.move(1)
}

// Prev moves the cursor back. It reports whether the cursor moved.
func (f *Feed) Prev() bool {
	return f.move(-1)
}

func (f *Feed) move(delta int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := clamp(f.active+delta, 0, len(f.items)-1)
	if len(f.items) == 0 || target == f.active {
		return false
	}
	f.stopLocked(f.active)
	f.active = target
	f.startLocked(target)
	return true
}

// startLocked rewinds item i and marks it Playing. Player errors (blocked
// autoplay, broken media) are logged only.
func (f *Feed) startLocked(i int) {
	if i < 0 || i >= len(f.items) {
		return
	}
	f.states[i] = Playing
	it := f.items[i]
	if it.Kind() != KindVideo {
		return
	}
	f.player.Seek(it.ID, 0)
	if err := f.player.Play(it.ID); err != nil {
		f.log.Debug("play failed", zap.String("id", it.ID), zap.Error(err))
	}
}

func (f *Feed) stopLocked(i int) {
	if i < 0 || i >= len(f.items) {
		return
	}
	if f.states[i] == Playing {
		f.states[i] = Paused
	}
	if it := f.items[i]; it.Kind() == KindVideo {
		f.player.Pause(it.ID)
	}
}

// Pause pauses the active item.
func (f *Feed) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked(f.active)
}

// Resume plays the active item from where it is.
func (f *Feed) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active >= len(f.items) || f.states[f.active] == Playing {
		return
	}
	f.states[f.active] = Playing
	if it := f.items[f.active]; it.Kind() == KindVideo {
		if err := f.player.Play(it.ID); err != nil {
			f.log.Debug("play failed", zap.String("id", it.ID), zap.Error(err))
		}
	}
}

// TogglePlayback pauses a playing active item or resumes a paused one.
func (f *Feed) TogglePlayback() PlayState {
	f.mu.Lock()
	playing := f.active < len(f.items) && f.states[f.active] == Playing
	f.mu.Unlock()
	if playing {
		f.Pause()
	} else {
		f.Resume()
	}
	return f.ActiveState()
}

// ActiveState returns the playback state of the active item.
func (f *Feed) ActiveState() PlayState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active >= len(f.items) {
		return Idle
	}
	return f.states[f.active]
}

// ToggleMute flips the global mute flag and returns the new value.
func (f *Feed) ToggleMute() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = !f.muted
	f.player.SetMuted(f.muted)
	return f.muted
}

// Muted reports the global mute flag.
func (f *Feed) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

// ToggleLike likes or unlikes the video with id. Unknown ids and ads are
// ignored.
func (f *Feed) ToggleLike(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggleLikeLocked(id)
}

func (f *Feed) toggleLikeLocked(id string) bool {
	v := f.videoLocked(id)
	if v == nil {
		return false
	}
	if v.Liked {
		v.Liked = false
		if v.Likes > 0 {
			v.Likes--
		}
	} else {
		v.Liked = true
		v.Likes++
	}
	f.persistLocked()
	return true
}

// ToggleFavorite flips the favorite flag of the video with id.
func (f *Feed) ToggleFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.videoLocked(id)
	if v == nil {
		return false
	}
	v.Faved = !v.Faved
	f.persistLocked()
	return true
}

// AddComment appends trimmed text to the comments of the video with id.
// Blank text is rejected.
func (f *Feed) AddComment(id, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.videoLocked(id)
	if v == nil {
		return false
	}
	v.Comments = append(v.Comments, text)
	f.persistLocked()
	return true
}

// RegisterDoubleTap treats two taps closer than the double tap window as a
// like gesture on id. It reports whether the gesture fired.
func (f *Feed) RegisterDoubleTap(id string, a, b time.Time) bool {
	gap := b.Sub(a)
	if gap < 0 {
		gap = -gap
	}
	if gap >= f.window {
		return false
	}

	f.mu.Lock()
	liked := f.toggleLikeLocked(id)
	cb := f.onBurst
	f.mu.Unlock()

	if liked && cb != nil {
		cb(HeartBurst{ID: id, At: b})
	}
	return liked
}

// Tap records a single tap on id at time at and fires a double tap when the
// previous tap hit the same item recently enough.
func (f *Feed) Tap(id string, at time.Time) bool {
	f.mu.Lock()
	prev, prevID := f.lastTap, f.lastTapID
	f.lastTap, f.lastTapID = at, id
	f.mu.Unlock()

	if prev.IsZero() || prevID != id {
		return false
	}
	return f.RegisterDoubleTap(id, prev, at)
}

// Share hands a link to the active item to the configured Sharer.
func (f *Feed) Share(ctx context.Context) (share.Payload, error) {
	f.mu.Lock()
	if f.active >= len(f.items) {
		f.mu.Unlock()
		return share.Payload{}, ErrEmptyFeed
	}
	id := f.items[f.active].ID
	f.mu.Unlock()
	return f.shareID(ctx, id)
}

// ShareItem hands a link to the item with id to the configured Sharer.
func (f *Feed) ShareItem(ctx context.Context, id string) (share.Payload, error) {
	f.mu.Lock()
	found := slices.ContainsFunc(f.items, func(it Item) bool { return it.ID == id })
	f.mu.Unlock()
	if !found {
		return share.Payload{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return f.shareID(ctx, id)
}

func (f *Feed) shareID(ctx context.Context, id string) (share.Payload, error) {
	p := share.Payload{Title: shareTitle, URL: f.shareBase + "#reel=" + id}
	if err := f.sharer.Share(ctx, p); err != nil {
		return p, fmt.Errorf("share reel: %w", err)
	}
	return p, nil
}

// Upload puts a new user video at the front of the feed and makes it active.
func (f *Feed) Upload(u Upload) (Item, error) {
	src := strings.TrimSpace(u.Src)
	if src == "" {
		return Item{}, ErrEmptySource
	}
	if u.Duration > f.maxUpload {
		return Item{}, fmt.Errorf("%w: %s > %s", ErrUploadTooLong, u.Duration.Round(time.Millisecond), f.maxUpload)
	}
	caption := strings.TrimSpace(u.Caption)
	if caption == "" {
		caption = uploadCaption
	}
	it := NewVideoItem(f.newID(), Video{
		Src:         src,
		Song:        defaultSong,
		ProfileName: uploadProfile,
		Caption:     caption,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked(f.active)
	f.items = append([]Item{it}, f.items...)
	f.states = append([]PlayState{Idle}, f.states...)
	f.active = 0
	f.startLocked(0)
	f.persistLocked()
	return it.clone(), nil
}

// Active returns the item under the cursor.
func (f *Feed) Active() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active >= len(f.items) {
		return Item{}, false
	}
	return f.items[f.active].clone(), true
}

// ActiveIndex returns the cursor position.
func (f *Feed) ActiveIndex() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Len returns the number of items.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Snapshot returns a deep copy of the feed state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]Item, len(f.items))
	for i, it := range f.items {
		items[i] = it.clone()
	}
	states := make([]PlayState, len(f.states))
	copy(states, f.states)
	return Snapshot{Items: items, States: states, Active: f.active, Muted: f.muted}
}

func (f *Feed) videoLocked(id string) *Video {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].kind == KindVideo {
			return f.items[i].video
		}
	}
	return nil
}

func (f *Feed) persistLocked() {
	if f.store == nil {
		return
	}
	if err := kv.SetJSON(f.store, FeedKey, f.items); err != nil {
		f.log.Warn("save feed", zap.Error(err))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
