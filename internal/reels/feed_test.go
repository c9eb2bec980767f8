package reels

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/nearby/internal/kv"
	"github.com/five82/nearby/internal/share"
)

func videos(n int) []VideoSource {
	out := make([]VideoSource, n)
	for i := range out {
		out[i] = VideoSource{
			ID:          fmt.Sprintf("reel-%d", i+1),
			Src:         fmt.Sprintf("r%d.mp4", i+1),
			ProfileName: "@nearby.mkt",
			Likes:       10 * (i + 1),
		}
	}
	return out
}

func ads(n int) []AdSource {
	out := make([]AdSource, n)
	for i := range out {
		out[i] = AdSource{ID: fmt.Sprintf("ad-%d", i+1), Title: "Deal", Brand: "Brand", CTA: "Shop now"}
	}
	return out
}

func order(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type recordingPlayer struct {
	calls []string
	fail  error
}

func (p *recordingPlayer) Play(id string) error {
	p.calls = append(p.calls, "play "+id)
	return p.fail
}
func (p *recordingPlayer) Pause(id string) { p.calls = append(p.calls, "pause "+id) }
func (p *recordingPlayer) Seek(id string, pos time.Duration) {
	p.calls = append(p.calls, fmt.Sprintf("seek %s %s", id, pos))
}
func (p *recordingPlayer) SetMuted(m bool) { p.calls = append(p.calls, fmt.Sprintf("muted %t", m)) }

func loadedFeed(t *testing.T, store kv.Store, nVideos, nAds int, opts ...func(*Options)) *Feed {
	t.Helper()
	o := Options{Store: store}
	for _, fn := range opts {
		fn(&o)
	}
	f := New(o)
	f.Load(videos(nVideos), ads(nAds))
	return f
}

func TestAssemble_InterleavesAtCadence(t *testing.T) {
	items := Assemble(videos(12), ads(3), 5)
	assert.Equal(t, []string{
		"reel-1", "reel-2", "reel-3", "reel-4", "reel-5", "ad-1",
		"reel-6", "reel-7", "reel-8", "reel-9", "reel-10", "ad-2",
		"reel-11", "reel-12",
	}, order(items))
}

func TestAssemble_StopsWhenAdsRunOut(t *testing.T) {
	items := Assemble(videos(7), ads(1), 5)
	assert.Equal(t, []string{"reel-1", "reel-2", "reel-3", "reel-4", "reel-5", "ad-1", "reel-6", "reel-7"}, order(items))

	items = Assemble(videos(11), ads(1), 5)
	assert.Len(t, items, 12, "only one ad available")
}

func TestAssemble_NoCadenceNoAds(t *testing.T) {
	assert.Len(t, Assemble(videos(6), ads(2), 0), 6)
	assert.Empty(t, Assemble(nil, ads(2), 5))
}

func TestLoad_DefaultsAndPlaysFirst(t *testing.T) {
	player := &recordingPlayer{}
	f := loadedFeed(t, kv.NewMemory(), 3, 0, func(o *Options) { o.Player = player })

	snap := f.Snapshot()
	assert.Equal(t, 0, snap.Active)
	assert.True(t, snap.Muted, "feeds start muted")
	assert.Equal(t, []PlayState{Playing, Idle, Idle}, snap.States)
	assert.Equal(t, []string{"muted true", "seek reel-1 0s", "play reel-1"}, player.calls)
}

func TestNavigation_ClampsAtBothEnds(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 2, 0)

	assert.False(t, f.Prev())
	assert.Equal(t, 0, f.ActiveIndex())

	assert.True(t, f.Next())
	assert.False(t, f.Next())
	assert.Equal(t, 1, f.ActiveIndex())
}

func TestNavigation_SinglePlayback(t *testing.T) {
	player := &recordingPlayer{}
	f := loadedFeed(t, kv.NewMemory(), 6, 1, func(o *Options) { o.Player = player })

	for i := 0; i < 10; i++ {
		f.Next()
		snap := f.Snapshot()
		playing := 0
		for j, st := range snap.States {
			if st == Playing {
				playing++
				assert.Equal(t, snap.Active, j)
			}
		}
		assert.Equal(t, 1, playing)
	}

	player.calls = nil
	require.True(t, f.Prev())
	assert.Equal(t, []string{"pause reel-6"}, player.calls, "ads never reach the player")
	assert.Equal(t, Paused, f.Snapshot().States[6])
}

func TestNavigation_PlayerFailureDoesNotBlock(t *testing.T) {
	player := &recordingPlayer{fail: errors.New("autoplay blocked")}
	f := loadedFeed(t, kv.NewMemory(), 3, 0, func(o *Options) { o.Player = player })

	assert.True(t, f.Next())
	assert.True(t, f.Next())
	assert.Equal(t, 2, f.ActiveIndex())
	assert.Equal(t, Playing, f.ActiveState())
}

func TestPlayback_ExplicitPauseAndResume(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 2, 0)

	assert.Equal(t, Paused, f.TogglePlayback())
	assert.Equal(t, Playing, f.TogglePlayback())

	f.Pause()
	require.True(t, f.Next())
	assert.Equal(t, Playing, f.ActiveState())
	assert.Equal(t, Paused, f.Snapshot().States[0])
}

func TestToggleMute(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 1, 0)
	assert.False(t, f.ToggleMute())
	assert.True(t, f.ToggleMute())

	unmuted := loadedFeed(t, kv.NewMemory(), 1, 0, func(o *Options) { o.StartUnmuted = true })
	assert.False(t, unmuted.Muted())
}

func likesOf(t *testing.T, f *Feed, id string) Video {
	t.Helper()
	for _, it := range f.Snapshot().Items {
		if it.ID == id {
			v, ok := it.Video()
			require.True(t, ok)
			return v
		}
	}
	t.Fatalf("no item %q", id)
	return Video{}
}

func TestToggleLike_RoundTrip(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 3, 0)
	before := likesOf(t, f, "reel-2")

	require.True(t, f.ToggleLike("reel-2"))
	mid := likesOf(t, f, "reel-2")
	assert.Equal(t, before.Likes+1, mid.Likes)
	assert.True(t, mid.Liked)

	require.True(t, f.ToggleLike("reel-2"))
	after := likesOf(t, f, "reel-2")
	assert.Equal(t, before.Likes, after.Likes)
	assert.Equal(t, before.Liked, after.Liked)
}

func TestToggleLike_IgnoresUnknownAndAds(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 5, 1)
	assert.False(t, f.ToggleLike("nope"))
	assert.False(t, f.ToggleLike("ad-1"))
	assert.False(t, f.ToggleFavorite("nope"))
	assert.False(t, f.AddComment("nope", "hi"))
}

func TestToggleFavorite(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 3, 0)

	require.True(t, f.ToggleFavorite("reel-3"))
	assert.True(t, likesOf(t, f, "reel-3").Faved)
	require.True(t, f.ToggleFavorite("reel-3"))
	assert.False(t, likesOf(t, f, "reel-3").Faved)
}

func TestAddComment(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 3, 0)

	assert.False(t, f.AddComment("reel-3", "  "))
	assert.Empty(t, likesOf(t, f, "reel-3").Comments)

	assert.True(t, f.AddComment("reel-3", " nice! "))
	assert.True(t, f.AddComment("reel-3", "again"))
	assert.Equal(t, []string{"nice!", "again"}, likesOf(t, f, "reel-3").Comments)
}

func TestRegisterDoubleTap(t *testing.T) {
	var bursts []HeartBurst
	f := loadedFeed(t, kv.NewMemory(), 2, 0, func(o *Options) {
		o.OnHeartBurst = func(b HeartBurst) { bursts = append(bursts, b) }
	})
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, f.RegisterDoubleTap("reel-1", t0, t0.Add(400*time.Millisecond)))
	assert.False(t, f.RegisterDoubleTap("reel-1", t0, t0.Add(300*time.Millisecond)))
	assert.Empty(t, bursts)

	assert.True(t, f.RegisterDoubleTap("reel-1", t0, t0.Add(120*time.Millisecond)))
	assert.True(t, likesOf(t, f, "reel-1").Liked)
	require.Len(t, bursts, 1)
	assert.Equal(t, "reel-1", bursts[0].ID)

	assert.False(t, f.RegisterDoubleTap("missing", t0, t0))
	assert.Len(t, bursts, 1)
}

func TestTap_UsesPreviousTap(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 1, 0)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, f.Tap("reel-1", t0))
	assert.True(t, f.Tap("reel-1", t0.Add(100*time.Millisecond)))
	assert.False(t, f.Tap("reel-1", t0.Add(time.Second)))
	assert.True(t, likesOf(t, f, "reel-1").Liked)
}

func TestTap_OnDifferentItemStartsOver(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 2, 0)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, f.Tap("reel-1", t0))
	require.True(t, f.Next())
	assert.False(t, f.Tap("reel-2", t0.Add(100*time.Millisecond)))
	assert.False(t, likesOf(t, f, "reel-2").Liked)
	assert.False(t, likesOf(t, f, "reel-1").Liked)

	assert.True(t, f.Tap("reel-2", t0.Add(200*time.Millisecond)))
	assert.True(t, likesOf(t, f, "reel-2").Liked)
}

var itemCmp = []cmp.Option{
	cmp.AllowUnexported(Item{}),
	cmpopts.EquateEmpty(),
}

func TestPersistence_RoundTrip(t *testing.T) {
	store := kv.NewMemory()
	f := loadedFeed(t, store, 7, 1)
	f.ToggleLike("reel-2")
	f.ToggleFavorite("reel-3")
	f.AddComment("reel-3", "nice!")
	before := f.Snapshot().Items

	reloaded := New(Options{Store: store})
	require.True(t, reloaded.Load(videos(3), nil), "persisted feed wins over sources")

	if diff := cmp.Diff(before, reloaded.Snapshot().Items, itemCmp...); diff != "" {
		t.Fatalf("reloaded feed mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistence_CorruptDataReassembles(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(FeedKey, []byte(`{broken`)))

	f := New(Options{Store: store})
	assert.False(t, f.Load(videos(2), nil))
	assert.Equal(t, 2, f.Len())

	again := New(Options{Store: store})
	assert.True(t, again.Load(nil, nil))
}

func TestPersistence_WriteFailureKeepsSessionState(t *testing.T) {
	store := kv.NewMemory()
	store.FailWrites = errors.New("quota exceeded")

	f := loadedFeed(t, store, 2, 0)
	require.True(t, f.ToggleFavorite("reel-1"))
	assert.True(t, likesOf(t, f, "reel-1").Faved)
}

func TestShare_BuildsLinkForActive(t *testing.T) {
	var got share.Payload
	f := loadedFeed(t, kv.NewMemory(), 2, 0, func(o *Options) {
		o.ShareBaseURL = "https://nearby.mkt/reels"
		o.Sharer = share.Func(func(_ context.Context, p share.Payload) error {
			got = p
			return nil
		})
	})
	f.Next()

	p, err := f.Share(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://nearby.mkt/reels#reel=reel-2", p.URL)
	assert.Equal(t, p, got)

	empty := New(Options{})
	_, err = empty.Share(context.Background())
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestUpload(t *testing.T) {
	store := kv.NewMemory()
	f := loadedFeed(t, store, 3, 0, func(o *Options) {
		o.NewID = func() string { return "upl-test" }
	})
	f.Next()

	_, err := f.Upload(Upload{Src: "clip.mp4", Duration: 61 * time.Second})
	assert.ErrorIs(t, err, ErrUploadTooLong)
	_, err = f.Upload(Upload{Src: " ", Duration: time.Second})
	assert.ErrorIs(t, err, ErrEmptySource)

	it, err := f.Upload(Upload{Src: "clip.mp4", Duration: 60 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "upl-test", it.ID)

	snap := f.Snapshot()
	assert.Equal(t, 0, snap.Active)
	assert.Equal(t, "upl-test", snap.Items[0].ID)
	assert.Equal(t, Playing, snap.States[0])
	assert.Equal(t, Paused, snap.States[2], "previously active reel-2 is paused")

	v, ok := snap.Items[0].Video()
	require.True(t, ok)
	assert.Equal(t, "@you", v.ProfileName)
	assert.Equal(t, "Original Audio", v.Song)
	assert.Zero(t, v.Likes)

	reloaded := New(Options{Store: store})
	reloaded.Load(nil, nil)
	assert.Equal(t, 4, reloaded.Len())
}

func TestUpload_DefaultIDsAreUnique(t *testing.T) {
	f := loadedFeed(t, nil, 1, 0)
	a, err := f.Upload(Upload{Src: "a.mp4"})
	require.NoError(t, err)
	b, err := f.Upload(Upload{Src: "b.mp4"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Regexp(t, `^upl-[0-9a-f-]{36}$`, a.ID)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	f := loadedFeed(t, kv.NewMemory(), 1, 0)
	f.AddComment("reel-1", "first")

	snap := f.Snapshot()
	v, _ := snap.Items[0].Video()
	v.Comments[0] = "changed"
	snap.States[0] = Idle

	assert.Equal(t, []string{"first"}, likesOf(t, f, "reel-1").Comments)
	assert.Equal(t, Playing, f.ActiveState())
}

func TestShareItem(t *testing.T) {
	var shared []string
	f := loadedFeed(t, kv.NewMemory(), 3, 0, func(o *Options) {
		o.ShareBaseURL = "https://nearby.mkt/reels"
		o.Sharer = share.Func(func(_ context.Context, p share.Payload) error {
			shared = append(shared, p.URL)
			return nil
		})
	})

	p, err := f.ShareItem(context.Background(), "reel-3")
	require.NoError(t, err)
	assert.Equal(t, "NearBy MKT Reel", p.Title)
	assert.Equal(t, []string{"https://nearby.mkt/reels#reel=reel-3"}, shared)
	assert.Equal(t, 0, f.ActiveIndex(), "sharing does not move the cursor")

	_, err = f.ShareItem(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownItem)

	failing := loadedFeed(t, nil, 1, 0, func(o *Options) {
		o.Sharer = share.Func(func(context.Context, share.Payload) error { return errors.New("no clipboard") })
	})
	p, err = failing.Share(context.Background())
	require.Error(t, err)
	assert.Equal(t, "#reel=reel-1", p.URL, "payload is still returned for a manual fallback")
}
