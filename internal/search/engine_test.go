package search

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/kv"
)

func testCatalog() *catalog.Index {
	return catalog.NewIndex([]catalog.Entry{
		{ID: "1", Name: "Fresh Mart", Category: "Grocery"},
		{ID: "2", Name: "Spice Corner", Category: "Grocery"},
		{ID: "3", Name: "Martin's Bakery", Category: "Food"},
	})
}

func newEngine(t *testing.T, store kv.Store, opts ...func(*Options)) *Engine {
	t.Helper()
	o := Options{Catalog: testCatalog(), Store: store, Debounce: 10 * time.Millisecond}
	for _, fn := range opts {
		fn(&o)
	}
	e := New(o)
	t.Cleanup(e.Close)
	return e
}

func TestSearch_MatchesCatalog(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	got := e.Search("mart")
	require.Len(t, got, 2)
	assert.Equal(t, catalog.ID("3"), got[0].ID, "prefix match first")
	assert.Equal(t, catalog.ID("1"), got[1].ID)
	assert.Empty(t, e.Search(""))
}

func TestSearch_LimitNeverExceedsDefault(t *testing.T) {
	entries := make([]catalog.Entry, 15)
	for i := range entries {
		entries[i] = catalog.Entry{ID: catalog.ID(fmt.Sprint(i)), Name: fmt.Sprintf("Mart %d", i), Category: "Grocery"}
	}
	e := newEngine(t, kv.NewMemory(), func(o *Options) {
		o.Catalog = catalog.NewIndex(entries)
		o.Limit = 20
	})

	got := e.Search("mart")
	require.Len(t, got, catalog.DefaultLimit)
	assert.Equal(t, catalog.ID("0"), got[0].ID)

	e.SetQuery("mart")
	require.Eventually(t, func() bool { return e.Snapshot().Debounced == "mart" }, time.Second, 5*time.Millisecond)
	assert.Len(t, e.Suggestions(), catalog.DefaultLimit)
}

func TestAddRecent_DedupesAndMovesToFront(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	e.AddRecent("milk")
	e.AddRecent("bread")
	e.AddRecent("milk")

	assert.Equal(t, []string{"milk", "bread"}, e.Recent())
}

func TestAddRecent_TrimsAndRejectsBlank(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	e.AddRecent("  eggs  ")
	e.AddRecent("")
	e.AddRecent("   ")

	assert.Equal(t, []string{"eggs"}, e.Recent())
}

func TestAddRecent_NeverExceedsCap(t *testing.T) {
	e := newEngine(t, kv.NewMemory(), func(o *Options) { o.RecentCap = 3 })

	for i := 0; i < 10; i++ {
		e.AddRecent(fmt.Sprintf("q%d", i%5))
		recent := e.Recent()
		assert.LessOrEqual(t, len(recent), 3)
		seen := map[string]bool{}
		for _, r := range recent {
			assert.False(t, seen[r], "duplicate %q in %v", r, recent)
			assert.NotEmpty(t, r)
			seen[r] = true
		}
	}
	assert.Equal(t, []string{"q4", "q3", "q2"}, e.Recent())
}

func TestSubmit_BlankIsNoOp(t *testing.T) {
	e := newEngine(t, kv.NewMemory())
	e.AddRecent("milk")

	for _, term := range []string{"", "   "} {
		nav, ok := e.SubmitTerm(term)
		assert.False(t, ok)
		assert.Zero(t, nav)
	}
	e.SetQuery("   ")
	_, ok := e.Submit()
	assert.False(t, ok)

	assert.Equal(t, []string{"milk"}, e.Recent())
}

func TestSubmit_UsesRawInputAndEncodes(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	e.SetQuery("  fresh & local  ")
	nav, ok := e.Submit()
	require.True(t, ok)
	assert.Equal(t, "fresh & local", nav.Query)
	assert.Equal(t, "/search?query=fresh%20%26%20local", nav.Path)
	assert.Equal(t, []string{"fresh & local"}, e.Recent())
}

func TestSubmitTerm_WinsOverRawInput(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	e.SetQuery("typed")
	nav, ok := e.SubmitTerm("Spice Corner")
	require.True(t, ok)
	assert.Equal(t, "Spice Corner", nav.Query)
	assert.Equal(t, []string{"Spice Corner"}, e.Recent())
}

func TestSetQuery_DebouncesSuggestions(t *testing.T) {
	updates := make(chan Snapshot, 8)
	e := newEngine(t, kv.NewMemory(), func(o *Options) {
		o.Debounce = 30 * time.Millisecond
		o.OnSuggestions = func(s Snapshot) { updates <- s }
	})

	e.SetQuery("m")
	e.SetQuery("ma")
	e.SetQuery("mar")
	assert.Equal(t, "mar", e.Query(), "raw input is recorded immediately")
	assert.Empty(t, e.Suggestions(), "suggestions wait for the quiet period")

	select {
	case snap := <-updates:
		assert.Equal(t, "mar", snap.Debounced)
		require.Len(t, snap.Suggestions, 2)
	case <-time.After(time.Second):
		t.Fatal("no debounced update")
	}

	select {
	case snap := <-updates:
		t.Fatalf("unexpected extra update for %q", snap.Debounced)
	case <-time.After(80 * time.Millisecond):
	}

	e.SetQuery("")
	select {
	case snap := <-updates:
		assert.Empty(t, snap.Suggestions)
	case <-time.After(time.Second):
		t.Fatal("no update for cleared query")
	}
}

func TestSetQuery_ConcurrentCallsSettleOnLastInput(t *testing.T) {
	e := newEngine(t, kv.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.SetQuery(fmt.Sprintf("q%d", i))
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		snap := e.Snapshot()
		return snap.Debounced != "" && snap.Debounced == snap.Query
	}, time.Second, 5*time.Millisecond)
}

func TestRecent_PersistsAcrossEngines(t *testing.T) {
	store := kv.NewMemory()
	e := newEngine(t, store)
	e.AddRecent("milk")
	e.AddRecent("bread")

	again := newEngine(t, store)
	assert.Equal(t, []string{"bread", "milk"}, again.Recent())
}

func TestRecent_LoadSanitizesStoredData(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(RecentKey, []byte(`["a","", "b","a","c"]`)))

	e := newEngine(t, store, func(o *Options) { o.RecentCap = 2 })
	assert.Equal(t, []string{"a", "b"}, e.Recent())
}

func TestRecent_StorageFailuresAreSwallowed(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(RecentKey, []byte(`not json`)))
	e := newEngine(t, store)
	assert.Empty(t, e.Recent())

	store.FailWrites = errors.New("quota exceeded")
	e.AddRecent("milk")
	assert.Equal(t, []string{"milk"}, e.Recent())
}

func TestClearRecent(t *testing.T) {
	store := kv.NewMemory()
	e := newEngine(t, store)
	e.AddRecent("milk")
	e.ClearRecent()

	assert.Empty(t, e.Recent())
	assert.Empty(t, newEngine(t, store).Recent())
}

func TestDropdown_SwitchesOnInput(t *testing.T) {
	updates := make(chan Snapshot, 4)
	e := newEngine(t, kv.NewMemory(), func(o *Options) {
		o.Trending = []string{"Groceries", " ", "Bakery", "Groceries"}
		o.OnSuggestions = func(s Snapshot) { updates <- s }
	})
	e.AddRecent("milk")

	d := e.Dropdown()
	assert.Equal(t, DropdownDiscover, d.Mode)
	assert.Equal(t, []string{"Groceries", "Bakery"}, d.Trending)
	assert.Equal(t, []string{"milk"}, d.Recent)

	e.SetQuery("zzz")
	<-updates
	d = e.Dropdown()
	assert.Equal(t, DropdownSuggestions, d.Mode)
	assert.Empty(t, d.Suggestions)
	assert.Equal(t, EmptyHint, d.Hint)
}

func TestTrending_HonoursLimit(t *testing.T) {
	e := newEngine(t, nil, func(o *Options) { o.TrendingLimit = 2 })
	e.SetTrending([]string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b"}, e.Trending())
}
