// Package favorites tracks the shops a user has starred.
package favorites

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/kv"
)

// StorageKey is where the favorite list is persisted.
const StorageKey = "shops.favorites"

// Set is an ordered list of favorite shop IDs, newest first.
type Set struct {
	mu    sync.RWMutex
	ids   []catalog.ID
	store kv.Store
	log   *zap.Logger
}

// Load restores favorites from store. Unreadable data starts an empty list.
func Load(store kv.Store, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{store: store, log: logger}
	if store == nil {
		return s
	}
	var ids []catalog.ID
	if _, err := kv.GetJSON(store, StorageKey, &ids); err != nil {
		logger.Warn("load favorites", zap.Error(err))
		return s
	}
	s.ids = ids
	return s
}

// Toggle adds id at the front or removes it. It reports whether id is a
// favorite afterwards.
func (s *Set) Toggle(id catalog.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		s.persistLocked()
		return false
	}
	s.ids = append([]catalog.ID{id}, s.ids...)
	s.persistLocked()
	return true
}

// Has reports whether id is a favorite.
func (s *Set) Has(id catalog.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// List returns the favorites, newest first.
func (s *Set) List() []catalog.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Set) persistLocked() {
	if s.store == nil {
		return
	}
	if err := kv.SetJSON(s.store, StorageKey, s.ids); err != nil {
		s.log.Warn("save favorites", zap.Error(err))
	}
}
