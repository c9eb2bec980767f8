// Package cart keeps per-shop item quantities between sessions.
package cart

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/kv"
)

// StorageKey is where cart quantities are persisted.
const StorageKey = "shops.cart"

// Line is one cart row.
type Line struct {
	ID  catalog.ID
	Qty int
}

// Cart maps catalog IDs to positive quantities.
type Cart struct {
	mu    sync.RWMutex
	qty   map[catalog.ID]int
	store kv.Store
	log   *zap.Logger
}

// Load restores the cart from store. Unreadable data starts an empty cart.
func Load(store kv.Store, logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cart{qty: make(map[catalog.ID]int), store: store, log: logger}
	if store == nil {
		return c
	}
	var saved map[catalog.ID]int
	if _, err := kv.GetJSON(store, StorageKey, &saved); err != nil {
		logger.Warn("load cart", zap.Error(err))
		return c
	}
	for id, n := range saved {
		if n > 0 {
			c.qty[id] = n
		}
	}
	return c
}

// Add changes the quantity of id by delta, never going below zero. A line
// that reaches zero is removed. It returns the new quantity.
func (c *Cart) Add(id catalog.ID, delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.qty[id] + delta
	if n <= 0 {
		if _, ok := c.qty[id]; !ok {
			return 0
		}
		delete(c.qty, id)
		n = 0
	} else {
		c.qty[id] = n
	}
	c.persistLocked()
	return n
}

// Qty returns the quantity of id.
func (c *Cart) Qty(id catalog.ID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.qty[id]
}

// TotalQty sums all quantities.
func (c *Cart) TotalQty() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, n := range c.qty {
		total += n
	}
	return total
}

// Lines returns the cart sorted by ID.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]Line, 0, len(c.qty))
	for id, n := range c.qty {
		lines = append(lines, Line{ID: id, Qty: n})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}

func (c *Cart) persistLocked() {
	if c.store == nil {
		return
	}
	if err := kv.SetJSON(c.store, StorageKey, c.qty); err != nil {
		c.log.Warn("save cart", zap.Error(err))
	}
}
