// Package cart models the storefront's in-progress selection: a pack quota
// and per-color quantities checked against the last inventory snapshot. It
// is a hypothesis about stock, not a reservation; the order transaction
// re-verifies everything at commit time.
package cart

import (
	"math/rand"
	"time"

	"github.com/cupify/storefront/internal/store"
)

type Cart struct {
	rng       *rand.Rand
	quota     int
	inventory []store.InventoryItem
	items     []store.OrderItem
}

// New returns an empty cart. rng may be nil, in which case a time-seeded
// source is used; tests inject a fixed seed.
func New(rng *rand.Rand) *Cart {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Cart{rng: rng}
}

// SetInventory replaces the stock snapshot (the periodic poll path). The
// current selection is left as-is; the server re-validates on submit.
func (c *Cart) SetInventory(items []store.InventoryItem) {
	c.inventory = append([]store.InventoryItem(nil), items...)
}

// SelectPack resets the selection to the new quota and pre-fills it with a
// random suggestion.
func (c *Cart) SelectPack(size int) {
	c.quota = size
	c.items = nil
	c.randomFill()
}

// AddColor adds one unit of the color. It is a no-op (returns false) when
// the quota is full, the color has no stock headroom left, or the color is
// unknown.
func (c *Cart) AddColor(code string) bool {
	if c.quota == 0 {
		return false
	}
	inv, ok := c.find(code)
	if !ok {
		return false
	}
	if c.qtyOf(code) >= inv.Stock {
		return false
	}
	if c.SelectedCount() >= c.quota {
		return false
	}
	for i := range c.items {
		if c.items[i].ColorCode == code {
			c.items[i].Qty++
			return true
		}
	}
	c.items = append(c.items, store.OrderItem{ColorCode: code, Qty: 1})
	return true
}

// RemoveColor removes one unit, dropping the line at zero. No-op when the
// color isn't selected.
func (c *Cart) RemoveColor(code string) bool {
	for i := range c.items {
		if c.items[i].ColorCode != code {
			continue
		}
		if c.items[i].Qty > 1 {
			c.items[i].Qty--
		} else {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return true
	}
	return false
}

func (c *Cart) Quota() int { return c.quota }

func (c *Cart) Items() []store.OrderItem {
	return append([]store.OrderItem(nil), c.items...)
}

func (c *Cart) SelectedCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Qty
	}
	return n
}

// SelectedList flattens the selection into one entry per unit, in selection
// order, for rendering the N slots.
func (c *Cart) SelectedList() []string {
	out := make([]string, 0, c.SelectedCount())
	for _, it := range c.items {
		for i := 0; i < it.Qty; i++ {
			out = append(out, it.ColorCode)
		}
	}
	return out
}

// CanSubmit reports whether the selection exactly fills the quota.
func (c *Cart) CanSubmit() bool {
	return c.quota > 0 && c.SelectedCount() == c.quota
}

// randomFill builds a diversity-first suggestion: shuffle the in-stock
// colors, give each distinct color one unit, then top up to stock headroom
// on a second pass. When global stock is short of the quota the result is
// simply smaller and CanSubmit stays false.
func (c *Cart) randomFill() {
	var avail []store.InventoryItem
	for _, it := range c.inventory {
		if it.Stock > 0 {
			avail = append(avail, it)
		}
	}
	if len(avail) == 0 {
		return
	}
	c.rng.Shuffle(len(avail), func(i, j int) { avail[i], avail[j] = avail[j], avail[i] })

	remaining := c.quota
	for _, it := range avail {
		if remaining <= 0 {
			break
		}
		c.items = append(c.items, store.OrderItem{ColorCode: it.ColorCode, Qty: 1})
		remaining--
	}
	if remaining <= 0 {
		return
	}
	for _, it := range avail {
		if remaining <= 0 {
			break
		}
		headroom := it.Stock - c.qtyOf(it.ColorCode)
		if headroom <= 0 {
			continue
		}
		add := headroom
		if add > remaining {
			add = remaining
		}
		c.bump(it.ColorCode, add)
		remaining -= add
	}
}

func (c *Cart) find(code string) (store.InventoryItem, bool) {
	for _, it := range c.inventory {
		if it.ColorCode == code {
			return it, true
		}
	}
	return store.InventoryItem{}, false
}

func (c *Cart) qtyOf(code string) int {
	for _, it := range c.items {
		if it.ColorCode == code {
			return it.Qty
		}
	}
	return 0
}

func (c *Cart) bump(code string, n int) {
	for i := range c.items {
		if c.items[i].ColorCode == code {
			c.items[i].Qty += n
			return
		}
	}
	c.items = append(c.items, store.OrderItem{ColorCode: code, Qty: n})
}
