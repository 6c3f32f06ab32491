package cart

import (
	"math/rand"
	"testing"

	"github.com/cupify/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func inv(stocks map[string]int) []store.InventoryItem {
	out := make([]store.InventoryItem, 0, len(stocks))
	for code, stock := range stocks {
		out = append(out, store.InventoryItem{ColorCode: code, Stock: stock})
	}
	return out
}

func TestRandomFillDiversityFirst(t *testing.T) {
	c := New(seeded(1))
	c.SetInventory(inv(map[string]int{
		"A": 5, "B": 5, "C": 5, "D": 5, "E": 5, "F": 5, "G": 5,
	}))
	c.SelectPack(3)

	assert.Equal(t, 3, c.SelectedCount())
	assert.True(t, c.CanSubmit())
	for _, it := range c.Items() {
		assert.Equal(t, 1, it.Qty, "one unit per distinct color on the first pass")
	}
}

func TestRandomFillSecondPassTopsUp(t *testing.T) {
	c := New(seeded(7))
	c.SetInventory(inv(map[string]int{"A": 3, "B": 2}))
	c.SelectPack(5)

	require.Equal(t, 5, c.SelectedCount())
	assert.True(t, c.CanSubmit())
	qty := map[string]int{}
	for _, it := range c.Items() {
		qty[it.ColorCode] = it.Qty
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 2}, qty)
}

func TestRandomFillGlobalShortage(t *testing.T) {
	c := New(seeded(3))
	c.SetInventory(inv(map[string]int{"A": 1, "B": 1, "C": 0}))
	c.SelectPack(4)

	assert.Equal(t, 2, c.SelectedCount())
	assert.False(t, c.CanSubmit(), "submission stays disabled when stock can't fill the quota")
}

func TestRandomFillEmptyInventory(t *testing.T) {
	c := New(seeded(3))
	c.SelectPack(3)
	assert.Zero(t, c.SelectedCount())
	assert.False(t, c.CanSubmit())
}

func TestAddColorQuotaEnforcement(t *testing.T) {
	c := New(seeded(2))
	c.SetInventory(inv(map[string]int{"A": 10, "B": 10}))
	c.SelectPack(2)
	require.Equal(t, 2, c.SelectedCount())

	assert.False(t, c.AddColor("A"), "quota full")
	assert.Equal(t, 2, c.SelectedCount())
}

func TestAddColorStockCeiling(t *testing.T) {
	c := New(seeded(2))
	c.SetInventory(inv(map[string]int{"A": 1, "B": 10}))
	c.SelectPack(4)
	// drain the suggestion so we control the selection
	for _, code := range c.SelectedList() {
		c.RemoveColor(code)
	}
	require.Zero(t, c.SelectedCount())

	assert.True(t, c.AddColor("A"))
	assert.False(t, c.AddColor("A"), "selected qty reached known stock")
	assert.False(t, c.AddColor("ZZ"), "unknown color")
	assert.True(t, c.AddColor("B"))
	assert.Equal(t, 2, c.SelectedCount())
}

func TestRemoveColor(t *testing.T) {
	c := New(seeded(2))
	c.SetInventory(inv(map[string]int{"A": 5}))
	c.SelectPack(3)
	require.Equal(t, []store.OrderItem{{ColorCode: "A", Qty: 3}}, c.Items())

	assert.True(t, c.RemoveColor("A"))
	assert.Equal(t, 2, c.SelectedCount())
	assert.False(t, c.RemoveColor("B"), "not selected")

	c.RemoveColor("A")
	c.RemoveColor("A")
	assert.Empty(t, c.Items(), "line dropped at zero")
	assert.False(t, c.RemoveColor("A"))
}

func TestSelectedListFlattens(t *testing.T) {
	c := New(seeded(9))
	c.SetInventory(inv(map[string]int{"A": 2, "B": 1}))
	c.SelectPack(3)

	list := c.SelectedList()
	require.Len(t, list, 3)
	count := map[string]int{}
	for _, code := range list {
		count[code]++
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, count)
}

func TestSelectPackResetsSelection(t *testing.T) {
	c := New(seeded(4))
	c.SetInventory(inv(map[string]int{"A": 9, "B": 9, "C": 9}))
	c.SelectPack(2)
	first := c.SelectedCount()
	require.Equal(t, 2, first)

	c.SelectPack(4)
	assert.Equal(t, 4, c.SelectedCount(), "new quota, fresh suggestion")
	assert.Equal(t, 4, c.Quota())
}
