package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/api/models"
	"shopfront/api/storage"
)

func merch(id string, price float64) models.Merch {
	return models.Merch{ID: id, Name: "Product " + id, Price: price, InStock: true}
}

func newHydratedStore() (*Store, *storage.Memory) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.Hydrate()
	return s, kv
}

func TestAddMergesExistingLine(t *testing.T) {
	s, _ := newHydratedStore()

	s.Add(merch("7", 19.99), 1)
	s.Add(merch("7", 19.99), 2)

	items := s.Items()
	require.Len(t, items, 1, "a product never occupies two lines")
	assert.Equal(t, 3, items[0].Quantity)
	assert.InDelta(t, 59.97, s.TotalPrice(), 0.0001)
}

func TestAddDefaultQuantity(t *testing.T) {
	s, _ := newHydratedStore()

	s.Add(merch("1", 5), 0)
	assert.Equal(t, 1, s.TotalItems())
}

func TestRemove(t *testing.T) {
	s, _ := newHydratedStore()
	s.Add(merch("1", 5), 1)
	s.Add(merch("2", 7), 1)

	s.Remove("1")
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)

	// Removing an absent product is a no-op.
	s.Remove("99")
	assert.Len(t, s.Items(), 1)
}

func TestUpdateQuantitySetsExactly(t *testing.T) {
	s, _ := newHydratedStore()
	s.Add(merch("1", 5), 3)

	s.UpdateQuantity("1", 2)
	assert.Equal(t, 2, s.Items()[0].Quantity, "update is a set, not an increment")
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		s, _ := newHydratedStore()
		s.Add(merch("1", 5), 3)

		s.UpdateQuantity("1", qty)
		assert.Empty(t, s.Items(), "quantity %d must remove the line", qty)
	}
}

func TestTotals(t *testing.T) {
	s, _ := newHydratedStore()
	assert.Equal(t, 0, s.TotalItems())
	assert.Equal(t, 0.0, s.TotalPrice())

	s.Add(merch("1", 10.00), 2)
	s.Add(merch("2", 4.50), 3)

	assert.Equal(t, 5, s.TotalItems())
	assert.InDelta(t, 33.50, s.TotalPrice(), 0.0001)
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.Hydrate()
	s.Add(merch("7", 19.99), 3)
	s.Add(merch("2", 4.50), 1)

	// A fresh store over the same backend reproduces the identical lines.
	s2 := NewStore(kv)
	s2.Hydrate()
	assert.Equal(t, s.Items(), s2.Items())
}

func TestWritesSuppressedBeforeHydration(t *testing.T) {
	kv := storage.NewMemory()
	saved, _ := json.Marshal([]models.CartItem{{Merch: merch("7", 19.99), Quantity: 2}})
	kv.Set(CookieName, string(saved))

	s := NewStore(kv)
	// Mutating before hydration must not clobber the persisted copy.
	s.Add(merch("1", 5), 1)

	persisted, ok := kv.Get(CookieName)
	require.True(t, ok)
	assert.Equal(t, string(saved), persisted)

	// Hydration then loads what was persisted.
	s2 := NewStore(kv)
	s2.Hydrate()
	require.Len(t, s2.Items(), 1)
	assert.Equal(t, "7", s2.Items()[0].ID)
	assert.Equal(t, 2, s2.Items()[0].Quantity)
}

func TestClearErasesPersistedCopy(t *testing.T) {
	s, kv := newHydratedStore()
	s.Add(merch("1", 5), 1)

	_, ok := kv.Get(CookieName)
	require.True(t, ok)

	s.Clear()
	assert.Empty(t, s.Items())
	_, ok = kv.Get(CookieName)
	assert.False(t, ok)
}

func TestCorruptPersistedCartHydratesEmpty(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set(CookieName, "{not json")

	s := NewStore(kv)
	s.Hydrate()
	assert.Empty(t, s.Items())
}

func TestCookieJarBackedRoundTrip(t *testing.T) {
	jar := storage.NewCookieJar()

	s := NewStore(jar)
	s.Hydrate()
	s.Add(merch("7", 19.99), 3)

	s2 := NewStore(jar)
	s2.Hydrate()
	require.Len(t, s2.Items(), 1)
	assert.Equal(t, 3, s2.Items()[0].Quantity)
}

func TestFromContext(t *testing.T) {
	s, _ := newHydratedStore()
	ctx := NewContext(context.Background(), s)

	assert.Same(t, s, FromContext(ctx))
}

func TestFromContextOutsideScopePanics(t *testing.T) {
	assert.Panics(t, func() {
		FromContext(context.Background())
	})
}
