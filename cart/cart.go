// Package cart holds the shopper's cart state and persists it through a
// key-value backend (a cookie in the browser, SQLite in the simulator).
package cart

import (
	"encoding/json"
	"log"
	"sync"

	"shopfront/api/models"
	"shopfront/api/storage"
)

// CookieName is the storage key the cart is persisted under.
const CookieName = "shopping_cart"

// Store owns the cart line items for one shopper session. Every mutation
// writes the full item list through to the persistence backend; writes are
// suppressed until Hydrate has loaded the previously persisted copy, so an
// empty fresh store can never clobber a saved cart.
type Store struct {
	mu       sync.Mutex
	items    []models.CartItem
	persist  storage.KV
	hydrated bool
}

// NewStore creates an empty, un-hydrated store. Call Hydrate before use; a
// nil backend degrades to memory-only operation.
func NewStore(persist storage.KV) *Store {
	return &Store{persist: persist}
}

// Hydrate loads the persisted line items once and enables write-through.
// A missing or unreadable persisted copy hydrates to an empty cart.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	s.hydrated = true

	if s.persist == nil {
		return
	}
	raw, ok := s.persist.Get(CookieName)
	if !ok || raw == "" {
		return
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("Error reading cart from storage: %v", err)
		return
	}
	s.items = items
}

// save writes the current items through to the backend. Callers hold s.mu.
func (s *Store) save() {
	if !s.hydrated || s.persist == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("Error saving cart to storage: %v", err)
		return
	}
	s.persist.Set(CookieName, string(data))
}

// Add puts quantity units of item in the cart, merging into the existing
// line when the product is already present. A product never occupies two
// lines.
func (s *Store) Add(item models.Merch, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += quantity
			s.save()
			return
		}
	}
	s.items = append(s.items, models.CartItem{Merch: item, Quantity: quantity})
	s.save()
}

// Remove deletes the line for productID. No-op when absent.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID string) {
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.save()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity exactly. A quantity of zero or
// below removes the line instead of keeping a zero-quantity row.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			s.save()
			return
		}
	}
}

// Clear empties the cart and erases the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	if s.persist != nil {
		s.persist.Delete(CookieName)
	}
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems returns the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price times quantity over all lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
