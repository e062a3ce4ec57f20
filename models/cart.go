// api/models/cart.go
package models

// CartItem is one cart line: a product plus how many of it are in the cart.
// At most one line exists per product id; Quantity is always >= 1 (a
// quantity driven to zero removes the line instead).
type CartItem struct {
	Merch
	Quantity int `json:"quantity"`
}
