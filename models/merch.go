// api/models/merch.go
package models

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// RawMerch is a catalog record as returned by GET /api/get-merch. The backend
// is allowed to omit any field except category; pointer types distinguish
// "absent" from zero values so the client can apply fallbacks.
type RawMerch struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImgURI      string  `json:"imgUri,omitempty"`
	Available   *bool   `json:"available,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	IsFeatured  *bool   `json:"isFeatured,omitempty"`
	Category    string  `json:"category"`
}

// MerchItem is a fully-populated catalog record, safe for display.
type MerchItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImgURI      string  `json:"imgUri"`
	Available   bool    `json:"available"`
	Quantity    int     `json:"quantity"`
	IsFeatured  bool    `json:"isFeatured"`
	Category    string  `json:"category"`
}

// Normalize fills every missing field of a raw record with a generated
// fallback so an incomplete catalog never blocks rendering. index is the
// record's zero-based position in the response.
//
// Fallback rules: id = index+1, name = "Product N", price uniform in
// [10, 110), image = category placeholder, available defaults to true unless
// explicitly false, quantity uniform in [1, 50], featured ~30% of the time.
func (r RawMerch) Normalize(index int) MerchItem {
	item := MerchItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImgURI:      r.ImgURI,
		Available:   r.Available == nil || *r.Available,
		Quantity:    r.Quantity,
		Category:    r.Category,
	}

	if item.ID == 0 {
		item.ID = index + 1
	}
	if item.Name == "" {
		item.Name = fmt.Sprintf("Product %d", index+1)
	}
	if item.Price == 0 {
		item.Price = rand.Float64()*100 + 10
	}
	if item.ImgURI == "" {
		item.ImgURI = fmt.Sprintf("/images/placeholder-%s.jpg", strings.ToLower(r.Category))
	}
	if item.Quantity == 0 {
		item.Quantity = rand.IntN(50) + 1
	}
	if r.IsFeatured != nil {
		item.IsFeatured = *r.IsFeatured
	} else {
		item.IsFeatured = rand.Float64() > 0.7
	}
	if item.Description == "" {
		item.Description = fmt.Sprintf("%s product", r.Category)
	}

	return item
}

// Merch is the display-facing shape used by store pages and the cart.
type Merch struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	InStock     bool    `json:"inStock"`
}

// ToMerch converts a normalized catalog record to its display shape.
func (m MerchItem) ToMerch() Merch {
	return Merch{
		ID:          fmt.Sprintf("%d", m.ID),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImgURI,
		InStock:     m.Available,
	}
}
