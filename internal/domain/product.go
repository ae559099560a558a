package domain

import (
	"time"
)

// Product is a catalog entry. The catalog price is the authoritative unit
// price; client-submitted prices are never trusted.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     int64     `json:"price"` // cents
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
