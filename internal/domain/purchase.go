package domain

import (
	"time"
)

// Purchase is a recorded sale with its line items. Total is always computed
// server-side as the sum of line totals.
type Purchase struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customer_name"`
	Date         time.Time      `json:"date"`
	Total        int64          `json:"total"` // cents
	Lines        []PurchaseLine `json:"lines,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PurchaseLine is a single line of a purchase. UnitPrice is a snapshot of the
// catalog price at purchase time and never changes afterwards.
type PurchaseLine struct {
	ID          string `json:"id"`
	PurchaseID  string `json:"purchase_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
	UnitPrice   int64  `json:"unit_price"` // cents
}

// LineTotal returns the line's contribution to the purchase total.
func (l PurchaseLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// ComputeTotal sums the line totals.
func (p *Purchase) ComputeTotal() int64 {
	var total int64
	for _, l := range p.Lines {
		total += l.LineTotal()
	}
	return total
}
