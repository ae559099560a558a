package domain

import (
	"time"
)

// Person is an entry in the people registry. Height is in meters and Weight
// in kilograms.
type Person struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Height      float64   `json:"height"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
