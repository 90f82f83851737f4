package models

import (
	"time"

	"shelfmap/internal/location"
)

// Product represents one item on the store floor and where it sits.
// Optional columns are pointers so that JSON null round-trips as "not set".
// Rows are hard-deleted; there is no soft-delete column.
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	Brand      *string   `json:"brand"`
	Category   string    `json:"category"`
	Keywords   *string   `json:"keywords"`
	LineNumber int       `json:"line_number" gorm:"not null"`
	RackNumber int       `json:"rack_number" gorm:"not null"`
	Section    *string   `json:"section"`
	PhotoURL   *string   `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Coordinate returns the product's physical address.
func (p Product) Coordinate() location.Coordinate {
	coord := location.Coordinate{Line: p.LineNumber, Rack: p.RackNumber}
	if p.Section != nil {
		coord.Section = *p.Section
	}
	return coord
}

// Categories is the closed set offered by the add-product form. The edit
// path accepts free text, so stored rows may carry values outside this set.
var Categories = []string{
	"Beverages",
	"Dairy & Eggs",
	"Meat & Seafood",
	"Fresh Produce",
	"Frozen Foods",
	"Bakery",
	"Pantry Staples",
	"Snacks & Candy",
	"Health & Beauty",
	"Household Items",
	"Baby & Kids",
	"Pet Supplies",
	"Other",
}

// KnownCategory reports whether s belongs to the closed category set.
func KnownCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}
