package repositories

import (
	"errors"
	"time"

	"shelfmap/internal/models"
)

// ErrProductNotFound is returned when no product exists for a given ID.
var ErrProductNotFound = errors.New("product not found")

// Filter wildcard accepted from the UI selects.
const FilterAll = "all"

// Sortable columns. Anything else falls back to SortByName.
const (
	SortByName      = "name"
	SortByBrand     = "brand"
	SortByCategory  = "category"
	SortByLine      = "line_number"
	SortByRack      = "rack_number"
	SortByCreatedAt = "created_at"
)

// ProductQuery describes one listing request: conjunctive filters, a sort
// column and direction, and an offset/limit window. Category and Line skip
// filtering when empty or FilterAll; Search skips when blank.
type ProductQuery struct {
	Search    string
	Category  string
	Line      string
	SortField string
	SortOrder string // "asc" or "desc"
	Offset    int
	Limit     int
}

// LocationRecord is the slim row used by the statistics scan.
type LocationRecord struct {
	LineNumber int
	RackNumber int
	CreatedAt  time.Time
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns one page of products matching the query plus the
	// filtered-but-unpaged total count.
	List(query ProductQuery) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	// Recent returns the latest n products by creation time.
	Recent(n int) ([]models.Product, error)
	// FilterOptions returns the distinct non-empty categories and the
	// sorted distinct line numbers present in the catalog.
	FilterOptions() (categories []string, lines []int, err error)
	// Locations returns every product's location and creation time for
	// statistics aggregation.
	Locations() ([]LocationRecord, error)
}
