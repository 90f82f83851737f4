package repositories

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"shelfmap/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository, used for local runs without a database and in tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
	nextID   uint
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func matchesSearch(p models.Product, needle string) bool {
	for _, field := range []string{p.Name, deref(p.Brand), deref(p.Keywords), p.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// List mirrors the SQL composition: conjunctive filters, sort, then the
// offset/limit window over the filtered set.
func (r *MemoryProductRepository) List(query ProductQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	lineFilter := -1
	if query.Line != "" && query.Line != FilterAll {
		n, err := strconv.Atoi(query.Line)
		if err != nil {
			return nil, 0, err
		}
		lineFilter = n
	}
	for _, p := range r.products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if query.Category != "" && query.Category != FilterAll && p.Category != query.Category {
			continue
		}
		if lineFilter >= 0 && p.LineNumber != lineFilter {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, query.SortField, query.SortOrder)
	total := int64(len(matched))

	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	page := make([]models.Product, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func sortProducts(products []models.Product, field, order string) {
	less := func(a, b models.Product) bool { return a.Name < b.Name }
	switch field {
	case SortByBrand:
		less = func(a, b models.Product) bool { return deref(a.Brand) < deref(b.Brand) }
	case SortByCategory:
		less = func(a, b models.Product) bool { return a.Category < b.Category }
	case SortByLine:
		less = func(a, b models.Product) bool { return a.LineNumber < b.LineNumber }
	case SortByRack:
		less = func(a, b models.Product) bool { return a.RackNumber < b.RackNumber }
	case SortByCreatedAt:
		less = func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := order == "desc"
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if less(a, b) {
			return !desc
		}
		if less(b, a) {
			return desc
		}
		// Tie-break on ID so pagination windows stay deterministic.
		return a.ID < b.ID
	})
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, assigning its ID and timestamps.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	// Like the SQL store, keep caller-supplied timestamps and only fill
	// the zero ones.
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	r.products[product.ID] = *product
	return nil
}

// Update overwrites an existing product and refreshes its updated_at.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// Recent returns the latest n products by creation time.
func (r *MemoryProductRepository) Recent(n int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	sortProducts(all, SortByCreatedAt, "desc")
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// FilterOptions returns distinct categories and sorted distinct lines.
func (r *MemoryProductRepository) FilterOptions() ([]string, []int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catSet := make(map[string]struct{})
	lineSet := make(map[int]struct{})
	for _, p := range r.products {
		if p.Category != "" {
			catSet[p.Category] = struct{}{}
		}
		lineSet[p.LineNumber] = struct{}{}
	}
	categories := make([]string, 0, len(catSet))
	for c := range catSet {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	lines := make([]int, 0, len(lineSet))
	for l := range lineSet {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return categories, lines, nil
}

// Locations returns every product's location and creation time.
func (r *MemoryProductRepository) Locations() ([]LocationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]LocationRecord, 0, len(r.products))
	for _, p := range r.products {
		records = append(records, LocationRecord{
			LineNumber: p.LineNumber,
			RackNumber: p.RackNumber,
			CreatedAt:  p.CreatedAt,
		})
	}
	return records, nil
}
