package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"shelfmap/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// sortColumns maps query sort fields to real columns. Sort input never
// reaches the ORDER BY clause without passing through this map.
var sortColumns = map[string]string{
	SortByName:      "name",
	SortByBrand:     "brand",
	SortByCategory:  "category",
	SortByLine:      "line_number",
	SortByRack:      "rack_number",
	SortByCreatedAt: "created_at",
}

func orderClause(query ProductQuery) string {
	column, ok := sortColumns[query.SortField]
	if !ok {
		column = "name"
	}
	direction := "asc"
	if query.SortOrder == "desc" {
		direction = "desc"
	}
	// Tie-break on id: without it the order of rows sharing a sort key is
	// unspecified, and offset/limit pages can overlap or skip rows.
	return column + " " + direction + ", id asc"
}

// List applies the filters conjunctively (search clause itself is an OR of
// case-insensitive substring matches), counts the filtered set, then fetches
// the sorted offset/limit window.
func (r *GORMProductRepository) List(query ProductQuery) ([]models.Product, int64, error) {
	tx := r.db.Model(&models.Product{})

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		tx = tx.Where(
			"LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if query.Category != "" && query.Category != FilterAll {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.Line != "" && query.Line != FilterAll {
		line, err := strconv.Atoi(query.Line)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid line filter %q: %w", query.Line, err)
		}
		tx = tx.Where("line_number = ?", line)
	}

	// Count on a fresh session so the filtered tx can be reused for the
	// windowed fetch.
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := tx.Order(orderClause(query)).Offset(query.Offset).Limit(query.Limit).Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product; the store assigns ID and timestamps.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves all columns of an existing product, refreshing updated_at.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save writes every column, including cleared optionals
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not report ErrRecordNotFound for a missing row,
		// so check RowsAffected.
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product permanently. There is no soft delete.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Recent returns the latest n products by creation time.
func (r *GORMProductRepository) Recent(n int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("created_at desc, id asc").Limit(n).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent products: %w", err)
	}
	return products, nil
}

// FilterOptions returns the distinct values that populate the category and
// line filter selects.
func (r *GORMProductRepository) FilterOptions() ([]string, []int, error) {
	var categories []string
	err := r.db.Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var lines []int
	err = r.db.Model(&models.Product{}).
		Distinct("line_number").
		Order("line_number").
		Pluck("line_number", &lines).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch lines: %w", err)
	}
	return categories, lines, nil
}

// Locations scans every product's location and creation time. Statistics are
// recomputed from this scan on demand rather than maintained incrementally.
func (r *GORMProductRepository) Locations() ([]LocationRecord, error) {
	var records []LocationRecord
	err := r.db.Model(&models.Product{}).
		Select("line_number", "rack_number", "created_at").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return records, nil
}
