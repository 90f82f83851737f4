package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"shelfmap/internal/location"
	"shelfmap/internal/models"
	"shelfmap/internal/repositories"
	"shelfmap/pkg/rabbitmq"
)

// Page size offered by the UI when none is requested.
const DefaultPageSize = 12

// EventPublisher publishes catalog mutation events. Satisfied by
// *rabbitmq.Client; nil disables publication.
type EventPublisher interface {
	PublishProductEvent(event rabbitmq.ProductEvent) error
}

// CatalogService handles business logic for the product catalog: listing
// with filters, the mutation paths, and their validation.
type CatalogService struct {
	repo     repositories.ProductRepository
	validate *models.Validator
	mqClient EventPublisher
}

// NewCatalogService creates a new CatalogService. mqClient may be nil when
// no broker is configured.
func NewCatalogService(repo repositories.ProductRepository, validate *models.Validator, mqClient EventPublisher) *CatalogService {
	return &CatalogService{
		repo:     repo,
		validate: validate,
		mqClient: mqClient,
	}
}

// SearchRequest is the raw filter/sort/page state coming from the UI.
type SearchRequest struct {
	Search    string
	Category  string
	Line      string
	SortField string
	SortOrder string
	Page      int
	PageSize  int
}

// SearchResult is one page of products plus the paging totals derived from
// the filtered-but-unpaged count.
type SearchResult struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

var validSortFields = map[string]bool{
	repositories.SortByName:      true,
	repositories.SortByBrand:     true,
	repositories.SortByCategory:  true,
	repositories.SortByLine:      true,
	repositories.SortByRack:      true,
	repositories.SortByCreatedAt: true,
}

// normalize fills defaults and clamps unrecognized sort and filter input
// before it reaches the store.
func (req SearchRequest) normalize() SearchRequest {
	if !validSortFields[req.SortField] {
		req.SortField = repositories.SortByName
	}
	// Line values come from a select of real line numbers; anything
	// non-numeric means no line filter, same as "all".
	if req.Line != "" && req.Line != repositories.FilterAll {
		if _, err := strconv.Atoi(req.Line); err != nil {
			req.Line = ""
		}
	}
	if req.SortOrder != "desc" {
		req.SortOrder = "asc"
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	return req
}

// Search translates UI state into a store query and returns the requested
// page. Read-only; the caller's displayed state is its own concern on error.
func (s *CatalogService) Search(req SearchRequest) (*SearchResult, error) {
	req = req.normalize()
	query := repositories.ProductQuery{
		Search:    req.Search,
		Category:  req.Category,
		Line:      req.Line,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
		Offset:    (req.Page - 1) * req.PageSize,
		Limit:     req.PageSize,
	}
	products, total, err := s.repo.List(query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return &SearchResult{
		Products:   products,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a single product by its ID.
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// RecentProducts returns the latest n products by creation time.
func (s *CatalogService) RecentProducts(n int) ([]models.Product, error) {
	return s.repo.Recent(n)
}

// FilterOptions returns the distinct categories and lines present in the
// catalog, for populating the filter selects.
func (s *CatalogService) FilterOptions() ([]string, []int, error) {
	return s.repo.FilterOptions()
}

// ProductInput is the strict add-path payload. It implements Coordinate so
// the shared validator applies the 1..999 location bounds.
type ProductInput struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Brand      *string `json:"brand"`
	Category   string  `json:"category" validate:"required,category"`
	Keywords   *string `json:"keywords"`
	LineNumber int     `json:"line_number"`
	RackNumber int     `json:"rack_number"`
	Section    *string `json:"section"`
	PhotoURL   *string `json:"photo_url" validate:"omitempty,url"`
}

// Coordinate exposes the input's location for strict bounds validation.
func (in ProductInput) Coordinate() location.Coordinate {
	return location.Coordinate{Line: in.LineNumber, Rack: in.RackNumber}
}

// ProductUpdate is the edit-path payload. It deliberately accepts free-text
// category and does not re-check the numeric bounds, matching the behavior
// of the original edit form.
type ProductUpdate struct {
	Name       string  `json:"name" validate:"required"`
	Brand      *string `json:"brand"`
	Category   string  `json:"category"`
	Keywords   *string `json:"keywords"`
	LineNumber int     `json:"line_number"`
	RackNumber int     `json:"rack_number"`
	Section    *string `json:"section"`
	PhotoURL   *string `json:"photo_url"`
}

// blankToNil folds empty-string optionals into "not set" so they validate
// and persist as null.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// CreateProduct validates the strict-path input and persists a new product.
// On validation failure nothing is written and the returned error is a
// *models.ValidationError naming each violated field.
func (s *CatalogService) CreateProduct(in ProductInput) (*models.Product, error) {
	in.Brand = blankToNil(in.Brand)
	in.Keywords = blankToNil(in.Keywords)
	in.Section = blankToNil(in.Section)
	in.PhotoURL = blankToNil(in.PhotoURL)

	if verr := s.validate.Check(in); verr != nil {
		return nil, verr
	}

	product := &models.Product{
		Name:       in.Name,
		Brand:      in.Brand,
		Category:   in.Category,
		Keywords:   in.Keywords,
		LineNumber: in.LineNumber,
		RackNumber: in.RackNumber,
		Section:    in.Section,
		PhotoURL:   in.PhotoURL,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(rabbitmq.ActionCreated, product)
	return product, nil
}

// UpdateProduct applies the edit-path payload to an existing product.
func (s *CatalogService) UpdateProduct(id uint, in ProductUpdate) (*models.Product, error) {
	in.Brand = blankToNil(in.Brand)
	in.Keywords = blankToNil(in.Keywords)
	in.Section = blankToNil(in.Section)
	in.PhotoURL = blankToNil(in.PhotoURL)

	if verr := s.validate.Check(in); verr != nil {
		return nil, verr
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.Brand = in.Brand
	product.Category = in.Category
	product.Keywords = in.Keywords
	product.LineNumber = in.LineNumber
	product.RackNumber = in.RackNumber
	product.Section = in.Section
	product.PhotoURL = in.PhotoURL

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(rabbitmq.ActionUpdated, product)
	return product, nil
}

// DeleteProduct removes a product permanently.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(rabbitmq.ActionDeleted, product)
	return nil
}

// publish emits a catalog event. The mutation has already committed, so a
// publish failure is logged and swallowed rather than rolled back.
func (s *CatalogService) publish(action string, product *models.Product) {
	if s.mqClient == nil {
		return
	}
	event := rabbitmq.NewProductEvent(action, product.ID, product.Name)
	if err := s.mqClient.PublishProductEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", action, product.ID, err)
	}
}
