package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"shelfmap/internal/location"
	"shelfmap/internal/models"
	"shelfmap/internal/repositories"
	"shelfmap/internal/services"
)

// Products shown in the "recently added" panel on the home page.
const recentPanelSize = 5

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	catalog *services.CatalogService
	stats   *services.StatsService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService, stats *services.StatsService) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		stats:   stats,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/recent", h.HandleRecentProducts)
	products.Get("/filters", h.HandleFilterOptions)
	products.Get("/stats", h.HandleStats)
	products.Get("/:id", h.HandleGetProduct)
	products.Get("/:id/location", h.HandleProductLocation)
	products.Post("/", h.HandleCreateProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// HandleListProducts serves the search/management listing: filters, sort and
// pagination all come in as query parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	req := services.SearchRequest{
		Search:    c.Query("q"),
		Category:  c.Query("category"),
		Line:      c.Query("line"),
		SortField: c.Query("sort"),
		SortOrder: c.Query("order"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", services.DefaultPageSize),
	}

	result, err := h.catalog.Search(req)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleRecentProducts serves the home page "recently added" panel.
func (h *ProductHandler) HandleRecentProducts(c *fiber.Ctx) error {
	products, err := h.catalog.RecentProducts(recentPanelSize)
	if err != nil {
		log.Printf("Error fetching recent products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve recent products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleFilterOptions serves the distinct categories and lines that populate
// the filter selects.
func (h *ProductHandler) HandleFilterOptions(c *fiber.Ctx) error {
	categories, lines, err := h.catalog.FilterOptions()
	if err != nil {
		log.Printf("Error fetching filter options: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve filter options",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"categories": categories,
		"lines":      lines,
	})
}

// HandleStats serves the management page summary counters.
func (h *ProductHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.stats.Summary()
	if err != nil {
		log.Printf("Error computing stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute statistics",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return h.catalogError(c, id, err, "retrieve")
	}
	return c.JSON(product)
}

// HandleProductLocation serves the "you are here" projection: the product
// plus its line strip and centered rack window.
func (h *ProductHandler) HandleProductLocation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return h.catalogError(c, id, err, "retrieve")
	}
	coord := product.Coordinate()
	return c.JSON(fiber.Map{
		"product":     product,
		"line_strip":  location.LineStrip(coord.Line),
		"rack_window": location.RackWindow(coord.Rack),
	})
}

// HandleCreateProduct handles the strict add path.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.catalog.CreateProduct(input)
	if err != nil {
		return h.mutationError(c, err, "create")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct handles the edit path.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}
	var input services.ProductUpdate
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.catalog.UpdateProduct(id, input)
	if err != nil {
		return h.mutationError(c, err, "update")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product permanently.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}
	if err := h.catalog.DeleteProduct(id); err != nil {
		return h.mutationError(c, err, "delete")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// catalogError maps read-path errors to responses.
func (h *ProductHandler) catalogError(c *fiber.Ctx, id uint, err error, action string) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	log.Printf("Error trying to %s product %d: %v", action, id, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not " + action + " product",
		"error":   err.Error(),
	})
}

// mutationError maps mutation-path errors to responses. Validation failures
// carry per-field messages for inline display next to the form fields.
func (h *ProductHandler) mutationError(c *fiber.Ctx, err error, action string) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}
	if errors.Is(err, repositories.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	log.Printf("Error trying to %s product: %v", action, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not " + action + " product",
		"error":   err.Error(),
	})
}
