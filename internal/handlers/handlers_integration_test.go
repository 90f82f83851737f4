package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shelfmap/internal/handlers"
	"shelfmap/internal/models"
	"shelfmap/internal/repositories"
	"shelfmap/internal/services"
)

// setupApp builds a Fiber app over an in-memory SQLite catalog, wired the
// same way as main.
func setupApp(t *testing.T) (*fiber.App, repositories.ProductRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	repo := repositories.NewGORMProductRepository(db)
	catalogService := services.NewCatalogService(repo, models.NewValidator(), nil)
	statsService := services.NewStatsService(repo)
	productHandler := handlers.NewProductHandler(catalogService, statsService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	return app, repo
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	resp.Body.Close()
	return resp, decoded
}

func TestProductLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	// --- Create via the strict path ---
	resp, created := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":        "Coca Cola 330ml",
		"category":    "Beverages",
		"keywords":    "soda, cola",
		"line_number": 2,
		"rack_number": 102,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(float64)
	assert.NotZero(t, id)
	assert.Equal(t, created["created_at"], created["updated_at"])
	assert.Nil(t, created["brand"], "unset optionals serialize as null")

	// --- Case-insensitive search finds it ---
	resp, listing := doJSON(t, app, http.MethodGet, "/api/v1/products?q=COLA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := listing["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Coca Cola 330ml", products[0].(map[string]interface{})["name"])

	// --- Fetch by ID ---
	resp, fetched := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%.0f", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Coca Cola 330ml", fetched["name"])

	// --- Edit path accepts free-text category ---
	resp, updated := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%.0f", id), map[string]interface{}{
		"name":        "Coca Cola 330ml",
		"category":    "fizzy drinks",
		"line_number": 2,
		"rack_number": 102,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fizzy drinks", updated["category"])

	// --- Delete, then fetch → NotFound ---
	resp, deleted := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%.0f", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, deleted["message"], "deleted successfully")

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%.0f", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProductValidation(t *testing.T) {
	app, repo := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":        "Out Of Range",
		"category":    "Beverages",
		"line_number": 1000,
		"rack_number": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "Line too high", errs["line_number"])

	// No row was created.
	_, total, err := repo.List(repositories.ProductQuery{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListPagination(t *testing.T) {
	app, repo := setupApp(t)
	for i := 1; i <= 25; i++ {
		p := models.Product{Name: fmt.Sprintf("Item %03d", i), Category: "Other", LineNumber: 1, RackNumber: i}
		require.NoError(t, repo.Create(&p))
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products?page_size=12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(25), body["total"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Len(t, body["products"].([]interface{}), 12)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products?page_size=12&page=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["products"].([]interface{}), 1, "25 items at page size 12 leave one on page 3")
}

func TestListFilters(t *testing.T) {
	app, repo := setupApp(t)
	seedData := []models.Product{
		{Name: "Coca Cola 330ml", Category: "Beverages", LineNumber: 2, RackNumber: 102},
		{Name: "Pepsi Max", Category: "Beverages", LineNumber: 4, RackNumber: 7},
		{Name: "Whole Milk 1L", Category: "Dairy & Eggs", LineNumber: 2, RackNumber: 1},
	}
	for i := range seedData {
		require.NoError(t, repo.Create(&seedData[i]))
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products?category=Beverages&line=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := body["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Coca Cola 330ml", products[0].(map[string]interface{})["name"])

	// "all" disables a filter.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products?category=all&line=all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total"])

	// A non-numeric line value is treated as no filter, never as an error.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products?line=abc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total"])

	// Sort by rack descending.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products?sort=rack_number&order=desc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products = body["products"].([]interface{})
	assert.Equal(t, "Coca Cola 330ml", products[0].(map[string]interface{})["name"])
}

func TestProductLocationView(t *testing.T) {
	app, repo := setupApp(t)
	product := models.Product{Name: "Coca Cola 330ml", Category: "Beverages", LineNumber: 2, RackNumber: 7}
	require.NoError(t, repo.Create(&product))

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/location", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lineStrip := body["line_strip"].([]interface{})
	require.Len(t, lineStrip, 10)
	second := lineStrip[1].(map[string]interface{})
	assert.Equal(t, true, second["current"])
	assert.Equal(t, "Current", second["label"])

	rackWindow := body["rack_window"].([]interface{})
	require.Len(t, rackWindow, 11, "rack 7 sits away from both boundaries")
	first := rackWindow[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["index"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/999/location", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatsAndFiltersEndpoints(t *testing.T) {
	app, repo := setupApp(t)
	seedData := []models.Product{
		{Name: "Coca Cola 330ml", Category: "Beverages", LineNumber: 2, RackNumber: 102},
		{Name: "Pepsi Max", Category: "Beverages", LineNumber: 2, RackNumber: 102},
		{Name: "Whole Milk 1L", Category: "Dairy & Eggs", LineNumber: 3, RackNumber: 1},
	}
	for i := range seedData {
		require.NoError(t, repo.Create(&seedData[i]))
	}

	resp, stats := doJSON(t, app, http.MethodGet, "/api/v1/products/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), stats["total_products"])
	assert.Equal(t, float64(2), stats["total_lines"])
	assert.Equal(t, float64(2), stats["total_racks"], "two products share a rack")
	assert.Equal(t, float64(3), stats["recently_added"])

	resp, filters := doJSON(t, app, http.MethodGet, "/api/v1/products/filters", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{"Beverages", "Dairy & Eggs"}, filters["categories"])
	assert.Equal(t, []interface{}{float64(2), float64(3)}, filters["lines"])

	resp, recent := doJSON(t, app, http.MethodGet, "/api/v1/products/recent", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, recent["products"].([]interface{}), 3)
}

func TestInvalidIDAndBody(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
