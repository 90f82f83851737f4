package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelfmap/internal/location"
	"shelfmap/internal/models"
)

type strictRecord struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Category   string  `json:"category" validate:"required,category"`
	LineNumber int     `json:"line_number"`
	RackNumber int     `json:"rack_number"`
	PhotoURL   *string `json:"photo_url" validate:"omitempty,url"`
}

// strictRecord opts in to coordinate bounds checking.
func (r strictRecord) Coordinate() location.Coordinate {
	return location.Coordinate{Line: r.LineNumber, Rack: r.RackNumber}
}

func strPtr(s string) *string { return &s }

func TestValidatorAcceptsValidRecord(t *testing.T) {
	v := models.NewValidator()
	err := v.Check(strictRecord{
		Name:       "Coca Cola 330ml",
		Category:   "Beverages",
		LineNumber: 2,
		RackNumber: 102,
	})
	assert.Nil(t, err)
}

func TestValidatorFieldMessages(t *testing.T) {
	v := models.NewValidator()

	tests := []struct {
		name    string
		record  strictRecord
		field   string
		message string
	}{
		{
			name:    "missing name",
			record:  strictRecord{Category: "Bakery", LineNumber: 1, RackNumber: 1},
			field:   "name",
			message: "Product name is required",
		},
		{
			name:    "line below range",
			record:  strictRecord{Name: "x", Category: "Bakery", LineNumber: 0, RackNumber: 1},
			field:   "line_number",
			message: "Line must be at least 1",
		},
		{
			name:    "line above range",
			record:  strictRecord{Name: "x", Category: "Bakery", LineNumber: 1000, RackNumber: 1},
			field:   "line_number",
			message: "Line too high",
		},
		{
			name:    "rack below range",
			record:  strictRecord{Name: "x", Category: "Bakery", LineNumber: 1, RackNumber: 0},
			field:   "rack_number",
			message: "Rack must be at least 1",
		},
		{
			name:    "rack above range",
			record:  strictRecord{Name: "x", Category: "Bakery", LineNumber: 1, RackNumber: 1000},
			field:   "rack_number",
			message: "Rack too high",
		},
		{
			name:    "unknown category",
			record:  strictRecord{Name: "x", Category: "Gadgets", LineNumber: 1, RackNumber: 1},
			field:   "category",
			message: "Unknown category",
		},
		{
			name:    "malformed photo url",
			record:  strictRecord{Name: "x", Category: "Bakery", LineNumber: 1, RackNumber: 1, PhotoURL: strPtr("not a url")},
			field:   "photo_url",
			message: "Photo URL must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.record)
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.message, err.Fields[tt.field])
			}
		})
	}
}

func TestValidatorCollectsAllFailedFields(t *testing.T) {
	v := models.NewValidator()
	err := v.Check(strictRecord{LineNumber: 1000, RackNumber: 0})
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Fields, "name")
		assert.Contains(t, err.Fields, "category")
		assert.Contains(t, err.Fields, "line_number")
		assert.Contains(t, err.Fields, "rack_number")
	}
}

func TestKnownCategory(t *testing.T) {
	assert.True(t, models.KnownCategory("Beverages"))
	assert.True(t, models.KnownCategory("Dairy & Eggs"))
	assert.True(t, models.KnownCategory("Other"))
	assert.False(t, models.KnownCategory("beverages"), "membership is case-sensitive")
	assert.False(t, models.KnownCategory("Gadgets"))
	assert.False(t, models.KnownCategory(""))
}

func TestProductCoordinate(t *testing.T) {
	section := "A"
	p := models.Product{LineNumber: 4, RackNumber: 9, Section: &section}
	coord := p.Coordinate()
	assert.Equal(t, 4, coord.Line)
	assert.Equal(t, 9, coord.Rack)
	assert.Equal(t, "A", coord.Section)

	p.Section = nil
	assert.Equal(t, "", p.Coordinate().Section)
}
