package location

// Bounds for physical addresses. Lines and racks are numbered by the
// store layout team and never exceed three digits.
const (
	MinLine = 1
	MaxLine = 999
	MinRack = 1
	MaxRack = 999
)

// Coordinate is a product's physical address on the floor: the aisle line,
// the rack within that line, and an optional section sub-label ("A", "Top").
type Coordinate struct {
	Line    int    `json:"line_number"`
	Rack    int    `json:"rack_number"`
	Section string `json:"section,omitempty"`
}

// FieldError reports a single coordinate field that violated its bound.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Validate checks the coordinate against the strict entry bounds and returns
// one FieldError per violated field. An empty slice means the coordinate is
// acceptable. Section is free text and never rejected.
func (c Coordinate) Validate() []FieldError {
	var errs []FieldError
	switch {
	case c.Line < MinLine:
		errs = append(errs, FieldError{Field: "line_number", Message: "Line must be at least 1"})
	case c.Line > MaxLine:
		errs = append(errs, FieldError{Field: "line_number", Message: "Line too high"})
	}
	switch {
	case c.Rack < MinRack:
		errs = append(errs, FieldError{Field: "rack_number", Message: "Rack must be at least 1"})
	case c.Rack > MaxRack:
		errs = append(errs, FieldError{Field: "rack_number", Message: "Rack too high"})
	}
	return errs
}

// SameRack reports whether two coordinates address the same physical rack.
// Sections subdivide a rack, so they are ignored for this comparison.
func (c Coordinate) SameRack(other Coordinate) bool {
	return c.Line == other.Line && c.Rack == other.Rack
}
