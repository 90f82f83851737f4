package location

import "strconv"

// Display constants for the "you are here" map. The strips render a fixed
// universe of 10 lines and 20 racks no matter how many actually exist in the
// catalog; coordinates outside the universe degrade to an unhighlighted view
// rather than erroring.
const (
	DisplayLines = 10
	DisplayRacks = 20
	windowRadius = 5
)

// Cell is one renderable slot in a line or rack strip.
type Cell struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// LineStrip projects a line number onto the fixed 10-line overview. Exactly
// one cell is current when line falls in [1, DisplayLines]; otherwise no cell
// is marked and the strip renders unannotated.
func LineStrip(line int) []Cell {
	cells := make([]Cell, 0, DisplayLines)
	for i := 1; i <= DisplayLines; i++ {
		cell := Cell{Index: i, Label: "Line " + strconv.Itoa(i)}
		if i == line {
			cell.Current = true
			cell.Label = "Current"
		}
		cells = append(cells, cell)
	}
	return cells
}

// RackWindow computes the centered window [max(1, rack-5), min(20, rack+5)]
// around the target rack. Near the boundaries the window shrinks on the
// clamped side only; it is never extended on the other side to compensate.
// A rack beyond DisplayRacks+windowRadius yields an empty window.
func RackWindow(rack int) []Cell {
	start := rack - windowRadius
	if start < 1 {
		start = 1
	}
	end := rack + windowRadius
	if end > DisplayRacks {
		end = DisplayRacks
	}

	var cells []Cell
	for i := start; i <= end; i++ {
		cell := Cell{Index: i, Label: "Rack " + strconv.Itoa(i)}
		if i == rack {
			cell.Current = true
			cell.Label = "Current"
		}
		cells = append(cells, cell)
	}
	return cells
}
