package gomoku

// Shape is the mark drawn in a cell.
type Shape string

const (
	ShapeNone   Shape = "none"
	ShapeCircle Shape = "circle"
	ShapeCross  Shape = "cross"
)

const (
	FillNeutral   = "white"
	FillHighlight = "yellow"
)

// CellView is the per-cell projection handed to the presentation layer.
type CellView struct {
	Mark        Side `json:"mark,omitempty"`
	Highlighted bool `json:"highlighted,omitempty"`
	Descriptor
}

// Descriptor says how to draw one cell.
type Descriptor struct {
	Shape Shape  `json:"shape"`
	Fill  string `json:"fill"`
}

// Project maps every cell of the game to its view, indexed by cell.
func Project(game *Game) []CellView {
	views := make([]CellView, len(game.board))
	for cell, occupancy := range game.board {
		views[cell] = CellView{
			Mark:        occupancy.Side,
			Highlighted: occupancy.Highlighted,
			Descriptor:  Describe(occupancy),
		}
	}

	return views
}

// Describe renders a single occupancy: the first player draws circles, the second crosses.
func Describe(occupancy Occupancy) Descriptor {
	fill := FillNeutral
	if occupancy.Highlighted {
		fill = FillHighlight
	}

	switch occupancy.Side {
	case First:
		return Descriptor{Shape: ShapeCircle, Fill: fill}
	case Second:
		return Descriptor{Shape: ShapeCross, Fill: fill}
	default:
		return Descriptor{Shape: ShapeNone, Fill: FillNeutral}
	}
}
