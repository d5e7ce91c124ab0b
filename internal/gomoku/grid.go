package gomoku

import "errors"

const (
	// Size is the side of the playing board.
	Size = 25

	// WinLength is the number of contiguous cells that wins the game.
	WinLength = 5
)

var ErrInvalidCell = errors.New("invalid cell index")

// Direction is one of the four line directions on the grid.
type Direction struct {
	Name   string
	Stride int

	dRow int
	dCol int
}

// Grid is a square index space addressed row-major: cell = row*size + col.
type Grid struct {
	size int
}

// DefaultGrid is the 25x25 board every game is played on.
var DefaultGrid = NewGrid(Size)

func NewGrid(size int) Grid {
	return Grid{size: size}
}

func (that Grid) Size() int {
	return that.size
}

// Cells returns the number of cells on the grid.
func (that Grid) Cells() int {
	return that.size * that.size
}

// Contains reports whether cell is a valid index.
func (that Grid) Contains(cell int) bool {
	return cell >= 0 && cell < that.Cells()
}

func (that Grid) RowCol(cell int) (int, int) {
	return cell / that.size, cell % that.size
}

func (that Grid) Index(row, col int) int {
	return row*that.size + col
}

// Directions returns the four line directions in win-evaluation order:
// horizontal, vertical, diagonal up-right and diagonal down-right.
func (that Grid) Directions() [4]Direction {
	return [4]Direction{
		{Name: "horizontal", Stride: 1, dRow: 0, dCol: 1},
		{Name: "vertical", Stride: that.size, dRow: 1, dCol: 0},
		{Name: "diagonal-up", Stride: that.size - 1, dRow: 1, dCol: -1},
		{Name: "diagonal-down", Stride: that.size + 1, dRow: 1, dCol: 1},
	}
}

// Neighbor walks steps cells from cell along dir (negative steps walk backwards).
// It reports false when the walk leaves the grid, including wrapping over a row edge.
func (that Grid) Neighbor(cell int, dir Direction, steps int) (int, bool) {
	row, col := that.RowCol(cell)
	row += dir.dRow * steps
	col += dir.dCol * steps

	if row < 0 || row >= that.size || col < 0 || col >= that.size {
		return 0, false
	}

	return that.Index(row, col), true
}
