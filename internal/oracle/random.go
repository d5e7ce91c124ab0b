package oracle

import (
	"context"
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Random plays a free cell next to the last step when there is one and a
// random free cell otherwise.
type Random struct {
	grid gomoku.Grid
}

func NewRandom(grid gomoku.Grid) *Random {
	return &Random{grid: grid}
}

func (that *Random) NextMove(_ context.Context, req Request) (int, error) {
	taken := gomoku.NewCellSet(req.PlayerCells...)
	for _, cell := range req.OpponentCells {
		taken[cell] = struct{}{}
	}

	if req.LastStep != nil {
		if cells := that.freeNeighbors(taken, *req.LastStep); len(cells) > 0 {
			return cells[rand.Intn(len(cells))], nil //nolint: gosec // it's ok
		}
	}

	availableCells := make([]int, 0, that.grid.Cells())
	for cell := 0; cell < that.grid.Cells(); cell++ {
		if !taken.Has(cell) {
			availableCells = append(availableCells, cell)
		}
	}

	if len(availableCells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	return availableCells[rand.Intn(len(availableCells))], nil //nolint: gosec // it's ok
}

func (that *Random) freeNeighbors(taken gomoku.CellSet, cell int) []int {
	if !that.grid.Contains(cell) {
		return nil
	}

	var out []int
	for _, dir := range that.grid.Directions() {
		for _, steps := range []int{-1, 1} {
			next, ok := that.grid.Neighbor(cell, dir, steps)
			if ok && !taken.Has(next) {
				out = append(out, next)
			}
		}
	}

	return out
}
