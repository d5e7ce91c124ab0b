package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid_WinningLine(t *testing.T) {
	grid := DefaultGrid

	t.Run("Gap breaks the run", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(1, 2, 3, 4, 6), 4)

		assert.Nil(t, line)
	})

	t.Run("Pivot in the middle of the run", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(1, 2, 3, 4, 5), 3)

		assert.Equal(t, []int{1, 2, 3, 4, 5}, line)
	})

	t.Run("Pivot at the end of the run", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(1, 2, 3, 4, 5), 5)

		assert.Equal(t, []int{1, 2, 3, 4, 5}, line)
	})

	t.Run("Four in a row is not a win", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(10, 11, 12, 13), 13)

		assert.Nil(t, line)
	})

	t.Run("Run of six returns every cell", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(30, 31, 32, 33, 34, 35), 32)

		assert.Equal(t, []int{30, 31, 32, 33, 34, 35}, line)
	})

	t.Run("Vertical line", func(t *testing.T) {
		cells := []int{grid.Index(2, 7), grid.Index(3, 7), grid.Index(4, 7), grid.Index(5, 7), grid.Index(6, 7)}

		line := grid.WinningLine(NewCellSet(cells...), cells[0])

		assert.Equal(t, cells, line)
	})

	t.Run("Diagonal lines", func(t *testing.T) {
		up := []int{grid.Index(10, 14), grid.Index(11, 13), grid.Index(12, 12), grid.Index(13, 11), grid.Index(14, 10)}
		down := []int{grid.Index(3, 3), grid.Index(4, 4), grid.Index(5, 5), grid.Index(6, 6), grid.Index(7, 7)}

		assert.Equal(t, up, grid.WinningLine(NewCellSet(up...), up[2]))
		assert.Equal(t, down, grid.WinningLine(NewCellSet(down...), down[4]))
	})

	t.Run("Cells wrapping over a row edge do not count", func(t *testing.T) {
		// Given: 22..24 end row 0 and 25..26 start row 1
		owned := NewCellSet(22, 23, 24, 25, 26)

		// When: the pivot sits at the row edge
		line := grid.WinningLine(owned, 24)

		// Then: no line is reported
		assert.Nil(t, line)
	})

	t.Run("Only the first winning direction is reported", func(t *testing.T) {
		// Given: a cross of a horizontal and a vertical five meeting at the pivot
		pivot := grid.Index(12, 12)
		owned := NewCellSet(pivot)
		for i := 1; i <= 2; i++ {
			owned[pivot-i] = struct{}{}
			owned[pivot+i] = struct{}{}
			owned[pivot-i*Size] = struct{}{}
			owned[pivot+i*Size] = struct{}{}
		}

		// When: detecting the win
		line := grid.WinningLine(owned, pivot)

		// Then: the horizontal line wins the tie-break
		assert.Equal(t, []int{pivot - 2, pivot - 1, pivot, pivot + 1, pivot + 2}, line)
	})

	t.Run("Opponent cells are never part of the set", func(t *testing.T) {
		line := grid.WinningLine(NewCellSet(), 40)

		assert.Nil(t, line)
	})
}
