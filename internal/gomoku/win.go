package gomoku

// CellSet is a set of cell indices owned by one side.
type CellSet map[int]struct{}

func NewCellSet(cells ...int) CellSet {
	set := make(CellSet, len(cells))
	for _, cell := range cells {
		set[cell] = struct{}{}
	}

	return set
}

func (that CellSet) Has(cell int) bool {
	_, ok := that[cell]
	return ok
}

// WinningLine returns the contiguous run of at least WinLength owned cells
// passing through pivot, ordered from the lowest offset to the highest.
// Only the first winning direction is reported. It returns nil when there is no win.
func (that Grid) WinningLine(owned CellSet, pivot int) []int {
	for _, dir := range that.Directions() {
		start, end := that.run(owned, pivot, dir)
		if end-start < WinLength-1 {
			continue
		}

		line := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			cell, _ := that.Neighbor(pivot, dir, i)
			line = append(line, cell)
		}

		return line
	}

	return nil
}

// run counts owned cells on both sides of pivot along dir, at most WinLength-1 each way.
func (that Grid) run(owned CellSet, pivot int, dir Direction) (int, int) {
	start, end := 0, 0

	for i := 1; i < WinLength; i++ {
		cell, ok := that.Neighbor(pivot, dir, -i)
		if !ok || !owned.Has(cell) {
			break
		}
		start--
	}

	for i := 1; i < WinLength; i++ {
		cell, ok := that.Neighbor(pivot, dir, i)
		if !ok || !owned.Has(cell) {
			break
		}
		end++
	}

	return start, end
}
