package gomoku

import "errors"

var ErrEmptyLedger = errors.New("ledger is empty")

// Ledger is the ordered history of cells played by one side.
// Turn order is enforced by Game, not here.
type Ledger struct {
	cells []int
}

func (that *Ledger) Record(cell int) {
	that.cells = append(that.cells, cell)
}

// Retract removes and returns the most recently recorded cell.
func (that *Ledger) Retract() (int, error) {
	if len(that.cells) == 0 {
		return 0, ErrEmptyLedger
	}

	last := that.cells[len(that.cells)-1]
	that.cells = that.cells[:len(that.cells)-1]

	return last, nil
}

func (that *Ledger) Last() (int, bool) {
	if len(that.cells) == 0 {
		return 0, false
	}

	return that.cells[len(that.cells)-1], true
}

func (that *Ledger) Len() int {
	return len(that.cells)
}

// Cells returns a copy of the history.
func (that *Ledger) Cells() []int {
	out := make([]int, len(that.cells))
	copy(out, that.cells)

	return out
}
