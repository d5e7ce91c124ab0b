package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// Side identifies one of the two players. The first player moves first.
type Side uint8

const (
	NoSide Side = iota
	First
	Second
)

func (that Side) Opponent() Side {
	switch that {
	case First:
		return Second
	case Second:
		return First
	default:
		return NoSide
	}
}

func (that Side) String() string {
	switch that {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return ""
	}
}

func (that Side) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first":
		*that = First
	case "second":
		*that = Second
	case "":
		*that = NoSide
	default:
		return fmt.Errorf("unknown side %q", text)
	}

	return nil
}

// State is the lifecycle state of a game.
type State uint8

const (
	Ongoing State = iota
	Won
	Drawn
	Aborted
)

func (that State) String() string {
	switch that {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (that State) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *State) UnmarshalText(text []byte) error {
	for _, state := range []State{Ongoing, Won, Drawn, Aborted} {
		if state.String() == string(text) {
			*that = state
			return nil
		}
	}

	return fmt.Errorf("unknown game state %q", text)
}

type Status struct {
	State  State  `json:"state"`
	Winner Side   `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Occupancy is the content of one cell. Side is NoSide for an empty cell.
type Occupancy struct {
	Side        Side
	Highlighted bool
}

func (that Occupancy) IsEmpty() bool {
	return that.Side == NoSide
}

// Game is the board, the two move ledgers and the status of one session.
//
// Exactly one cell is highlighted as the most recent move while the game is
// ongoing; a win replaces it with the whole winning line.
type Game struct {
	grid    Grid
	board   []Occupancy
	ledgers [2]Ledger
	status  Status
	winLine []int
}

func NewGame() *Game {
	return NewGameOnGrid(DefaultGrid)
}

func NewGameOnGrid(grid Grid) *Game {
	return &Game{
		grid:  grid,
		board: make([]Occupancy, grid.Cells()),
	}
}

func (that *Game) Grid() Grid {
	return that.grid
}

func (that *Game) Status() Status {
	return that.status
}

// Turn returns the side to move: the first player iff both sides made the same number of moves.
func (that *Game) Turn() Side {
	if that.ledgers[0].Len() == that.ledgers[1].Len() {
		return First
	}

	return Second
}

func (that *Game) Cell(cell int) Occupancy {
	return that.board[cell]
}

// Board returns a copy of every cell's occupancy.
func (that *Game) Board() []Occupancy {
	out := make([]Occupancy, len(that.board))
	copy(out, that.board)

	return out
}

func (that *Game) Moves(side Side) []int {
	return that.ledger(side).Cells()
}

func (that *Game) LastMove(side Side) (int, bool) {
	return that.ledger(side).Last()
}

func (that *Game) MoveCount() int {
	return that.ledgers[0].Len() + that.ledgers[1].Len()
}

func (that *Game) WinningLine() []int {
	if that.winLine == nil {
		return nil
	}

	out := make([]int, len(that.winLine))
	copy(out, that.winLine)

	return out
}

// Highlighted returns the highlighted cells in index order.
func (that *Game) Highlighted() []int {
	var out []int
	for cell, occupancy := range that.board {
		if occupancy.Highlighted {
			out = append(out, cell)
		}
	}

	return out
}

// ApplyMove places side's mark on cell. On failure the game is left untouched.
func (that *Game) ApplyMove(side Side, cell int) error {
	if err := that.validateMove(side, cell); err != nil {
		return err
	}

	if prev, ok := that.ledger(side.Opponent()).Last(); ok {
		that.board[prev].Highlighted = false
	}

	that.board[cell] = Occupancy{Side: side, Highlighted: true}
	that.ledger(side).Record(cell)

	if line := that.grid.WinningLine(NewCellSet(that.ledger(side).cells...), cell); line != nil {
		that.status = Status{State: Won, Winner: side}
		that.winLine = line

		for _, c := range line {
			that.board[c].Highlighted = true
		}

		return nil
	}

	if that.MoveCount() == that.grid.Cells() {
		that.status = Status{State: Drawn}
	}

	return nil
}

// Undo retracts the last move of both sides. It is only allowed on the first
// player's turn, so the exchange being undone ends with the second player's move.
func (that *Game) Undo() error {
	switch that.status.State {
	case Aborted:
		return apperror.ErrSessionAborted
	case Drawn:
		return fmt.Errorf("%w: game ended in a draw", apperror.ErrNothingToUndo)
	case Ongoing, Won:
	}

	if that.Turn() != First {
		return fmt.Errorf("%w: undo is only allowed on the first player's turn", apperror.ErrNothingToUndo)
	}

	first, second := that.ledger(First), that.ledger(Second)
	if first.Len() == 0 || second.Len() == 0 {
		return apperror.ErrNothingToUndo
	}

	if that.status.State == Won {
		for _, c := range that.winLine {
			that.board[c].Highlighted = false
		}
		that.winLine = nil
	}

	secondCell, _ := second.Retract()
	firstCell, _ := first.Retract()
	that.board[secondCell] = Occupancy{}
	that.board[firstCell] = Occupancy{}

	if prev, ok := second.Last(); ok {
		that.board[prev].Highlighted = true
	}

	that.status = Status{State: Ongoing}

	return nil
}

// Abort ends an ongoing game because the opponent went away. It reports
// whether the status changed; finished games keep their result.
func (that *Game) Abort(reason string) bool {
	if that.status.State != Ongoing {
		return false
	}

	that.status = Status{State: Aborted, Reason: reason}

	return true
}

func (that *Game) Clone() *Game {
	clone := &Game{
		grid:    that.grid,
		board:   that.Board(),
		status:  that.status,
		winLine: that.WinningLine(),
	}

	for i := range that.ledgers {
		clone.ledgers[i].cells = that.ledgers[i].Cells()
	}

	return clone
}

func (that *Game) validateMove(side Side, cell int) error {
	if that.status.State == Aborted {
		return apperror.ErrSessionAborted
	}

	if !that.grid.Contains(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.status.State != Ongoing {
		return apperror.ErrGameFinished
	}

	if side != that.Turn() {
		return apperror.ErrNotYourTurn
	}

	if !that.board[cell].IsEmpty() {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Game) ledger(side Side) *Ledger {
	if side == Second {
		return &that.ledgers[1]
	}

	return &that.ledgers[0]
}
