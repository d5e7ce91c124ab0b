package oracle

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

// Oracle picks the opponent's next cell given the move history.
type Oracle interface {
	NextMove(ctx context.Context, req Request) (int, error)
}

// Request is sent once per opponent turn. PlayerCells belong to the side the
// oracle plays for, OpponentCells to the local player.
type Request struct {
	PlayerCells   []int `json:"player_cells"`
	OpponentCells []int `json:"opponent_cells"`
	LastStep      *int  `json:"last_step,omitempty"`
}

type Response struct {
	Status   string `json:"status,omitempty"`
	NextStep *int   `json:"next_step"`
}

// NewRequest builds the request for side, the side the oracle is about to play.
func NewRequest(game *gomoku.Game, side gomoku.Side) Request {
	req := Request{
		PlayerCells:   game.Moves(side),
		OpponentCells: game.Moves(side.Opponent()),
	}

	if last, ok := game.LastMove(side.Opponent()); ok {
		req.LastStep = &last
	}

	return req
}

// Validate rejects an answer naming a cell outside the grid or already taken.
// An occupied cell is also reported as an illegal move.
func Validate(game *gomoku.Game, cell int) error {
	if !game.Grid().Contains(cell) {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrOracleContractViolation, gomoku.ErrInvalidCell, cell)
	}

	if !game.Cell(cell).IsEmpty() {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrOracleContractViolation, apperror.ErrCellOccupied, cell)
	}

	return nil
}
