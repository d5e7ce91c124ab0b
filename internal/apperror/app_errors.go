package apperror

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the caller as a rejected operation.
var (
	ErrIllegalMove             = errors.New("illegal move")
	ErrNothingToUndo           = errors.New("nothing to undo")
	ErrSessionAborted          = errors.New("session aborted")
	ErrOracleContractViolation = errors.New("oracle contract violation")
)

var (
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrIllegalMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", ErrIllegalMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrIllegalMove)
)

var (
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNoActiveGame     = errors.New("no active game")
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGameAlreadyFull  = errors.New("game already has two players")
)
