package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/oracle"
)

// Local is the local-oracle mode session: it owns the game and asks the
// oracle for every opponent move.
type Local struct {
	logger *slog.Logger
	oracle oracle.Oracle

	mu      sync.Mutex
	game    *gomoku.Game
	side    gomoku.Side
	pending bool
}

func NewLocal(logger *slog.Logger, moves oracle.Oracle, side gomoku.Side) *Local {
	return &Local{
		logger: logger,
		oracle: moves,
		game:   gomoku.NewGame(),
		side:   side,
	}
}

// RestoreLocal continues a stored game.
func RestoreLocal(logger *slog.Logger, moves oracle.Oracle, side gomoku.Side, snapshot gomoku.Snapshot) (*Local, error) {
	game, err := gomoku.Replay(gomoku.DefaultGrid, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game: %w", err)
	}

	return &Local{logger: logger, oracle: moves, game: game, side: side}, nil
}

func (that *Local) Side() gomoku.Side {
	return that.side
}

func (that *Local) Game() *gomoku.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}

func (that *Local) Snapshot() gomoku.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot()
}

// Start lets the oracle move when it is its turn: at the beginning of a game
// where the local player is second, or after a failed oracle call.
func (that *Local) Start(ctx context.Context) ([]Step, error) {
	that.mu.Lock()
	if that.pending || that.game.Status().State != gomoku.Ongoing || that.game.Turn() == that.side {
		that.mu.Unlock()
		return nil, nil
	}
	that.mu.Unlock()

	step, err := that.opponentMove(ctx)
	if err != nil {
		return nil, err
	}

	return []Step{step}, nil
}

// Play applies the local move and, if the game goes on, the oracle's answer.
func (that *Local) Play(ctx context.Context, cell int) ([]Step, error) {
	log := that.logger.With("method", "Play")

	that.mu.Lock()
	if that.pending {
		that.mu.Unlock()
		return []Step{rejectedStep(that.game, that.side, cell)}, apperror.ErrNotYourTurn
	}

	if err := that.game.ApplyMove(that.side, cell); err != nil {
		step := rejectedStep(that.game, that.side, cell)
		that.mu.Unlock()

		log.Info("move rejected", "cell", cell, "error", err)

		return []Step{step}, err
	}

	steps := []Step{moveStep(that.game, that.side, that.side, cell)}
	finished := that.game.Status().State != gomoku.Ongoing
	that.mu.Unlock()

	if finished {
		return steps, nil
	}

	step, err := that.opponentMove(ctx)
	if err != nil {
		return steps, err
	}

	return append(steps, step), nil
}

func (that *Local) Undo() ([]Step, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending {
		return nil, fmt.Errorf("%w: waiting for the opponent", apperror.ErrNothingToUndo)
	}

	return undo(that.game, that.side)
}

// opponentMove makes the single oracle call for the current opponent turn.
// The lock is released while the call is outstanding; pending keeps local
// moves and undo out until it returns.
func (that *Local) opponentMove(ctx context.Context) (Step, error) {
	log := that.logger.With("method", "opponentMove")

	that.mu.Lock()
	opponent := that.side.Opponent()
	req := oracle.NewRequest(that.game, opponent)
	that.pending = true
	that.mu.Unlock()

	cell, err := that.oracle.NextMove(ctx, req)

	that.mu.Lock()
	defer that.mu.Unlock()
	that.pending = false

	if err != nil {
		log.Error("oracle call failed", "error", err)
		return Step{}, fmt.Errorf("failed to get opponent move: %w", err)
	}

	if err = oracle.Validate(that.game, cell); err != nil {
		log.Error("oracle answer rejected", "cell", cell, "error", err)
		return Step{}, err
	}

	if err = that.game.ApplyMove(opponent, cell); err != nil {
		return Step{}, fmt.Errorf("failed to apply opponent move: %w", err)
	}

	return moveStep(that.game, that.side, opponent, cell), nil
}
