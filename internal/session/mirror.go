package session

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

const reasonOpponentLeft = "opponent left"

// Mirror is the synchronized-mode view of a game for one side. Local moves
// are applied immediately and handed back as intents for the peer; peer
// events are applied one at a time in the order Handle is called.
type Mirror struct {
	mu   sync.Mutex
	game *gomoku.Game
	side gomoku.Side
}

func NewMirror(side gomoku.Side) *Mirror {
	return &Mirror{game: gomoku.NewGame(), side: side}
}

// RestoreMirror rebuilds a mirror from a stored snapshot, e.g. after a reconnect.
func RestoreMirror(snapshot gomoku.Snapshot, side gomoku.Side) (*Mirror, error) {
	game, err := gomoku.Replay(gomoku.DefaultGrid, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game: %w", err)
	}

	return &Mirror{game: game, side: side}, nil
}

func (that *Mirror) Side() gomoku.Side {
	return that.side
}

// Game returns a copy of the mirrored game.
func (that *Mirror) Game() *gomoku.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}

func (that *Mirror) Snapshot() gomoku.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot()
}

// Move applies the local side's move. A rejected move still yields a step
// with Valid unset so the caller can report it.
func (that *Mirror) Move(cell int) (Intent, Step, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.game.ApplyMove(that.side, cell); err != nil {
		return Intent{}, rejectedStep(that.game, that.side, cell), err
	}

	return Intent{Cell: cell}, moveStep(that.game, that.side, that.side, cell), nil
}

func (that *Mirror) RequestUndo() (Intent, []Step, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	steps, err := undo(that.game, that.side)
	if err != nil {
		return Intent{}, nil, err
	}

	return Intent{Undo: true}, steps, nil
}

// Handle applies one event received from the peer and returns the steps the
// local player should see.
func (that *Mirror) Handle(step Step) ([]Step, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch {
	case step.OpponentLeft:
		that.game.Abort(reasonOpponentLeft)
		return []Step{{Opponent: true, OpponentLeft: true, Status: that.game.Status(), Valid: true}}, nil
	case step.Undo:
		return undo(that.game, that.side)
	case !step.Valid:
		return nil, nil
	}

	opponent := that.side.Opponent()

	next, err := gomoku.Transition(that.game, gomoku.MoveEvent(opponent, step.Cell))
	if err != nil {
		return nil, fmt.Errorf("failed to apply opponent move: %w", err)
	}

	that.game = next

	return []Step{moveStep(that.game, that.side, opponent, step.Cell)}, nil
}

// Leave aborts the game locally. It reports whether the game was still ongoing.
func (that *Mirror) Leave() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Abort(reasonOpponentLeft)
}
