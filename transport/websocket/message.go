package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/session"
)

const (
	actionConnect = "connect"
	actionNew     = "game:new"
	actionJoin    = "game:join"
	actionTurn    = "game:turn"
	actionUndo    = "game:undo"
	actionLeave   = "game:leave"
	actionStep    = "game:step"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameView      `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	Steps  []session.Step `json:"steps,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// GameView is what a player sees of a room. Other players are never exposed.
type GameView struct {
	ID          string            `json:"id,omitempty"`
	Type        string            `json:"type,omitempty"`
	Status      string            `json:"status,omitempty"`
	Side        gomoku.Side       `json:"side,omitempty"`
	Turn        gomoku.Side       `json:"turn,omitempty"`
	State       *gomoku.Status    `json:"state,omitempty"`
	Cells       []gomoku.CellView `json:"cells,omitempty"`
	WinningLine []int             `json:"winning_line,omitempty"`
}

// newGameView projects the room and, once it started, its board. The room
// status follows the board so a won game reads as finished right away.
func newGameView(game *entity.Game, side gomoku.Side, engine *gomoku.Game) *GameView {
	view := &GameView{
		ID:     game.ID,
		Type:   game.Type,
		Status: game.Status,
		Side:   side,
	}

	if engine == nil {
		return view
	}

	status := engine.Status()
	view.State = &status
	view.Status = entity.StatusOngoing

	if status.State != gomoku.Ongoing {
		view.Status = entity.StatusFinished
	}

	view.Cells = gomoku.Project(engine)
	view.WinningLine = engine.WinningLine()

	if status.State == gomoku.Ongoing {
		view.Turn = engine.Turn()
	}

	return view
}
