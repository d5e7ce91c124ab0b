package entity

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

const maxPlayers = 2

// Game is a room: who plays, in which mode, and the moves made so far.
type Game struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Type    string          `json:"type,omitempty"`
	Players []*Player       `json:"players,omitempty"`
	State   gomoku.Snapshot `json:"state"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsFull() bool {
	return len(that.Players) >= maxPlayers
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// GetRandomSides decides who opens the game.
func (that *Game) GetRandomSides() (gomoku.Side, gomoku.Side) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return gomoku.First, gomoku.Second
	}
	return gomoku.Second, gomoku.First
}

func (that *Game) Player(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// Opponent returns the other player of the room, nil while waiting.
func (that *Game) Opponent(id string) *Player {
	for _, player := range that.Players {
		if player.ID != id {
			return player
		}
	}

	return nil
}

// Engine rebuilds the board from the stored moves.
func (that *Game) Engine() (*gomoku.Game, error) {
	game, err := gomoku.Replay(gomoku.DefaultGrid, that.State)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game %s: %w", that.ID, err)
	}

	return game, nil
}

// Record stores the moves of an ongoing room. A room whose game is won,
// drawn or aborted is finished; undo out of a win makes it ongoing again.
func (that *Game) Record(snapshot gomoku.Snapshot, status gomoku.Status) {
	that.State = snapshot

	if status.State == gomoku.Ongoing {
		that.Status = StatusOngoing
		return
	}

	that.Status = StatusFinished
}
