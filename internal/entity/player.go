package entity

import "github.com/rocketscienceinc/gomoku-backend/internal/gomoku"

const BotID = "bot"

type Player struct {
	ID     string      `json:"id"`
	Side   gomoku.Side `json:"side,omitempty"`
	GameID string      `json:"game_id,omitempty"`
}

func NewBotPlayer(gameID string, side gomoku.Side) *Player {
	return &Player{ID: BotID, Side: side, GameID: gameID}
}

func (that *Player) IsBot() bool {
	return that.ID == BotID
}
