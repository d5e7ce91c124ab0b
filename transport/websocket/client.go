package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/session"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/relay"
)

const writeTimeout = 10 * time.Second

// seat is the connection's place in a started game.
type seat struct {
	game       *entity.Game
	opponentID string
	mirror     *session.Mirror
	local      *session.Local
}

func (that *seat) side() gomoku.Side {
	if that.local != nil {
		return that.local.Side()
	}

	return that.mirror.Side()
}

func (that *seat) engine() *gomoku.Game {
	if that.local != nil {
		return that.local.Game()
	}

	return that.mirror.Game()
}

func (that *seat) view() *GameView {
	return newGameView(that.game, that.side(), that.engine())
}

type client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu        sync.Mutex
	playerID  string
	seat      *seat
	sub       *relay.Subscription
	moveTimer *time.Timer
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (that *client) send(ctx context.Context, action string, payload Payload) error {
	data, err := marshalPayload(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = wsjson.Write(ctx, that.conn, Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) player() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerID
}

func (that *client) currentSeat() *seat {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.seat
}

func (that *client) setSeat(s *seat) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seat = s
}

// takeSeat clears the seat and returns what it held.
func (that *client) takeSeat() *seat {
	that.mu.Lock()
	defer that.mu.Unlock()

	s := that.seat
	that.seat = nil
	that.stopMoveTimerLocked()

	return s
}

// armMoveTimer calls onTimeout unless the opponent moves within d.
func (that *client) armMoveTimer(d time.Duration, onTimeout func()) {
	if d <= 0 {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopMoveTimerLocked()
	that.moveTimer = time.AfterFunc(d, onTimeout)
}

func (that *client) stopMoveTimer() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopMoveTimerLocked()
}

func (that *client) stopMoveTimerLocked() {
	if that.moveTimer != nil {
		that.moveTimer.Stop()
		that.moveTimer = nil
	}
}
