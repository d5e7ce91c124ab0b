package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/session"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/relay"
)

const reasonLeft = "player left"

var errNotConnected = errors.New("player is not connected")

func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(ctx, c, msg.Action, "malformed payload")
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	if current := c.player(); current != "" && current != playerID {
		that.sendError(ctx, c, msg.Action, "already connected as another player")
		return nil
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		that.sendError(ctx, c, msg.Action, "failed to create a new player")
		return nil
	}

	log = log.With("playerID", player.ID)

	if err = that.bind(ctx, c, player.ID); err != nil {
		that.sendError(ctx, c, msg.Action, "failed to connect player")
		return err
	}

	payloadResp := Payload{Player: player}

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
	switch {
	case errors.Is(err, apperror.ErrNoActiveGame):
	case err != nil:
		log.Error("failed to get game", "gameID", player.GameID, "error", err)
		that.sendError(ctx, c, msg.Action, "failed to get the game")
		return nil
	default:
		s, err := that.seatFor(game, player.ID)
		if err != nil {
			log.Error("failed to restore game", "gameID", game.ID, "error", err)
			that.sendError(ctx, c, msg.Action, "failed to restore the game")
			return nil
		}

		c.setSeat(s)
		payloadResp.Game = viewOf(game, s)
	}

	log.Info("successfully connected player")

	return c.send(ctx, msg.Action, payloadResp)
}

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, playerID, ok := that.requirePlayer(ctx, c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil {
		that.sendError(ctx, c, msg.Action, "game is required")
		return nil
	}

	log = log.With("playerID", playerID)

	game, err := that.gameUseCase.GetOrCreateGame(ctx, playerID, payloadReq.Game.Type)
	if err != nil {
		log.Error("failed to create or get game", "error", err)
		that.sendError(ctx, c, msg.Action, fmt.Sprintf("failed to create a new game: %v", err))
		return nil
	}

	log = log.With("gameID", game.ID)

	s, err := that.seatFor(game, playerID)
	if err != nil {
		log.Error("failed to seat player", "error", err)
		that.sendError(ctx, c, msg.Action, "failed to start the game")
		return nil
	}

	c.setSeat(s)

	payloadResp := Payload{Player: game.Player(playerID)}

	if s != nil && s.local != nil {
		steps, err := s.local.Start(ctx)
		if err != nil {
			log.Error("failed to get opening move", "error", err)
			payloadResp.Error = err.Error()
		}

		if len(steps) > 0 {
			that.saveState(ctx, s)
		}

		payloadResp.Steps = steps
	}

	if s != nil && s.mirror != nil {
		that.publish(ctx, s.opponentID, relay.Event{Kind: relay.KindJoined, GameID: game.ID})
	}

	payloadResp.Game = viewOf(game, s)

	log.Info("player is in game", "status", game.Status)

	return c.send(ctx, msg.Action, payloadResp)
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, playerID, ok := that.requirePlayer(ctx, c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		that.sendError(ctx, c, msg.Action, "game id is required")
		return nil
	}

	log = log.With("playerID", playerID, "gameID", payloadReq.Game.ID)

	game, err := that.gameUseCase.JoinGameByID(ctx, payloadReq.Game.ID, playerID)
	if err != nil {
		log.Info("failed to join game", "error", err)
		that.sendError(ctx, c, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
		return nil
	}

	s, err := that.seatFor(game, playerID)
	if err != nil {
		log.Error("failed to seat player", "error", err)
		that.sendError(ctx, c, msg.Action, "failed to start the game")
		return nil
	}

	c.setSeat(s)

	if s != nil && s.opponentID != "" {
		that.publish(ctx, s.opponentID, relay.Event{Kind: relay.KindJoined, GameID: game.ID})
	}

	log.Info("player joined game")

	return c.send(ctx, msg.Action, Payload{Player: game.Player(playerID), Game: viewOf(game, s)})
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, playerID, ok := that.requirePlayer(ctx, c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Cell == nil {
		that.sendError(ctx, c, msg.Action, "cell is required")
		return nil
	}

	s := c.currentSeat()
	if s == nil {
		that.sendError(ctx, c, msg.Action, apperror.ErrNoActiveGame.Error())
		return nil
	}

	log = log.With("playerID", playerID, "gameID", s.game.ID)
	cell := *payloadReq.Cell

	if s.local != nil {
		steps, err := s.local.Play(ctx, cell)

		payloadResp := Payload{Steps: steps}
		if err != nil {
			log.Info("turn rejected", "cell", cell, "error", err)
			payloadResp.Error = err.Error()
		}

		if len(steps) > 0 && steps[0].Valid {
			that.saveState(ctx, s)
		}

		payloadResp.Game = s.view()

		return c.send(ctx, msg.Action, payloadResp)
	}

	_, step, err := s.mirror.Move(cell)
	if err != nil {
		log.Info("turn rejected", "cell", cell, "error", err)
		return c.send(ctx, msg.Action, Payload{Game: s.view(), Steps: []session.Step{step}, Error: err.Error()})
	}

	that.saveState(ctx, s)

	relayed := step.Relayed()
	that.publish(ctx, s.opponentID, relay.Event{Kind: relay.KindStep, GameID: s.game.ID, Step: &relayed})

	if step.Status.State == gomoku.Ongoing {
		c.armMoveTimer(that.moveTimeout, func() {
			that.handleMoveTimeout(context.WithoutCancel(ctx), c, s)
		})
	}

	log.Info("player made a turn", "cell", cell)

	return c.send(ctx, msg.Action, Payload{Game: s.view(), Steps: []session.Step{step}})
}

func (that *Server) handleGameUndo(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameUndo")

	playerID := c.player()
	if playerID == "" {
		that.sendError(ctx, c, msg.Action, errNotConnected.Error())
		return nil
	}

	s := c.currentSeat()
	if s == nil {
		that.sendError(ctx, c, msg.Action, apperror.ErrNoActiveGame.Error())
		return nil
	}

	log = log.With("playerID", playerID, "gameID", s.game.ID)

	var (
		steps []session.Step
		err   error
	)

	if s.local != nil {
		steps, err = s.local.Undo()
	} else {
		_, steps, err = s.mirror.RequestUndo()
	}

	if err != nil {
		log.Info("undo rejected", "error", err)
		return c.send(ctx, msg.Action, Payload{Game: s.view(), Error: err.Error()})
	}

	that.saveState(ctx, s)

	if s.mirror != nil {
		c.stopMoveTimer()
		that.publish(ctx, s.opponentID, relay.Event{
			Kind:   relay.KindStep,
			GameID: s.game.ID,
			Step:   &session.Step{Opponent: true, Undo: true, Valid: true},
		})
	}

	log.Info("moves undone")

	return c.send(ctx, msg.Action, Payload{Game: s.view(), Steps: steps})
}

func (that *Server) handleGameLeave(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave")

	playerID := c.player()
	if playerID == "" {
		that.sendError(ctx, c, msg.Action, errNotConnected.Error())
		return nil
	}

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		log.Info("no game to leave", "playerID", playerID, "error", err)
		c.takeSeat()
		that.sendError(ctx, c, msg.Action, "game doesn't exist")
		return nil
	}

	that.leave(ctx, c, playerID)

	var side gomoku.Side
	if me := game.Player(playerID); me != nil {
		side = me.Side
	}

	// the final board, shown as aborted unless it was already decided
	engine, err := game.Engine()
	if err != nil || game.IsWaiting() {
		engine = nil
	} else {
		engine.Abort(reasonLeft)
	}

	view := newGameView(game, side, engine)
	view.Status = entity.StatusFinished

	log.Info("player left", "playerID", playerID, "gameID", game.ID)

	return c.send(ctx, msg.Action, Payload{Game: view})
}

// handleRelayEvent runs on the subscription goroutine for events sent by the opponent.
func (that *Server) handleRelayEvent(ctx context.Context, c *client, event relay.Event) {
	log := that.logger.With("method", "handleRelayEvent", "kind", event.Kind, "gameID", event.GameID)

	playerID := c.player()

	switch event.Kind {
	case relay.KindJoined:
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, playerID)
		if err != nil {
			log.Error("failed to get joined game", "error", err)
			return
		}

		s, err := that.seatFor(game, playerID)
		if err != nil {
			log.Error("failed to seat player", "error", err)
			return
		}

		c.setSeat(s)

		if err = c.send(ctx, actionJoin, Payload{Player: game.Player(playerID), Game: viewOf(game, s)}); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	case relay.KindStep:
		s := c.currentSeat()
		if s == nil || s.mirror == nil || event.Step == nil {
			log.Info("step for no active game")
			return
		}

		c.stopMoveTimer()

		steps, err := s.mirror.Handle(*event.Step)
		if err != nil {
			log.Error("failed to apply opponent step", "error", err)
			that.sendError(ctx, c, actionStep, err.Error())
			return
		}

		if event.Step.OpponentLeft {
			c.takeSeat()
		}

		if len(steps) == 0 {
			return
		}

		if err = c.send(ctx, actionStep, Payload{Game: s.view(), Steps: steps}); err != nil {
			log.Error("failed to send step", "error", err)
		}
	default:
		log.Info("unknown relay event")
	}
}

// handleMoveTimeout treats an opponent who did not move in time as gone.
func (that *Server) handleMoveTimeout(ctx context.Context, c *client, s *seat) {
	log := that.logger.With("method", "handleMoveTimeout")

	if c.currentSeat() != s {
		return
	}

	steps, err := s.mirror.Handle(session.Step{Opponent: true, OpponentLeft: true})
	if err != nil {
		log.Error("failed to abort game", "error", err)
		return
	}

	that.leave(ctx, c, c.player())

	log.Info("opponent did not move in time", "gameID", s.game.ID)

	if err = c.send(ctx, actionStep, Payload{Game: s.view(), Steps: steps}); err != nil {
		log.Error("failed to send step", "error", err)
	}
}

func (that *Server) handleDisconnect(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleDisconnect")

	c.mu.Lock()
	playerID, sub := c.playerID, c.sub
	c.sub = nil
	c.mu.Unlock()

	if playerID == "" {
		return
	}

	if sub != nil {
		if err := sub.Close(); err != nil {
			log.Info("failed to close subscription", "error", err)
		}
	}

	if !that.unregister(playerID, c) {
		log.Info("connection replaced", "playerID", playerID)
		return
	}

	that.leave(ctx, c, playerID)

	log.Info("player disconnected", "playerID", playerID)
}

// leave ends the player's room and tells a human opponent.
func (that *Server) leave(ctx context.Context, c *client, playerID string) {
	log := that.logger.With("method", "leave", "playerID", playerID)

	s := c.takeSeat()
	if s != nil && s.mirror != nil {
		s.mirror.Leave()
	}

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, playerID)
	switch {
	case errors.Is(err, apperror.ErrNoActiveGame):
	case err != nil:
		log.Error("failed to get game", "error", err)
	default:
		if err = that.gameUseCase.EndGame(ctx, game); err != nil {
			log.Error("failed to end game", "gameID", game.ID, "error", err)
		}

		if opponent := game.Opponent(playerID); opponent != nil && !opponent.IsBot() {
			that.publish(ctx, opponent.ID, relay.Event{
				Kind:   relay.KindStep,
				GameID: game.ID,
				Step:   &session.Step{Opponent: true, OpponentLeft: true},
			})
		}
	}
}

// bind ties the connection to a player and starts receiving the player's relay events.
func (that *Server) bind(ctx context.Context, c *client, playerID string) error {
	c.mu.Lock()
	bound := c.playerID == playerID && c.sub != nil
	c.mu.Unlock()

	if bound {
		return nil
	}

	sub, err := that.relay.Subscribe(ctx, playerID, func(event relay.Event) {
		that.handleRelayEvent(ctx, c, event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe player %s: %w", playerID, err)
	}

	c.mu.Lock()
	c.playerID = playerID
	c.sub = sub
	c.mu.Unlock()

	that.register(playerID, c)

	return nil
}

// seatFor builds the engine session for a started game, nil while it waits for a second player.
func (that *Server) seatFor(game *entity.Game, playerID string) (*seat, error) {
	me := game.Player(playerID)
	if me == nil {
		return nil, fmt.Errorf("%w: %s in game %s", apperror.ErrPlayerNotFound, playerID, game.ID)
	}

	if game.IsWaiting() {
		return nil, nil
	}

	s := &seat{game: game}

	if game.IsWithBot() {
		local, err := session.RestoreLocal(that.logger, that.oracle, me.Side, game.State)
		if err != nil {
			return nil, fmt.Errorf("failed to restore game: %w", err)
		}

		s.local = local

		return s, nil
	}

	mirror, err := session.RestoreMirror(game.State, me.Side)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	s.mirror = mirror

	if opponent := game.Opponent(playerID); opponent != nil {
		s.opponentID = opponent.ID
	}

	return s, nil
}

func (that *Server) saveState(ctx context.Context, s *seat) {
	engine := s.engine()

	if _, err := that.gameUseCase.SaveState(ctx, s.game.ID, engine.Snapshot(), engine.Status()); err != nil {
		that.logger.Error("failed to save game state", "gameID", s.game.ID, "error", err)
	}
}

func (that *Server) publish(ctx context.Context, playerID string, event relay.Event) {
	if playerID == "" {
		return
	}

	if err := that.relay.Publish(ctx, playerID, event); err != nil {
		that.logger.Error("failed to publish event", "playerID", playerID, "error", err)
	}
}

func (that *Server) requirePlayer(ctx context.Context, c *client, msg *Message) (Payload, string, bool) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(ctx, c, msg.Action, "malformed payload")
		return Payload{}, "", false
	}

	playerID := c.player()
	if playerID == "" {
		that.sendError(ctx, c, msg.Action, errNotConnected.Error())
		return Payload{}, "", false
	}

	return payloadReq, playerID, true
}

func viewOf(game *entity.Game, s *seat) *GameView {
	if s == nil {
		return newGameView(game, gomoku.NoSide, nil)
	}

	return s.view()
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return Payload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
