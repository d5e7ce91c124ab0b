package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/oracle"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/relay"
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	SaveState(ctx context.Context, gameID string, snapshot gomoku.Snapshot, status gomoku.Status) (*entity.Game, error)
	EndGame(ctx context.Context, game *entity.Game) error
}

type eventRelay interface {
	Publish(ctx context.Context, playerID string, event relay.Event) error
	Subscribe(ctx context.Context, playerID string, handle func(relay.Event)) (*relay.Subscription, error)
}

type handler func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	relay       eventRelay
	oracle      oracle.Oracle
	moveTimeout time.Duration

	handlers map[string]handler

	connectionsMutex sync.RWMutex
	connections      map[string]*client
}

func New(logger *slog.Logger, gameUseCase gameUseCase, eventRelay eventRelay, moves oracle.Oracle, moveTimeout time.Duration) *Server {
	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,
		relay:       eventRelay,
		oracle:      moves,
		moveTimeout: moveTimeout,

		handlers:    make(map[string]handler),
		connections: make(map[string]*client),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNew] = server.handleNewGame
	server.handlers[actionJoin] = server.handleJoinGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionUndo] = server.handleGameUndo
	server.handlers[actionLeave] = server.handleGameLeave

	return server
}

func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", that.handleWebSocket)

	return router
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleWebSocket")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(conn)
	defer that.handleDisconnect(context.WithoutCancel(ctx), c)

	log.Info("WebSocket connection established")

	that.handleMessages(ctx, c)
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Info("client closed connection")
			} else {
				log.Error("error reading message", "error", err)
			}

			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(ctx, c, actionError, "malformed message")
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Info("unknown action", "action", message.Action)
			that.sendError(ctx, c, message.Action, "unknown action")
			continue
		}

		if err = handle(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// register makes c the player's connection. An older connection of the same
// player is closed without ending the game.
func (that *Server) register(playerID string, c *client) {
	that.connectionsMutex.Lock()
	old, ok := that.connections[playerID]
	that.connections[playerID] = c
	that.connectionsMutex.Unlock()

	if ok && old != c {
		go func() {
			_ = old.conn.Close(websocket.StatusPolicyViolation, "connected from another session")
		}()
	}
}

// unregister reports whether c was still the player's current connection.
func (that *Server) unregister(playerID string, c *client) bool {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if that.connections[playerID] != c {
		return false
	}

	delete(that.connections, playerID)

	return true
}

func (that *Server) sendError(ctx context.Context, c *client, action, errorMsg string) {
	if err := c.send(ctx, action, Payload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}

func marshalPayload(payload Payload) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return data, nil
}
