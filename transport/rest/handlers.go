package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/oracle"
)

const statusPlaying = "playing"

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	HealthHandler(w http.ResponseWriter, r *http.Request)
	NextMoveHandler(w http.ResponseWriter, r *http.Request)
}

type healthChecker interface {
	Healthy(ctx context.Context) error
}

type handlers struct {
	logger *slog.Logger
	oracle oracle.Oracle
	health healthChecker
}

func NewHandlers(logger *slog.Logger, moves oracle.Oracle, health healthChecker) Handlers {
	return &handlers{
		logger: logger,
		oracle: moves,
		health: health,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := that.health.Healthy(r.Context()); err != nil {
		that.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"healthy": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"healthy": true})
}

// NextMoveHandler answers for the side whose cells are player_cells. The
// position must be one that is still being played with that side to move.
func (that *handlers) NextMoveHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "NextMoveHandler")

	var req oracle.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, oracle.Response{Status: "malformed request"})
		return
	}

	game, err := replayRequest(req)
	if err != nil {
		log.Info("position is not playable", "error", err)
		writeJSON(w, http.StatusBadRequest, oracle.Response{Status: err.Error()})
		return
	}

	if game.Status().State != gomoku.Ongoing {
		writeJSON(w, http.StatusBadRequest, oracle.Response{Status: game.Status().State.String()})
		return
	}

	cell, err := that.oracle.NextMove(r.Context(), req)
	if err != nil {
		log.Error("failed to choose a move", "error", err)
		writeJSON(w, http.StatusInternalServerError, oracle.Response{Status: "no move"})
		return
	}

	if err = oracle.Validate(game, cell); err != nil {
		log.Error("oracle chose an unplayable cell", "cell", cell, "error", err)
		writeJSON(w, http.StatusInternalServerError, oracle.Response{Status: "no move"})
		return
	}

	writeJSON(w, http.StatusOK, oracle.Response{Status: statusPlaying, NextStep: &cell})
}

// replayRequest rebuilds the position: the side with more cells opened the
// game, on a tie the side to move did.
func replayRequest(req oracle.Request) (*gomoku.Game, error) {
	snapshot := gomoku.Snapshot{First: req.PlayerCells, Second: req.OpponentCells}
	if len(req.OpponentCells) > len(req.PlayerCells) {
		snapshot = gomoku.Snapshot{First: req.OpponentCells, Second: req.PlayerCells}
	}

	return gomoku.Replay(gomoku.DefaultGrid, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
