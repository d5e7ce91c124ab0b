package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var ErrUnknownGameType = errors.New("unknown game type")

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	SaveState(ctx context.Context, gameID string, snapshot gomoku.Snapshot, status gomoku.Status) (*entity.Game, error)
	EndGame(ctx context.Context, game *entity.Game) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	PushWaitingPublic(ctx context.Context, id string) error
	PopWaitingPublic(ctx context.Context) (string, error)
}

type gameUseCase struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
}

func NewGameUseCase(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo) GameUseCase {
	return &gameUseCase{
		logger:     logger,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		// the record expired, keep the id the client already has
		player = &entity.Player{ID: playerID}
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, err
		}

		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// GetOrCreateGame returns the player's current game or seats them in a new one.
// A public game joins the oldest waiting public room when there is one.
func (that *gameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		game, err := that.gameRepo.GetByID(ctx, player.GameID)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, apperror.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
	}

	switch gameType {
	case entity.WithBotType:
		return that.createBotGame(ctx, player)
	case entity.PrivateType:
		return that.createWaitingGame(ctx, player, entity.PrivateType)
	case entity.PublicType:
		game, err := that.joinWaitingPublicGame(ctx, player)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, apperror.ErrGameNotFound) {
			return nil, err
		}

		game, err = that.createWaitingGame(ctx, player, entity.PublicType)
		if err != nil {
			return nil, err
		}

		if err = that.gameRepo.PushWaitingPublic(ctx, game.ID); err != nil {
			return nil, fmt.Errorf("failed to queue public game: %w", err)
		}

		return game, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}
}

func (that *gameUseCase) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if err = that.seat(ctx, game, player); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		player.GameID = ""
		player.Side = gomoku.NoSide

		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, err
		}

		return nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// SaveState records the moves made so far and refreshes the room's expiry.
func (that *gameUseCase) SaveState(ctx context.Context, gameID string, snapshot gomoku.Snapshot, status gomoku.Status) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	game.Record(snapshot, status)

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// EndGame removes the room and frees its players.
func (that *gameUseCase) EndGame(ctx context.Context, game *entity.Game) error {
	log := that.logger.With("method", "EndGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	game.Status = entity.StatusFinished

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		player.GameID = ""
		player.Side = gomoku.NoSide

		if err := that.updatePlayer(ctx, player); err != nil {
			return err
		}
	}

	log.Info("game ended")

	return nil
}

func (that *gameUseCase) createBotGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), entity.WithBotType)

	playerSide, botSide := game.GetRandomSides()

	player.GameID = game.ID
	player.Side = playerSide

	game.Players = []*entity.Player{player, entity.NewBotPlayer(game.ID, botSide)}
	game.Status = entity.StatusOngoing

	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err := that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *gameUseCase) createWaitingGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), gameType)

	player.GameID = game.ID
	player.Side = gomoku.NoSide
	game.Players = []*entity.Player{player}

	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err := that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// joinWaitingPublicGame skips queued rooms that expired or were taken in the meantime.
func (that *gameUseCase) joinWaitingPublicGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	log := that.logger.With("method", "joinWaitingPublicGame", "playerID", player.ID)

	for {
		gameID, err := that.gameRepo.PopWaitingPublic(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to find public game: %w", err)
		}

		game, err := that.gameRepo.GetByID(ctx, gameID)
		if errors.Is(err, apperror.ErrGameNotFound) {
			log.Info("skipping expired public game", "gameID", gameID)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}

		if !game.IsWaiting() || game.IsFull() || game.Player(player.ID) != nil {
			continue
		}

		if err = that.seat(ctx, game, player); err != nil {
			return nil, err
		}

		return game, nil
	}
}

// seat adds the second player and starts the game with random sides.
func (that *gameUseCase) seat(ctx context.Context, game *entity.Game, player *entity.Player) error {
	if game.IsFull() {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyFull, game.ID)
	}

	if !game.IsWaiting() {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameFinished, game.ID)
	}

	hostSide, guestSide := game.GetRandomSides()

	player.GameID = game.ID
	player.Side = guestSide

	game.Players = append(game.Players, player)
	game.Status = entity.StatusOngoing

	for _, seated := range game.Players {
		if seated.ID != player.ID {
			seated.Side = hostSide
		}

		if err := that.updatePlayer(ctx, seated); err != nil {
			return err
		}
	}

	return that.updateGame(ctx, game)
}

func (that *gameUseCase) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: uuid.NewString(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (that *gameUseCase) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
