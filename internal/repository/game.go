package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const waitingPublicKey = "games:public:waiting"

var ErrGameNotFound = apperror.ErrGameNotFound

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	PushWaitingPublic(ctx context.Context, id string) error
	PopWaitingPublic(ctx context.Context) (string, error)
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores rooms that expire ttl after their last update.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKey(game.ID), gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

// PushWaitingPublic queues a public room for the next player looking for an opponent.
func (that *dbGame) PushWaitingPublic(ctx context.Context, id string) error {
	if err := that.client.RPush(ctx, waitingPublicKey, id).Err(); err != nil {
		return fmt.Errorf("failed to queue public game: %w", err)
	}

	return nil
}

// PopWaitingPublic takes the oldest waiting public room, ErrGameNotFound if there is none.
func (that *dbGame) PopWaitingPublic(ctx context.Context) (string, error) {
	id, err := that.client.LPop(ctx, waitingPublicKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrGameNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to pop public game: %w", err)
	}

	return id, nil
}

func gameKey(id string) string {
	return "game:" + id
}
