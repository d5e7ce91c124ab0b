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

var ErrPlayerNotFound = apperror.ErrPlayerNotFound

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlayerRepository stores session identities; a player unseen for ttl is forgotten.
func NewPlayerRepository(client *redis.Client, ttl time.Duration) PlayerRepository {
	return &dbPlayer{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.client.Set(ctx, playerKey(player.ID), data, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set player %s: %w", player.ID, err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	data, err := that.client.Get(ctx, playerKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrPlayerNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	var player entity.Player
	if err = json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
	}

	return &player, nil
}

func playerKey(id string) string {
	return "player:" + id
}
