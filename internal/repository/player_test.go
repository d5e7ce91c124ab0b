package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestPlayerRepository(t *testing.T) {
	ctx, st := suite.New(t)

	players := NewPlayerRepository(st.Storage, testTTL)

	t.Run("Seated player round trip", func(t *testing.T) {
		// Given: a player seated as second in a room
		seated := &entity.Player{ID: "p1", Side: gomoku.Second, GameID: "g1"}

		// When: the player is stored and read back
		require.NoError(t, players.CreateOrUpdate(ctx, seated))
		stored, err := players.GetByID(ctx, "p1")

		// Then: side and room are kept and the key expires
		require.NoError(t, err)
		assert.Equal(t, seated, stored)

		ttl, err := st.Storage.TTL(ctx, playerKey("p1")).Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})

	t.Run("Leaving a room clears the side", func(t *testing.T) {
		require.NoError(t, players.CreateOrUpdate(ctx, &entity.Player{ID: "p2", Side: gomoku.First, GameID: "g2"}))
		require.NoError(t, players.CreateOrUpdate(ctx, &entity.Player{ID: "p2"}))

		stored, err := players.GetByID(ctx, "p2")

		require.NoError(t, err)
		assert.Equal(t, gomoku.NoSide, stored.Side)
		assert.Empty(t, stored.GameID)
	})

	t.Run("Unknown player", func(t *testing.T) {
		stored, err := players.GetByID(ctx, "nobody")

		require.ErrorIs(t, err, ErrPlayerNotFound)
		assert.Nil(t, stored)
	})
}
