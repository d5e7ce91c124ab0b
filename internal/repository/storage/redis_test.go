package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running Redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: storage is created for the suite's Redis
		storage, err := NewRedisStorage(ctx, st.Addr)

		// Then: it is healthy until closed
		require.NoError(t, err)
		assert.NoError(t, storage.Healthy(ctx))
		require.NoError(t, storage.Close())
		assert.Error(t, storage.Healthy(ctx))
	})

	t.Run("Fails on an unreachable address", func(t *testing.T) {
		ctx, _ := suite.New(t)

		_, err := NewRedisStorage(ctx, "127.0.0.1:1")

		assert.Error(t, err)
	})
}
