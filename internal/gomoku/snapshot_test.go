package gomoku

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay(t *testing.T) {
	t.Run("Replay reproduces a won game", func(t *testing.T) {
		// Given: a game the first player has won
		game := NewGame()
		playMoves(t, game, 0, 25, 1, 26, 2, 27, 3, 28, 4)

		// When: it is stored as JSON and replayed
		raw, err := json.Marshal(game.Snapshot())
		require.NoError(t, err)

		var snapshot Snapshot
		require.NoError(t, json.Unmarshal(raw, &snapshot))

		replayed, err := Replay(DefaultGrid, snapshot)
		require.NoError(t, err)

		// Then: the replayed game is identical
		requireSameState(t, game, replayed)
	})

	t.Run("Replay keeps the abort marker", func(t *testing.T) {
		game := NewGame()
		playMoves(t, game, 0, 1, 2)
		game.Abort("opponent left")

		replayed, err := Replay(DefaultGrid, game.Snapshot())
		require.NoError(t, err)

		requireSameState(t, game, replayed)
	})

	t.Run("Unbalanced ledgers are rejected", func(t *testing.T) {
		_, err := Replay(DefaultGrid, Snapshot{First: []int{1}, Second: []int{2, 3}})

		assert.Error(t, err)
	})

	t.Run("Overlapping ledgers are rejected", func(t *testing.T) {
		_, err := Replay(DefaultGrid, Snapshot{First: []int{1, 5}, Second: []int{1}})

		assert.Error(t, err)
	})
}
