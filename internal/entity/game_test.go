package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// When: checking if the game is finished
		isFinished := game.IsFinished()

		// Then: it should return true
		assert.True(t, isFinished)
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.True(t, game.IsOngoing())
		assert.False(t, game.IsWaiting())
	})

	t.Run("New game is waiting", func(t *testing.T) {
		game := NewGame("g1", PrivateType)

		assert.True(t, game.IsWaiting())
		assert.False(t, game.IsPublic())
		assert.False(t, game.IsWithBot())
	})
}

func TestGame_Players(t *testing.T) {
	// Given: a room with two players
	alice := &Player{ID: "alice", Side: gomoku.First}
	bot := NewBotPlayer("g1", gomoku.Second)
	game := &Game{ID: "g1", Players: []*Player{alice, bot}}

	// Then: players are found by id and the opponent is the other one
	assert.True(t, game.IsFull())
	assert.Equal(t, alice, game.Player("alice"))
	assert.Equal(t, bot, game.Opponent("alice"))
	assert.True(t, game.Opponent("alice").IsBot())
	assert.Nil(t, game.Player("carol"))
}

func TestGame_GetRandomSides(t *testing.T) {
	game := &Game{}

	for i := 0; i < 20; i++ {
		a, b := game.GetRandomSides()
		assert.Equal(t, a.Opponent(), b)
		assert.NotEqual(t, gomoku.NoSide, a)
	}
}

func TestGame_Record(t *testing.T) {
	t.Run("Won game finishes the room", func(t *testing.T) {
		// Given: an ongoing room
		game := &Game{ID: "g1", Status: StatusOngoing}
		snapshot := gomoku.Snapshot{First: []int{0, 1, 2, 3, 4}, Second: []int{25, 26, 27, 28}}

		// When: a won position is recorded
		game.Record(snapshot, gomoku.Status{State: gomoku.Won, Winner: gomoku.First})

		// Then: the room is finished and the board can be rebuilt
		assert.True(t, game.IsFinished())

		engine, err := game.Engine()
		require.NoError(t, err)
		assert.Equal(t, gomoku.Status{State: gomoku.Won, Winner: gomoku.First}, engine.Status())
		assert.Equal(t, []int{0, 1, 2, 3, 4}, engine.WinningLine())
	})

	t.Run("Undo out of a win reopens the room", func(t *testing.T) {
		game := &Game{ID: "g1", Status: StatusFinished}

		game.Record(gomoku.Snapshot{First: []int{0}, Second: []int{25}}, gomoku.Status{State: gomoku.Ongoing})

		assert.True(t, game.IsOngoing())
	})

	t.Run("Broken state cannot be replayed", func(t *testing.T) {
		game := &Game{ID: "g1", State: gomoku.Snapshot{First: []int{3}, Second: []int{3}}}

		_, err := game.Engine()

		assert.Error(t, err)
	})
}
