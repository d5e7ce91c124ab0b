package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// playMoves applies cells in turn order starting with whoever is to move.
func playMoves(t *testing.T, game *Game, cells ...int) {
	t.Helper()

	for i, cell := range cells {
		require.NoError(t, game.ApplyMove(game.Turn(), cell), "move %d (cell %d)", i, cell)
	}
}

func requireSameState(t *testing.T, expected, actual *Game) {
	t.Helper()

	require.Equal(t, expected.Board(), actual.Board())
	require.Equal(t, expected.Status(), actual.Status())
	require.Equal(t, expected.Moves(First), actual.Moves(First))
	require.Equal(t, expected.Moves(Second), actual.Moves(Second))
	require.Equal(t, expected.WinningLine(), actual.WinningLine())
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame()

	// Then: the board is empty and the first player is to move
	assert.Equal(t, Status{State: Ongoing}, game.Status())
	assert.Equal(t, First, game.Turn())
	assert.Equal(t, 0, game.MoveCount())
	assert.Len(t, game.Board(), Size*Size)
	assert.Empty(t, game.Highlighted())
}

func TestGame_ApplyMove(t *testing.T) {
	t.Run("Successful move", func(t *testing.T) {
		// Given: a new game
		game := NewGame()

		// When: the first player moves
		err := game.ApplyMove(First, 312)
		require.NoError(t, err)

		// Then: the cell is owned, highlighted and the turn passes
		assert.Equal(t, Occupancy{Side: First, Highlighted: true}, game.Cell(312))
		assert.Equal(t, Second, game.Turn())
		assert.Equal(t, []int{312}, game.Moves(First))
		assert.Equal(t, Ongoing, game.Status().State)
	})

	t.Run("Only the most recent move is highlighted", func(t *testing.T) {
		// Given: a game with two moves
		game := NewGame()
		playMoves(t, game, 100, 200)

		// When: the first player moves again
		require.NoError(t, game.ApplyMove(First, 300))

		// Then: the previous highlight is cleared
		assert.Equal(t, []int{300}, game.Highlighted())
		assert.Equal(t, Occupancy{Side: Second}, game.Cell(200))
		assert.Equal(t, Occupancy{Side: First}, game.Cell(100))
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where cell 10 is taken by the first player
		game := NewGame()
		playMoves(t, game, 10)
		before := game.Clone()

		// When: the second player plays the same cell
		err := game.ApplyMove(Second, 10)

		// Then: the move is rejected as illegal and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		requireSameState(t, before, game)

		// And: rejecting again is idempotent
		require.ErrorIs(t, game.ApplyMove(Second, 10), apperror.ErrCellOccupied)
		requireSameState(t, before, game)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		game := NewGame()

		err := game.ApplyMove(Second, 1)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, 0, game.MoveCount())
	})

	t.Run("Error on invalid cell index", func(t *testing.T) {
		game := NewGame()

		assert.ErrorIs(t, game.ApplyMove(First, -1), ErrInvalidCell)
		assert.ErrorIs(t, game.ApplyMove(First, Size*Size), ErrInvalidCell)
		assert.Equal(t, 0, game.MoveCount())
	})

	t.Run("Turn alternates strictly", func(t *testing.T) {
		game := NewGame()

		for k := 0; k < 20; k++ {
			if k%2 == 0 {
				require.Equal(t, First, game.Turn(), "after %d moves", k)
			} else {
				require.Equal(t, Second, game.Turn(), "after %d moves", k)
			}
			require.NoError(t, game.ApplyMove(game.Turn(), k*3))
		}
	})
}

func TestGame_Win(t *testing.T) {
	t.Run("First player wins horizontally", func(t *testing.T) {
		// Given: the first player has four in row 0 and the second four in row 1
		game := NewGame()
		playMoves(t, game, 0, 25, 1, 26, 2, 27, 3, 28)

		// When: the first player completes the line
		require.NoError(t, game.ApplyMove(First, 4))

		// Then: the game is won and the whole line is highlighted
		assert.Equal(t, Status{State: Won, Winner: First}, game.Status())
		assert.Equal(t, []int{0, 1, 2, 3, 4}, game.WinningLine())
		assert.Equal(t, []int{0, 1, 2, 3, 4}, game.Highlighted())
	})

	t.Run("No moves are accepted after a win", func(t *testing.T) {
		game := NewGame()
		playMoves(t, game, 0, 25, 1, 26, 2, 27, 3, 28, 4)

		err := game.ApplyMove(Second, 29)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, 9, game.MoveCount())
	})
}

func TestGame_Draw(t *testing.T) {
	// Given: a 4x4 grid where five in a row is impossible
	game := NewGameOnGrid(NewGrid(4))

	// When: every cell is filled
	for cell := 0; cell < 16; cell++ {
		require.NoError(t, game.ApplyMove(game.Turn(), cell))
	}

	// Then: the game is drawn and accepts no further moves or undo
	assert.Equal(t, Status{State: Drawn}, game.Status())
	require.ErrorIs(t, game.ApplyMove(game.Turn(), 0), apperror.ErrGameFinished)
	require.ErrorIs(t, game.Undo(), apperror.ErrNothingToUndo)
}

func TestGame_Undo(t *testing.T) {
	t.Run("Round trip restores the state two moves earlier", func(t *testing.T) {
		// Given: a game in progress on the first player's turn
		game := NewGame()
		playMoves(t, game, 312, 313, 287, 288)
		before := game.Clone()

		// When: two moves are applied and undone
		playMoves(t, game, 100, 101)
		require.NoError(t, game.Undo())

		// Then: board, ledgers, highlight and status are back
		requireSameState(t, before, game)
		assert.Equal(t, []int{288}, game.Highlighted())
	})

	t.Run("Round trip from the initial state", func(t *testing.T) {
		game := NewGame()
		before := game.Clone()

		playMoves(t, game, 0, 1)
		require.NoError(t, game.Undo())

		requireSameState(t, before, game)
		assert.Empty(t, game.Highlighted())
	})

	t.Run("Undo out of a win clears the winning line", func(t *testing.T) {
		// Given: the second player is about to complete row 0
		game := NewGame()
		playMoves(t, game, 100, 0, 102, 1, 104, 2, 106, 3)
		before := game.Clone()

		playMoves(t, game, 200, 4)
		require.Equal(t, Status{State: Won, Winner: Second}, game.Status())

		// When: the exchange is undone
		require.NoError(t, game.Undo())

		// Then: the game is ongoing with the pre-win highlight
		requireSameState(t, before, game)
		assert.Equal(t, []int{3}, game.Highlighted())
		assert.Nil(t, game.WinningLine())
	})

	t.Run("Nothing to undo on an empty game", func(t *testing.T) {
		game := NewGame()

		assert.ErrorIs(t, game.Undo(), apperror.ErrNothingToUndo)
	})

	t.Run("Undo is rejected on the second player's turn", func(t *testing.T) {
		// Given: the first player just moved
		game := NewGame()
		playMoves(t, game, 0, 1, 2)
		before := game.Clone()

		// When: undo is requested
		err := game.Undo()

		// Then: it fails and leaves the game unchanged
		require.ErrorIs(t, err, apperror.ErrNothingToUndo)
		requireSameState(t, before, game)
	})

	t.Run("First player's win cannot be undone", func(t *testing.T) {
		game := NewGame()
		playMoves(t, game, 0, 25, 1, 26, 2, 27, 3, 28, 4)

		assert.ErrorIs(t, game.Undo(), apperror.ErrNothingToUndo)
		assert.Equal(t, Won, game.Status().State)
	})
}

func TestGame_Abort(t *testing.T) {
	t.Run("Aborted game rejects moves and undo", func(t *testing.T) {
		// Given: an ongoing game
		game := NewGame()
		playMoves(t, game, 0, 1)

		// When: the opponent leaves
		changed := game.Abort("opponent left")

		// Then: every further operation fails with ErrSessionAborted
		require.True(t, changed)
		assert.Equal(t, Status{State: Aborted, Reason: "opponent left"}, game.Status())
		require.ErrorIs(t, game.ApplyMove(First, 2), apperror.ErrSessionAborted)
		require.ErrorIs(t, game.Undo(), apperror.ErrSessionAborted)
		assert.Equal(t, 2, game.MoveCount())
	})

	t.Run("Finished game keeps its result", func(t *testing.T) {
		game := NewGame()
		playMoves(t, game, 0, 25, 1, 26, 2, 27, 3, 28, 4)

		assert.False(t, game.Abort("opponent left"))
		assert.Equal(t, Won, game.Status().State)
	})
}

func TestSide_Text(t *testing.T) {
	var side Side
	require.NoError(t, side.UnmarshalText([]byte("second")))
	assert.Equal(t, Second, side)
	assert.Equal(t, First, side.Opponent())
	assert.Error(t, side.UnmarshalText([]byte("third")))

	var state State
	require.NoError(t, state.UnmarshalText([]byte("drawn")))
	assert.Equal(t, Drawn, state)
}
