package gomoku

import "fmt"

// Snapshot is the minimal serializable form of a game: both ledgers in play
// order and the abort marker. Board, highlights and status are derived on Replay.
type Snapshot struct {
	First   []int  `json:"first"`
	Second  []int  `json:"second"`
	Aborted bool   `json:"aborted,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (that *Game) Snapshot() Snapshot {
	return Snapshot{
		First:   that.Moves(First),
		Second:  that.Moves(Second),
		Aborted: that.status.State == Aborted,
		Reason:  that.status.Reason,
	}
}

// Replay rebuilds a game on grid by re-applying the snapshot's moves in turn order.
func Replay(grid Grid, snapshot Snapshot) (*Game, error) {
	if n, m := len(snapshot.First), len(snapshot.Second); n != m && n != m+1 {
		return nil, fmt.Errorf("unbalanced ledgers: first %d, second %d", n, m)
	}

	game := NewGameOnGrid(grid)

	for i, cell := range snapshot.First {
		if err := game.ApplyMove(First, cell); err != nil {
			return nil, fmt.Errorf("failed to replay first player's move %d: %w", i, err)
		}

		if i >= len(snapshot.Second) {
			break
		}

		if err := game.ApplyMove(Second, snapshot.Second[i]); err != nil {
			return nil, fmt.Errorf("failed to replay second player's move %d: %w", i, err)
		}
	}

	if snapshot.Aborted {
		game.Abort(snapshot.Reason)
	}

	return game, nil
}
