package session

import "github.com/rocketscienceinc/gomoku-backend/internal/gomoku"

// Step is one event as seen by the player receiving it. Opponent is true when
// the move or retraction was made by the other side.
type Step struct {
	Opponent     bool          `json:"opponent"`
	Side         gomoku.Side   `json:"side,omitempty"`
	Cell         int           `json:"cell"`
	Status       gomoku.Status `json:"status"`
	Valid        bool          `json:"valid"`
	OpponentLeft bool          `json:"opponent_left,omitempty"`
	Undo         bool          `json:"undo,omitempty"`
}

// Intent is what the local player asks the peer to apply.
type Intent struct {
	Cell int  `json:"cell"`
	Undo bool `json:"undo,omitempty"`
}

// Relayed turns a step produced for the local player into the step the peer receives.
func (that Step) Relayed() Step {
	that.Opponent = !that.Opponent
	return that
}

func moveStep(game *gomoku.Game, local, side gomoku.Side, cell int) Step {
	return Step{
		Opponent: side != local,
		Side:     side,
		Cell:     cell,
		Status:   game.Status(),
		Valid:    true,
	}
}

func rejectedStep(game *gomoku.Game, side gomoku.Side, cell int) Step {
	return Step{
		Side:   side,
		Cell:   cell,
		Status: game.Status(),
	}
}

// undo retracts one exchange and reports it as two steps, the later move first.
func undo(game *gomoku.Game, local gomoku.Side) ([]Step, error) {
	second, _ := game.LastMove(gomoku.Second)
	first, _ := game.LastMove(gomoku.First)

	if err := game.Undo(); err != nil {
		return nil, err
	}

	status := game.Status()

	return []Step{
		{Opponent: local != gomoku.Second, Side: gomoku.Second, Cell: second, Status: status, Valid: true, Undo: true},
		{Opponent: local != gomoku.First, Side: gomoku.First, Cell: first, Status: status, Valid: true, Undo: true},
	}, nil
}
