package gomoku

import "fmt"

type EventKind uint8

const (
	EventMove EventKind = iota + 1
	EventUndo
	EventAbort
)

// Event is one input to the game state machine.
type Event struct {
	Kind   EventKind
	Side   Side
	Cell   int
	Reason string
}

func MoveEvent(side Side, cell int) Event {
	return Event{Kind: EventMove, Side: side, Cell: cell}
}

func UndoEvent() Event {
	return Event{Kind: EventUndo}
}

func AbortEvent(reason string) Event {
	return Event{Kind: EventAbort, Reason: reason}
}

// Transition applies event to a copy of state and returns the copy.
// state itself is never modified, whether or not the event is accepted.
func Transition(state *Game, event Event) (*Game, error) {
	next := state.Clone()

	switch event.Kind {
	case EventMove:
		if err := next.ApplyMove(event.Side, event.Cell); err != nil {
			return nil, err
		}
	case EventUndo:
		if err := next.Undo(); err != nil {
			return nil, err
		}
	case EventAbort:
		next.Abort(event.Reason)
	default:
		return nil, fmt.Errorf("unknown event kind %d", event.Kind)
	}

	return next, nil
}
