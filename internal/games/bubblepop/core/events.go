package core

import "fmt"

// EventKind identifies a discrete game signal.
type EventKind int

const (
	EventShotFired EventKind = iota
	EventClusterMatched
	EventBubblesDropped
	EventGridCrept
	EventGameOver
)

// String returns the string representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventShotFired:
		return "shot_fired"
	case EventClusterMatched:
		return "cluster_matched"
	case EventBubblesDropped:
		return "bubbles_dropped"
	case EventGridCrept:
		return "grid_crept"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is emitted by a session while resolving a turn.
type Event struct {
	Kind  EventKind
	Count int   // Bubbles involved, for matches and drops
	Score int   // Score after the event
	Color Color // Color of the fired bubble, for shots and matches
}

// String returns a short human readable description.
func (e Event) String() string {
	switch e.Kind {
	case EventClusterMatched:
		return fmt.Sprintf("matched %d %s", e.Count, e.Color)
	case EventBubblesDropped:
		return fmt.Sprintf("dropped %d", e.Count)
	case EventShotFired:
		return fmt.Sprintf("fired %s", e.Color)
	default:
		return e.Kind.String()
	}
}

// Observer receives events as they happen.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
