package session

import "github.com/tomz197/dodge/internal/object"

// EventKind identifies a discrete session event.
type EventKind int

const (
	EventCountdown EventKind = iota // A run was requested; the countdown began
	EventRunStarted
	EventPaused
	EventResumed
	EventShieldAbsorbed
	EventPickup
	EventGameOver
	EventReset
)

// String returns the wire name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventCountdown:
		return "countdown"
	case EventRunStarted:
		return "run_started"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventShieldAbsorbed:
		return "shield_absorbed"
	case EventPickup:
		return "pickup"
	case EventGameOver:
		return "game_over"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is something the presentation may react to (sound, toast, save).
// X and Y locate the event on the field where that makes sense.
type Event struct {
	Kind EventKind
	X, Y float64

	Pickup object.PowerUpKind // EventPickup

	// EventGameOver
	Score   int
	Best    int
	NewBest bool

	// EventResumed: true when Start resumed the run rather than TogglePause.
	ViaStart bool
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

// Events returns and clears the events emitted since the last call.
// The returned slice is only valid until the next call to a Session method.
func (s *Session) Events() []Event {
	out := s.events
	s.events = s.events[:0]
	return out
}
