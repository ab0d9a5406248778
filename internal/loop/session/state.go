package session

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseIdle     Phase = iota // Title screen, nothing simulated
	PhaseStarting              // Countdown before a run
	PhaseRunning
	PhasePaused
	PhaseGameOver
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Intents is the set of movement directions held during a tick.
type Intents uint8

const (
	IntentLeft Intents = 1 << iota
	IntentRight
)

// Has reports whether all intents in f are set.
func (i Intents) Has(f Intents) bool {
	return i&f == f
}

// runState holds the per-run counters. All timers are milliseconds.
type runState struct {
	score      float64
	multiplier float64
	combo      float64 // Time left before the multiplier resets
	slow       float64 // Slow-motion time left
	shield     int
	shake      float64
	elapsed    float64 // Simulated (scaled) time since the run began

	baseSpeed     float64
	spawnInterval float64
	spawnAcc      float64
	nextMilestone float64

	countdown float64 // Starting phase only, unscaled
}
