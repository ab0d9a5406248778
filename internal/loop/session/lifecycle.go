package session

import (
	"math"

	"github.com/tomz197/dodge/internal/loop/config"
)

// countdownTotal is the full countdown length in milliseconds.
var countdownTotal = float64(config.CountdownSteps) * msOf(config.CountdownStep)

// Start begins a new run from Idle or GameOver, or resumes a paused run.
// It does nothing while a countdown or a run is already in progress.
func (s *Session) Start() {
	switch s.phase {
	case PhaseIdle, PhaseGameOver:
		s.resetRun()
		s.run.countdown = countdownTotal
		s.phase = PhaseStarting
		s.emit(Event{Kind: EventCountdown})
	case PhasePaused:
		s.phase = PhaseRunning
		s.emit(Event{Kind: EventResumed, ViaStart: true})
	}
}

// TogglePause switches between Running and Paused. Timers are left as they
// are, so a paused run resumes exactly where it stopped.
func (s *Session) TogglePause() {
	switch s.phase {
	case PhaseRunning:
		s.phase = PhasePaused
		s.emit(Event{Kind: EventPaused})
	case PhasePaused:
		s.phase = PhaseRunning
		s.emit(Event{Kind: EventResumed})
	}
}

// Reset abandons any run and returns to Idle with empty pools and zero score.
// The best score is kept.
func (s *Session) Reset() {
	s.resetRun()
	s.phase = PhaseIdle
	s.emit(Event{Kind: EventReset})
}

// tickCountdown runs the Starting phase on unscaled time.
func (s *Session) tickCountdown(step float64) {
	s.run.countdown -= step
	if s.run.countdown > 0 {
		return
	}
	s.run.countdown = 0
	s.phase = PhaseRunning
	s.emit(Event{Kind: EventRunStarted})
}

// CountdownDigit returns the digit to show during the countdown (3, 2, 1),
// or 0 outside of it.
func (s *Session) CountdownDigit() int {
	if s.phase != PhaseStarting || s.run.countdown <= 0 {
		return 0
	}
	return int(math.Ceil(s.run.countdown / msOf(config.CountdownStep)))
}

// gameOver ends the run and records the best score.
func (s *Session) gameOver() {
	s.phase = PhaseGameOver
	score := int(math.Floor(s.run.score))
	newBest := score > s.best
	if newBest {
		s.best = score
	}
	cx, cy := s.player.Bounds().Center()
	s.emit(Event{Kind: EventGameOver, X: cx, Y: cy, Score: score, Best: s.best, NewBest: newBest})
}
