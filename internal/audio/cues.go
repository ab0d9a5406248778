package audio

import (
	"time"

	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
)

// Cues for each session event.
var (
	// CueStart plays when the countdown begins.
	CueStart = Cue{Wave: WaveTriangle, Freq: 660, Duration: 120 * time.Millisecond, Volume: 0.06}
	// CueStartResumed plays when Start resumes a paused run.
	CueStartResumed = Cue{Wave: WaveSquare, Freq: 520, Duration: 80 * time.Millisecond, Volume: 0.05}
	// CuePause plays when a run is paused.
	CuePause = Cue{Wave: WaveSine, Freq: 260, Duration: 50 * time.Millisecond, Volume: 0.04}
	// CueResume plays when the pause toggle resumes a run.
	CueResume = Cue{Wave: WaveSine, Freq: 420, Duration: 50 * time.Millisecond, Volume: 0.04}
	// CueGameOver plays when an obstacle hits an unshielded player.
	CueGameOver = Cue{Wave: WaveSaw, Freq: 160, Duration: 180 * time.Millisecond, Volume: 0.06}
	// CueAbsorb plays when the shield absorbs an obstacle.
	CueAbsorb = Cue{Wave: WaveSquare, Freq: 320, Duration: 80 * time.Millisecond, Volume: 0.06}
	// CueShield plays when a shield power-up is collected.
	CueShield = Cue{Wave: WaveTriangle, Freq: 720, Duration: 120 * time.Millisecond, Volume: 0.07}
	// CueSlow plays when a slow-motion power-up is collected.
	CueSlow = Cue{Wave: WaveSine, Freq: 540, Duration: 100 * time.Millisecond, Volume: 0.06}
)

// ForEvent returns the cue for a session event, if it has one.
func ForEvent(ev session.Event) (Cue, bool) {
	switch ev.Kind {
	case session.EventCountdown:
		return CueStart, true
	case session.EventPaused:
		return CuePause, true
	case session.EventResumed:
		if ev.ViaStart {
			return CueStartResumed, true
		}
		return CueResume, true
	case session.EventGameOver:
		return CueGameOver, true
	case session.EventShieldAbsorbed:
		return CueAbsorb, true
	case session.EventPickup:
		if ev.Pickup == object.PowerUpShield {
			return CueShield, true
		}
		return CueSlow, true
	}
	return Cue{}, false
}
