package session

import (
	"time"

	"github.com/tomz197/dodge/internal/loop/config"
)

// firstTick is what the clock reports when it has no previous timestamp.
const firstTick = 16 * time.Millisecond

// Clock turns frame timestamps into bounded simulation deltas.
type Clock struct {
	last  time.Time
	valid bool
}

// Tick records now and returns the time since the previous tick, capped at
// config.MaxDelta and never negative.
func (c *Clock) Tick(now time.Time) time.Duration {
	if !c.valid {
		c.last = now
		c.valid = true
		return firstTick
	}
	dt := now.Sub(c.last)
	c.last = now
	return clampDelta(dt)
}

// Reset forgets the previous timestamp, so the next Tick reports a single
// baseline frame. Called on resume so the paused span is never replayed.
func (c *Clock) Reset() {
	c.valid = false
}

func clampDelta(dt time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if dt > config.MaxDelta {
		return config.MaxDelta
	}
	return dt
}
