package session

import (
	"math"
	"time"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
)

// baselineMs is one baseline frame in milliseconds.
var baselineMs = msOf(config.BaselineFrame)

// msOf converts a duration to fractional milliseconds.
func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Advance moves the session forward by dt with the given movement intents.
//
// Only a running session simulates; during the countdown only the countdown
// advances, and every other phase ignores the call. dt is clamped to
// [0, config.MaxDelta] and shortened while slow motion is active. With
// dt == 0 nothing changes.
func (s *Session) Advance(dt time.Duration, in Intents) {
	step := msOf(clampDelta(dt))

	switch s.phase {
	case PhaseStarting:
		s.tickCountdown(step)
		return
	case PhaseRunning:
	default:
		return
	}

	if s.run.slow > 0 {
		step *= s.tuning.SlowMotionScale
	}
	ctx := object.UpdateContext{
		Delta:  step,
		Frames: step / baselineMs,
		Input:  object.Input{Left: in.Has(IntentLeft), Right: in.Has(IntentRight)},
		Field:  s.field,
	}
	s.run.elapsed += step

	// Player
	s.player.Update(ctx)
	if step > 0 {
		object.SpawnTrail(s.player.X+s.player.W/2, s.player.Y+s.player.H,
			config.PlayerTrailPerTick, object.PlayerHue, s.fx, s)
	}

	// Background
	for i := range s.stars {
		s.stars[i].Update(ctx)
	}

	// Waves
	s.run.spawnAcc += step
	if s.run.spawnAcc >= s.run.spawnInterval {
		s.run.spawnAcc = 0
		s.spawnWave()
	}

	// Falling entities
	for _, o := range s.obstacles {
		o.Update(ctx)
	}
	s.obstacles = object.Purge(s.obstacles)
	for _, u := range s.powerups {
		u.Update(ctx)
	}
	s.powerups = object.Purge(s.powerups)

	over := s.resolveCollisions()
	s.obstacles = object.Purge(s.obstacles)
	s.powerups = object.Purge(s.powerups)
	if over {
		return
	}

	// Cosmetics
	for _, p := range s.particles {
		p.Update(ctx)
	}
	s.particles = object.Purge(s.particles)

	// Combo
	s.run.combo = math.Max(0, s.run.combo-step)
	if s.run.combo == 0 {
		s.run.multiplier = s.tuning.MultiplierMin
	}

	s.run.score += step * s.tuning.ScoreRate * s.run.multiplier
	s.rampDifficulty()

	s.run.slow = math.Max(0, s.run.slow-step)
	s.run.shake *= math.Pow(config.ShakeDecay, ctx.Frames)
}
