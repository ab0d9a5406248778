package session

import "github.com/tomz197/dodge/internal/object"

// Snapshot is a copy of everything a presentation needs to draw one frame.
// Entities are copied by value so the caller may keep the snapshot while the
// session keeps running.
type Snapshot struct {
	Phase     Phase
	Countdown int // 3, 2, 1 while starting, else 0

	Score      float64
	Best       int
	Multiplier float64
	Shield     int
	Slow       float64 // Slow-motion ms left
	Shake      float64
	Elapsed    float64

	Field     object.Screen
	Player    object.Player
	Obstacles []object.Obstacle
	PowerUps  []object.PowerUp
	Particles []object.Particle
	Stars     []object.Star
}

// SnapshotInto fills dst with the current state, reusing its slices.
func (s *Session) SnapshotInto(dst *Snapshot) {
	dst.Phase = s.phase
	dst.Countdown = s.CountdownDigit()

	dst.Score = s.run.score
	dst.Best = s.best
	dst.Multiplier = s.run.multiplier
	dst.Shield = s.run.shield
	dst.Slow = s.run.slow
	dst.Shake = s.run.shake
	dst.Elapsed = s.run.elapsed

	dst.Field = s.field
	dst.Player = *s.player

	dst.Obstacles = dst.Obstacles[:0]
	for _, o := range s.obstacles {
		dst.Obstacles = append(dst.Obstacles, *o)
	}
	dst.PowerUps = dst.PowerUps[:0]
	for _, u := range s.powerups {
		dst.PowerUps = append(dst.PowerUps, *u)
	}
	dst.Particles = dst.Particles[:0]
	for _, p := range s.particles {
		dst.Particles = append(dst.Particles, *p)
	}
	dst.Stars = append(dst.Stars[:0], s.stars...)
}

// Snapshot returns a freshly allocated snapshot.
func (s *Session) Snapshot() *Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)
	return &snap
}
