package session

import (
	"math"
	"slices"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/physics"
)

// populateGrid clears and re-inserts every live obstacle by its center.
func (s *Session) populateGrid() {
	s.grid.Clear()
	for i, o := range s.obstacles {
		cx, cy := o.Bounds().Center()
		s.grid.Insert(cx, cy, i)
	}
}

// resolveCollisions settles the player's contacts for this tick. Obstacles
// are handled in pool order and each one at most once. Returns true when the
// run ended; nothing else is processed in that case.
func (s *Session) resolveCollisions() (over bool) {
	pb := s.player.Bounds()
	px, py := pb.Center()

	s.populateGrid()
	s.candidates = s.candidates[:0]
	s.grid.QueryAround(px, py, func(i int) bool {
		s.candidates = append(s.candidates, i)
		return false
	})
	slices.Sort(s.candidates)

	for _, i := range s.candidates {
		o := s.obstacles[i]
		if o.IsDestroyed() || !physics.Overlaps(pb, o.Bounds()) {
			continue
		}
		if s.run.shield == 0 {
			s.gameOver()
			return true
		}
		s.absorb(o)
	}

	for _, u := range s.powerups {
		if u.IsDestroyed() || !physics.Overlaps(pb, u.Bounds()) {
			continue
		}
		s.pickup(u)
	}
	return false
}

// absorb spends the shield charge on an obstacle.
func (s *Session) absorb(o *object.Obstacle) {
	s.run.shield = 0
	o.MarkDestroyed()

	cx, cy := o.Bounds().Center()
	object.SpawnExplosion(cx, cy, config.AbsorbBurstCount, o.Hue, s.fx, s)
	s.run.shake = math.Min(config.ShakeMax, s.run.shake+config.ShakeImpulse)
	s.emit(Event{Kind: EventShieldAbsorbed, X: cx, Y: cy})
}

// pickup applies a power-up. Slow motion restarts rather than stacking.
func (s *Session) pickup(u *object.PowerUp) {
	switch u.Kind {
	case object.PowerUpShield:
		s.run.shield = 1
	case object.PowerUpSlow:
		s.run.slow = s.tuning.SlowMotionDuration
	}
	u.MarkDestroyed()

	cx, cy := u.Bounds().Center()
	s.emit(Event{Kind: EventPickup, X: cx, Y: cy, Pickup: u.Kind})
}
