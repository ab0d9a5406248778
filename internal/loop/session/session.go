// Package session implements a single game of Dodge: the fixed-order tick,
// spawning and difficulty ramp, collision outcomes and the run lifecycle.
// A Session is not safe for concurrent use; each adapter drives its own from
// one goroutine.
package session

import (
	"math/rand"
	"time"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/physics"
)

// Source is the random source gameplay decisions are drawn from.
type Source = object.Rand

// collisionGridCellSize is the broad-phase cell size. Must be >= the largest
// center distance at which the player can still touch an obstacle
// ((92 + 36) / 2 = 64).
const collisionGridCellSize = 96.0

// Options configures a new Session. Zero values select the defaults.
type Options struct {
	Tuning *config.Tuning
	Rand   Source // Gameplay randomness; seeded from the clock when nil
	FX     Source // Cosmetic randomness (particles, stars); derived from Rand when nil
}

// Session owns one player's game: entity pools, run counters and phase.
type Session struct {
	tuning config.Tuning
	field  object.Screen
	rng    Source
	fx     Source

	phase Phase
	best  int
	run   runState

	player    *object.Player
	obstacles []*object.Obstacle
	powerups  []*object.PowerUp
	particles []*object.Particle
	stars     []object.Star

	grid       *physics.SpatialGrid
	candidates []int
	events     []Event
}

// Compile-time check that Session can receive spawned objects.
var _ object.Spawner = (*Session)(nil)

// New creates an idle session.
func New(opts Options) *Session {
	tuning := config.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	fx := opts.FX
	if fx == nil {
		fx = rand.New(rand.NewSource(int64(rng.Float64() * (1 << 53))))
	}

	field := object.NewScreen(config.FieldWidth, config.FieldHeight)
	s := &Session{
		tuning: tuning,
		field:  field,
		rng:    rng,
		fx:     fx,
		phase:  PhaseIdle,
		player: object.NewPlayer(field),
		stars:  object.NewStarfield(config.StarCount, field, fx),
		grid:   physics.NewSpatialGrid(float64(field.Width), float64(field.Height), collisionGridCellSize),
	}
	s.resetRun()
	return s
}

// Spawn adds an object to the matching pool. Implements object.Spawner.
func (s *Session) Spawn(obj object.Object) {
	switch o := obj.(type) {
	case *object.Particle:
		s.particles = append(s.particles, o)
	case *object.Obstacle:
		s.obstacles = append(s.obstacles, o)
	case *object.PowerUp:
		s.powerups = append(s.powerups, o)
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Best returns the best score known to the session.
func (s *Session) Best() int { return s.best }

// SetBest seeds the best score, usually from persistence.
func (s *Session) SetBest(best int) {
	if best < 0 {
		best = 0
	}
	s.best = best
}

// Score returns the current score.
func (s *Session) Score() float64 { return s.run.score }

// Field returns the playfield dimensions.
func (s *Session) Field() object.Screen { return s.field }

// resetRun restores the run counters and empties all pools except the stars.
func (s *Session) resetRun() {
	s.run = runState{
		multiplier:    s.tuning.MultiplierMin,
		baseSpeed:     s.tuning.BaseSpeed,
		spawnInterval: s.tuning.SpawnInterval,
		nextMilestone: s.tuning.MilestoneStep,
	}
	s.player = object.NewPlayer(s.field)
	s.obstacles = clearPool(s.obstacles)
	s.powerups = clearPool(s.powerups)
	s.particles = clearPool(s.particles)
}

// clearPool marks every item destroyed and purges, releasing pooled ones.
func clearPool[T object.Destructible](items []T) []T {
	for _, it := range items {
		it.MarkDestroyed()
	}
	return object.Purge(items)
}
