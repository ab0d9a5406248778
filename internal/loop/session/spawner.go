package session

import (
	"math"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/physics"
)

// spawnWave drops one obstacle, sometimes two, and rewards the player for
// surviving another wave by growing the multiplier and refilling the combo.
func (s *Session) spawnWave() {
	count := 1
	if s.rng.Float64() < s.tuning.SecondObstacleChance {
		count++
	}

	width := float64(s.field.Width)
	cullY := float64(s.field.Height) + config.ObstacleCullPad
	for i := 0; i < count; i++ {
		w := object.Between(s.rng, config.ObstacleMinW, config.ObstacleMaxW)
		h := object.Between(s.rng, config.ObstacleMinH, config.ObstacleMaxH)
		maxX := width - w - config.FieldMargin
		x := physics.Clamp(object.Between(s.rng, config.FieldMargin, maxX), config.FieldMargin, maxX)
		v := s.run.baseSpeed + object.Between(s.rng, s.tuning.SpeedJitterMin, s.tuning.SpeedJitterMax)
		rot := object.Between(s.rng, 0, math.Pi)
		hue := object.Between(s.rng, 170, 260)

		s.Spawn(object.NewObstacle(x, config.ObstacleSpawnY, w, h, v, rot, hue, cullY))
		object.SpawnTrail(x+w/2, config.ObstacleSpawnY, config.WaveTrailCount, hue, s.fx, s)
	}

	s.run.multiplier = math.Min(s.tuning.MultiplierMax, s.run.multiplier+s.tuning.MultiplierStep)
	s.run.combo = s.tuning.ComboMax
}

// dropPowerup drops a shield or slow-motion pickup with equal odds.
func (s *Session) dropPowerup() {
	kind := object.PowerUpShield
	if s.rng.Float64() >= 0.5 {
		kind = object.PowerUpSlow
	}
	x := object.Between(s.rng, config.PowerUpMinX, float64(s.field.Width)-2*config.PowerUpMinX)
	v := s.run.baseSpeed*config.PowerUpSpeedMul + object.Between(s.rng, 0.2, 0.6)
	cullY := float64(s.field.Height) + config.PowerUpCullPad

	s.Spawn(object.NewPowerUp(kind, x, config.PowerUpSpawnY, config.PowerUpSize, v, cullY))
}

// rampDifficulty applies one difficulty step for every milestone the score
// has passed since the last tick.
func (s *Session) rampDifficulty() {
	for s.run.score >= s.run.nextMilestone {
		s.run.nextMilestone += s.tuning.MilestoneStep
		s.run.baseSpeed = math.Min(s.tuning.BaseSpeedCap, s.run.baseSpeed+s.tuning.BaseSpeedStep)
		s.run.spawnInterval = math.Max(s.tuning.SpawnIntervalMin, s.run.spawnInterval-s.tuning.SpawnIntervalStep)
		if s.rng.Float64() < s.tuning.PowerUpChance {
			s.dropPowerup()
		}
	}
}
