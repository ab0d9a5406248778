// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield - the logical coordinate space used by the simulation.
// Actual rendering scales to fit the terminal or browser canvas.
const (
	FieldWidth  = 480
	FieldHeight = 640
)

// Simulation timing. Velocities are expressed in pixels per baseline frame.
const (
	BaselineFrame = time.Second / 60
	MaxDelta      = 32 * time.Millisecond // Frame hitches never advance more than this
)

// Lifecycle
const (
	CountdownSteps = 3
	CountdownStep  = 700 * time.Millisecond
)

// Player
const (
	PlayerSize    = 36.0
	PlayerSpeed   = 4.7 // px per frame
	PlayerOffsetY = 80.0
	FieldMargin   = 8.0 // Player and obstacles stay this far from the side edges
)

// Obstacles
const (
	ObstacleSpawnY  = -40.0
	ObstacleCullPad = 60.0 // Removed once this far below the bottom edge
	ObstacleMinW    = 28.0
	ObstacleMaxW    = 92.0
	ObstacleMinH    = 14.0
	ObstacleMaxH    = 28.0
)

// Power-ups
const (
	PowerUpSize     = 26.0
	PowerUpSpawnY   = -30.0
	PowerUpCullPad  = 40.0
	PowerUpMinX     = 20.0
	PowerUpSpeedMul = 0.75
)

// Background
const (
	StarCount = 70
)

// Effects (cosmetic)
const (
	ShakeImpulse       = 10.0
	ShakeMax           = 12.0
	ShakeDecay         = 0.9 // Per baseline frame
	AbsorbBurstCount   = 14
	WaveTrailCount     = 6
	ParticleMaxLife    = 600.0 // ms, used for fade
	ToastDuration      = 1400 * time.Millisecond
	PlayerTrailPerTick = 1
)

// Tuning holds the gameplay parameters that drive scoring, combos and the
// difficulty ramp. Times are in milliseconds.
type Tuning struct {
	BaseSpeed         float64 // Initial obstacle fall speed (px/frame)
	BaseSpeedCap      float64
	BaseSpeedStep     float64
	SpawnInterval     float64 // Initial ms between waves
	SpawnIntervalMin  float64
	SpawnIntervalStep float64

	SecondObstacleChance float64
	SpeedJitterMin       float64
	SpeedJitterMax       float64

	ScoreRate     float64 // Points per ms at multiplier 1
	MilestoneStep float64 // Points between difficulty steps
	PowerUpChance float64 // Per milestone

	MultiplierMin  float64
	MultiplierMax  float64
	MultiplierStep float64 // Added per surviving wave
	ComboMax       float64

	SlowMotionDuration float64
	SlowMotionScale    float64
}

// DefaultTuning returns the standard game tuning.
func DefaultTuning() Tuning {
	return Tuning{
		BaseSpeed:         2.4,
		BaseSpeedCap:      8,
		BaseSpeedStep:     0.01,
		SpawnInterval:     900,
		SpawnIntervalMin:  360,
		SpawnIntervalStep: 1,

		SecondObstacleChance: 0.35,
		SpeedJitterMin:       0.4,
		SpeedJitterMax:       1.4,

		ScoreRate:     0.02,
		MilestoneStep: 120,
		PowerUpChance: 0.03,

		MultiplierMin:  1,
		MultiplierMax:  5,
		MultiplierStep: 0.05,
		ComboMax:       4000,

		SlowMotionDuration: 3200,
		SlowMotionScale:    0.45,
	}
}

// Terminal rendering - the maximum render area; larger terminals are centered
// with a border.
const (
	MaxTermWidth  = 96
	MaxTermHeight = 48
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
