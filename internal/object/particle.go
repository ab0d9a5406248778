package object

import (
	"math"
	"sync"

	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/config"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect. It never takes part in collision
// or scoring.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity (pixels per baseline frame)
	Life    float64 // Milliseconds remaining
	MaxLife float64
	Hue     float64
	Dead    bool
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, life, hue float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{X: x, Y: y, VX: vx, VY: vy, Life: life, MaxLife: life, Hue: hue}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates count particles bursting outward from (x, y).
func SpawnExplosion(x, y float64, count int, hue float64, rng Rand, spawner Spawner) {
	if spawner == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := Between(rng, 0, 2*math.Pi)
		speed := Between(rng, 1, 3.5)
		life := Between(rng, 280, 600)
		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, life, hue))
	}
}

// SpawnTrail creates count slow particles drifting down around (x, y).
func SpawnTrail(x, y float64, count int, hue float64, rng Rand, spawner Spawner) {
	if spawner == nil {
		return
	}
	for i := 0; i < count; i++ {
		spawner.Spawn(NewParticle(
			x+Between(rng, -6, 6),
			y+Between(rng, -6, 6),
			Between(rng, -0.4, 0.4),
			Between(rng, 0.2, 1),
			Between(rng, 220, 520),
			hue,
		))
	}
}

// Update moves the particle with drag and gravity and ages it.
func (p *Particle) Update(ctx UpdateContext) bool {
	p.X += p.VX * ctx.Frames
	p.Y += p.VY * ctx.Frames
	p.VX *= math.Pow(0.99, ctx.Frames)
	p.VY += 0.02 * ctx.Frames

	p.Life -= ctx.Delta
	if p.Life <= 0 {
		p.Dead = true
	}
	return p.Dead
}

// Draw renders the particle as a single pixel, skipping nearly faded ones.
func (p *Particle) Draw(ctx DrawContext) {
	if p.Life/config.ParticleMaxLife < 0.1 {
		return
	}
	ctx.Canvas.SetFloat(p.X, p.Y, draw.HueColor(p.Hue))
}

// MarkDestroyed marks the particle for removal.
func (p *Particle) MarkDestroyed() {
	p.Dead = true
}

// IsDestroyed reports whether the particle is marked for removal.
func (p *Particle) IsDestroyed() bool {
	return p.Dead
}
