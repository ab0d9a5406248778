package object

import (
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/physics"
)

// PowerUpKind identifies a power-up's effect.
type PowerUpKind int

const (
	PowerUpShield PowerUpKind = iota // Absorbs one obstacle hit
	PowerUpSlow                      // Slows the whole simulation for a while
)

// String returns the wire name of the kind.
func (k PowerUpKind) String() string {
	switch k {
	case PowerUpShield:
		return "shield"
	case PowerUpSlow:
		return "slow"
	default:
		return "unknown"
	}
}

// Hue returns the display hue of the kind.
func (k PowerUpKind) Hue() float64 {
	if k == PowerUpShield {
		return 140
	}
	return 45
}

// PowerUp is a falling pickup.
type PowerUp struct {
	X, Y float64
	W, H float64
	V    float64
	Rot  float64
	Kind PowerUpKind
	Dead bool

	cullY float64
}

// NewPowerUp creates a power-up of the given kind and size.
func NewPowerUp(kind PowerUpKind, x, y, size, v, cullY float64) *PowerUp {
	return &PowerUp{X: x, Y: y, W: size, H: size, V: v, Kind: kind, cullY: cullY}
}

// Update moves the power-up down and marks it dead below the field.
func (u *PowerUp) Update(ctx UpdateContext) bool {
	u.Y += u.V * ctx.Frames
	u.Rot += 0.02 * ctx.Frames
	if u.Y > u.cullY {
		u.Dead = true
	}
	return u.Dead
}

// Bounds returns the power-up's collision box.
func (u *PowerUp) Bounds() physics.Rect {
	return physics.Rect{X: u.X, Y: u.Y, W: u.W, H: u.H}
}

// Draw renders the power-up as a spinning square.
func (u *PowerUp) Draw(ctx DrawContext) {
	points := ctx.Canvas.BorrowPoints(4)
	cx, cy := u.Bounds().Center()
	rotatedRect(points, cx, cy, u.W, u.H, u.Rot)
	ctx.Canvas.DrawPolygon(points, true, draw.HueColor(u.Kind.Hue()))
}

// MarkDestroyed marks the power-up as consumed or gone.
func (u *PowerUp) MarkDestroyed() {
	u.Dead = true
}

// IsDestroyed reports whether the power-up is marked for removal.
func (u *PowerUp) IsDestroyed() bool {
	return u.Dead
}
