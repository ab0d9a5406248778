package object

import (
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/physics"
)

// Obstacle is a falling block the player must avoid.
type Obstacle struct {
	X, Y float64 // Top-left corner
	W, H float64
	V    float64 // Downward speed in pixels per baseline frame
	Rot  float64 // Cosmetic rotation (radians), never affects collision
	Hue  float64
	Dead bool

	cullY float64 // Removed once Y passes this
}

// NewObstacle creates an obstacle that is culled once it falls past cullY.
func NewObstacle(x, y, w, h, v, rot, hue, cullY float64) *Obstacle {
	return &Obstacle{X: x, Y: y, W: w, H: h, V: v, Rot: rot, Hue: hue, cullY: cullY}
}

// Update moves the obstacle down and marks it dead below the field.
func (o *Obstacle) Update(ctx UpdateContext) bool {
	o.Y += o.V * ctx.Frames
	o.Rot += o.V * 0.01 * ctx.Frames
	if o.Y > o.cullY {
		o.Dead = true
	}
	return o.Dead
}

// Bounds returns the obstacle's axis-aligned collision box.
func (o *Obstacle) Bounds() physics.Rect {
	return physics.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
}

// Draw renders the obstacle as a rotated filled box.
func (o *Obstacle) Draw(ctx DrawContext) {
	points := ctx.Canvas.BorrowPoints(4)
	cx, cy := o.Bounds().Center()
	rotatedRect(points, cx, cy, o.W, o.H, o.Rot)
	ctx.Canvas.DrawPolygon(points, true, draw.HueColor(o.Hue))
}

// MarkDestroyed marks the obstacle for removal (implements Destructible).
func (o *Obstacle) MarkDestroyed() {
	o.Dead = true
}

// IsDestroyed returns true if the obstacle is marked for destruction (implements Destructible).
func (o *Obstacle) IsDestroyed() bool {
	return o.Dead
}
