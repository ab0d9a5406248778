// Package object defines the playfield entities and their per-tick behavior.
package object

import (
	"math"

	"github.com/tomz197/dodge/internal/draw"
)

// Rand is the random source entities are built from. *math/rand.Rand
// satisfies it; tests inject scripted sequences.
type Rand interface {
	Float64() float64
}

// Between returns a random value in [lo, hi).
func Between(r Rand, lo, hi float64) float64 {
	return r.Float64()*(hi-lo) + lo
}

// Spawner allows helpers to add new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is the horizontal movement intent for the current tick.
type Input struct {
	Left  bool
	Right bool
}

// UpdateContext provides all the information an object needs during update.
// Delta is the effective (already slow-motion scaled) tick length in
// milliseconds; Frames is the same span in baseline frames.
type UpdateContext struct {
	Delta  float64
	Frames float64
	Input  Input
	Field  Screen
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas  *draw.Canvas
	Elapsed float64 // Simulation time in ms, drives cosmetic animation
}

// Screen represents the playfield dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a Screen with precomputed center.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

// WrapPosition wraps x and y coordinates around screen boundaries.
func (s Screen) WrapPosition(x, y *float64) {
	w := float64(s.Width)
	h := float64(s.Height)

	if w > 0 {
		*x = math.Mod(*x, w)
		if *x < 0 {
			*x += w
		}
	}
	if h > 0 {
		*y = math.Mod(*y, h)
		if *y < 0 {
			*y += h
		}
	}
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update advances the object one tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext)
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next purge.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj any) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Purge removes destroyed objects in place, preserving order, and releases
// pooled ones. The backing array is reused.
func Purge[T Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if it.IsDestroyed() {
			ReleaseObject(it)
			continue
		}
		kept = append(kept, it)
	}
	clear(items[len(kept):])
	return kept
}

// rotatedRect fills points with the corners of a w×h box centered at (cx, cy)
// rotated by angle radians.
func rotatedRect(points []draw.Point, cx, cy, w, h, angle float64) {
	sin, cos := math.Sincos(angle)
	hw, hh := w/2, h/2
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, c := range corners {
		points[i] = draw.Point{
			X: cx + c[0]*cos - c[1]*sin,
			Y: cy + c[0]*sin + c[1]*cos,
		}
	}
}
