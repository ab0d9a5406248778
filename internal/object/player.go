package object

import (
	"math"

	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/physics"
)

// PlayerHue is the player's cyan tint.
const PlayerHue = 190

// Player is the player-controlled block at the bottom of the field.
type Player struct {
	X, Y  float64 // Top-left corner
	W, H  float64
	Speed float64 // Pixels per baseline frame
}

// NewPlayer creates the player at its start position for the given field.
func NewPlayer(field Screen) *Player {
	return &Player{
		X:     float64(field.Width)/2 - config.PlayerSize/2,
		Y:     float64(field.Height) - config.PlayerOffsetY,
		W:     config.PlayerSize,
		H:     config.PlayerSize,
		Speed: config.PlayerSpeed,
	}
}

// Update moves the player horizontally from the input intent and keeps it
// inside the side margins. Holding both directions cancels out.
func (p *Player) Update(ctx UpdateContext) bool {
	vx := 0.0
	if ctx.Input.Left {
		vx -= p.Speed
	}
	if ctx.Input.Right {
		vx += p.Speed
	}
	p.X = physics.Clamp(p.X+vx*ctx.Frames, config.FieldMargin, float64(ctx.Field.Width)-p.W-config.FieldMargin)
	return false
}

// Bounds returns the player's collision box.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Draw renders the player as a solid block.
func (p *Player) Draw(ctx DrawContext) {
	ctx.Canvas.FillRect(p.X, p.Y, p.W, p.H, draw.HueColor(PlayerHue))
}

// DrawShield renders the pulsing ring shown while a shield charge is held.
func (p *Player) DrawShield(ctx DrawContext) {
	const segments = 24
	cx, cy := p.Bounds().Center()
	radius := 28 + math.Sin(ctx.Elapsed*0.01)*2

	points := ctx.Canvas.BorrowPoints(segments)
	for i := range points {
		a := float64(i) * 2 * math.Pi / segments
		points[i] = draw.Point{X: cx + math.Cos(a)*radius, Y: cy + math.Sin(a)*radius}
	}
	// Dashed: draw every other segment.
	for i := 0; i < segments; i += 2 {
		ctx.Canvas.DrawLine(points[i], points[(i+1)%segments], draw.ColorWhite)
	}
}
