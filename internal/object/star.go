package object

import "github.com/tomz197/dodge/internal/draw"

// Star is a background dot drifting slowly; it wraps at the field edges.
type Star struct {
	X, Y   float64
	Size   float64
	Alpha  float64
	VX, VY float64
}

// NewStarfield scatters n stars over the field.
func NewStarfield(n int, field Screen, rng Rand) []Star {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:     Between(rng, 0, float64(field.Width)),
			Y:     Between(rng, 0, float64(field.Height)),
			Size:  float64(1 + i%3),
			Alpha: 0.05 + float64(i%6)/40,
			VX:    Between(rng, -0.03, 0.03),
			VY:    Between(rng, 0.02, 0.08),
		}
	}
	return stars
}

// Update drifts the star and wraps it around the field.
func (s *Star) Update(ctx UpdateContext) bool {
	s.X += s.VX * ctx.Frames
	s.Y += s.VY * ctx.Frames
	ctx.Field.WrapPosition(&s.X, &s.Y)
	return false
}

// Draw renders the star dimmed by its alpha.
func (s *Star) Draw(ctx DrawContext) {
	color := draw.ColorDark
	if s.Alpha > 0.1 {
		color = draw.ColorGray
	}
	ctx.Canvas.FillRect(s.X, s.Y, s.Size, s.Size, color)
}
