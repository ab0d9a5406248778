package web

import (
	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
)

// fillFrame converts a snapshot to its wire form, reusing dst's slices.
// Effects the player turned off are left out so they cost no bandwidth.
func fillFrame(dst *Frame, snap *session.Snapshot, settings store.Settings) {
	dst.Phase = snap.Phase.String()
	dst.Countdown = snap.Countdown
	dst.Score = int(snap.Score)
	dst.Best = snap.Best
	dst.Multiplier = snap.Multiplier
	dst.Shield = snap.Shield > 0
	dst.Slow = snap.Slow > 0
	dst.Shake = 0
	if settings.Shake {
		dst.Shake = snap.Shake
	}
	dst.Elapsed = snap.Elapsed

	p := snap.Player
	dst.Player = Box{X: p.X, Y: p.Y, W: p.W, H: p.H}

	dst.Obstacles = dst.Obstacles[:0]
	for _, o := range snap.Obstacles {
		dst.Obstacles = append(dst.Obstacles, Block{
			Box: Box{X: o.X, Y: o.Y, W: o.W, H: o.H},
			Rot: o.Rot,
			Hue: o.Hue,
		})
	}

	dst.PowerUps = dst.PowerUps[:0]
	for _, u := range snap.PowerUps {
		dst.PowerUps = append(dst.PowerUps, Pickup{
			Box:  Box{X: u.X, Y: u.Y, W: u.W, H: u.H},
			Rot:  u.Rot,
			Kind: u.Kind.String(),
			Hue:  u.Kind.Hue(),
		})
	}

	dst.Particles = dst.Particles[:0]
	if settings.Particles {
		for _, q := range snap.Particles {
			dst.Particles = append(dst.Particles, Spark{
				X:   q.X,
				Y:   q.Y,
				Hue: q.Hue,
				A:   max(0, q.Life/config.ParticleMaxLife),
			})
		}
	}

	dst.Stars = dst.Stars[:0]
	for _, s := range snap.Stars {
		dst.Stars = append(dst.Stars, Dot{X: s.X, Y: s.Y, Size: s.Size, Alpha: s.Alpha})
	}

	dst.Events = dst.Events[:0]
	dst.Sounds = dst.Sounds[:0]
	dst.Toast = ""
}

// soundOf converts a cue to its WebAudio parameters.
func soundOf(c audio.Cue) Sound {
	return Sound{
		Wave:     c.Wave.String(),
		Freq:     c.Freq,
		Duration: c.Duration.Seconds(),
		Volume:   c.Volume,
	}
}
