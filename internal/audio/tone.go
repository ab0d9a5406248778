// Package audio plays the game's short synthesized sound cues.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave defines oscillator wave shapes.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// String returns the WebAudio oscillator type name.
func (w Wave) String() string {
	switch w {
	case WaveSquare:
		return "square"
	case WaveSaw:
		return "sawtooth"
	case WaveTriangle:
		return "triangle"
	default:
		return "sine"
	}
}

// silence is the gain a tone fades down to by its end.
const silence = 0.0001

// tone is a single oscillator whose gain falls exponentially from its
// starting volume to silence over its duration.
type tone struct {
	wave  Wave
	freq  float64
	rate  beep.SampleRate
	phase float64

	position int
	duration int

	gain  float64
	decay float64 // Per-sample gain multiplier
}

// NewTone creates a streamer for the given cue.
func NewTone(c Cue, rate beep.SampleRate) beep.Streamer {
	samples := rate.N(c.Duration)
	if samples < 1 {
		samples = 1
	}
	decay := 1.0
	if c.Volume > silence {
		decay = math.Pow(silence/c.Volume, 1/float64(samples))
	}
	return &tone{
		wave:     c.Wave,
		freq:     c.Freq,
		rate:     rate,
		duration: samples,
		gain:     c.Volume,
		decay:    decay,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}

		var val float64
		switch t.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			if t.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (t.phase - 0.5)
		case WaveTriangle:
			val = 1 - 4*math.Abs(t.phase-0.5)
		}
		val *= t.gain

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.gain *= t.decay
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Cue describes one sound effect.
type Cue struct {
	Wave     Wave
	Freq     float64 // Hz
	Duration time.Duration
	Volume   float64 // Starting gain, 0..1
}
