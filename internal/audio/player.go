package audio

import (
	"io"

	"github.com/tomz197/dodge/internal/draw"
)

// Player plays cues. Play must not block the frame loop.
type Player interface {
	Play(c Cue)
}

// Bell rings the terminal bell for every cue; used over SSH where there is
// no sound device on the player's side.
type Bell struct {
	w io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play rings the bell.
func (b *Bell) Play(Cue) {
	draw.Bell(b.w)
}

// Nop discards cues.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}
