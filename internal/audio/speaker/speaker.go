// Package speaker plays cues on the local sound device. It is kept apart from
// package audio so that servers never link the device backend.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/dodge/internal/audio"
)

const sampleRate = beep.SampleRate(48000)

// Speaker mixes cues onto the default output device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

var _ audio.Player = (*Speaker)(nil)

// New initializes the sound device.
func New() (*Speaker, error) {
	s := &Speaker{mixer: &beep.Mixer{}}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return s, nil
}

// Play mixes the cue into whatever is already playing.
func (s *Speaker) Play(c audio.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Add(audio.NewTone(c, sampleRate))
	speaker.Unlock()
}

// Close stops all sounds and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.initialized = false
}
