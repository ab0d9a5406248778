package client

import (
	"time"

	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
)

// ClientState holds the terminal-side state around one game session:
// input, the settings modal, toasts and connection status.
type ClientState struct {
	Input   input.Input
	Running bool // Client loop running

	Settings    store.Settings
	OptionsOpen bool
	pending     store.Settings // Modal edits, applied on confirm

	toast     string
	toastLeft time.Duration

	isInactive    bool    // Whether the client is in inactive warning state
	shuttingDown  bool    // Server shutdown notice is showing
	shutdownTimer float64 // Seconds before auto-disconnect on shutdown

	// Previous-frame values for full-redraw detection
	prevPhase   session.Phase
	prevOptions bool
	wasInactive bool
	wasShutdown bool
}

// NewClientState creates a new initialized client state.
func NewClientState(settings store.Settings) *ClientState {
	return &ClientState{
		Running:   true,
		Settings:  settings,
		prevPhase: -1,
	}
}

// showToast displays a short message over the field.
func (s *ClientState) showToast(msg string, d time.Duration) {
	s.toast = msg
	s.toastLeft = d
}

// tickToast ages the toast by a wall-clock frame.
func (s *ClientState) tickToast(dt time.Duration) {
	if s.toastLeft <= 0 {
		return
	}
	s.toastLeft -= dt
	if s.toastLeft <= 0 {
		s.toastLeft = 0
		s.toast = ""
	}
}
