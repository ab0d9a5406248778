package client

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

// Game is the session API the client drives.
type Game interface {
	Advance(dt time.Duration, in session.Intents)
	Start()
	TogglePause()
	Reset()
	SetBest(best int)
	Phase() session.Phase
	Events() []session.Event
	SnapshotInto(dst *session.Snapshot)
}

// Compile-time check that Session implements Game.
var _ Game = (*session.Session)(nil)

// Client handles rendering and input for a single terminal.
type Client struct {
	game         Game
	store        store.Store
	profile      string
	audio        audio.Player
	logger       *log.Logger
	state        *ClientState
	snap         session.Snapshot
	clock        session.Clock
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	shake        *rand.Rand // Camera jitter only
}

// ClientOptions configures the client. Zero values select defaults.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Profile      string       // Store key; "local" when empty
	Store        store.Store  // In-memory when nil
	Audio        audio.Player // Silent when nil, unless Bell is set
	Bell         bool         // Ring the terminal bell for sound cues
	Logger       *log.Logger
	Game         Game // A fresh session when nil
}

// NewClient creates a client reading keys from r and drawing to w.
// Stored settings and best score are loaded for the profile; failures are
// logged and the defaults are used instead.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	profile := opts.Profile
	if profile == "" {
		profile = "local"
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	game := opts.Game
	if game == nil {
		game = session.New(session.Options{})
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	player := opts.Audio
	switch {
	case player != nil:
	case opts.Bell:
		player = audio.NewBell(chunkWriter)
	default:
		player = audio.Nop{}
	}

	settings, err := st.LoadSettings(profile)
	if err != nil {
		logger.Warn("Failed to load settings", "profile", profile, "err", err)
	}
	best, err := st.LoadBest(profile)
	if err != nil {
		logger.Warn("Failed to load best score", "profile", profile, "err", err)
	}
	game.SetBest(best)

	return &Client{
		game:         game,
		store:        st,
		profile:      profile,
		audio:        player,
		logger:       logger,
		state:        NewClientState(settings),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		shake:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run starts the client loop. Blocks until the player quits, the input ends
// or the shutdown notice triggered by ctx has run out.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.state.Running {
		frameStart := time.Now()

		c.processInput()
		c.checkShutdown(ctx)
		c.updateScreen()
		c.handleCommands()

		dt := c.clock.Tick(frameStart)
		c.game.Advance(dt, c.intents())
		c.processEvents()
		c.state.tickToast(dt)
		if c.state.shuttingDown {
			c.state.shutdownTimer -= dt.Seconds()
			if c.state.shutdownTimer <= 0 {
				c.state.Running = false
			}
		}

		c.game.SnapshotInto(&c.snap)
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Closed || c.state.Input.Quit {
		c.state.Running = false
	}

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}
}

// checkShutdown switches to the shutdown notice once ctx is cancelled.
func (c *Client) checkShutdown(ctx context.Context) {
	if c.state.shuttingDown {
		return
	}
	select {
	case <-ctx.Done():
		c.state.shuttingDown = true
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
		c.state.OptionsOpen = false
		if c.game.Phase() == session.PhaseRunning {
			c.game.TogglePause()
		}
	default:
	}
}

// handleCommands applies this frame's edge-triggered keys.
func (c *Client) handleCommands() {
	in := c.state.Input
	if c.state.shuttingDown {
		return
	}

	if c.state.OptionsOpen {
		switch {
		case in.Number >= 1 && in.Number <= len(store.SettingLabels):
			c.state.pending.Toggle(in.Number)
		case in.Enter:
			c.saveSettings()
			c.state.OptionsOpen = false
		case in.Escape || in.Options:
			c.state.OptionsOpen = false
		}
		return
	}

	wasPaused := c.game.Phase() == session.PhasePaused
	switch {
	case in.Options:
		if c.game.Phase() == session.PhaseRunning {
			c.game.TogglePause()
		}
		c.state.pending = c.state.Settings
		c.state.OptionsOpen = true
	case in.Start:
		c.game.Start()
	case in.Pause:
		c.game.TogglePause()
	case in.Reset:
		c.game.Reset()
	}
	if wasPaused && c.game.Phase() == session.PhaseRunning {
		c.clock.Reset()
	}
}

// saveSettings applies the modal edits and persists them.
func (c *Client) saveSettings() {
	c.state.Settings = c.state.pending
	if err := c.store.SaveSettings(c.profile, c.state.Settings); err != nil {
		c.logger.Warn("Failed to save settings", "profile", c.profile, "err", err)
		c.state.showToast("Settings not saved", config.ToastDuration)
	}
}

// intents converts held keys to movement intents. Nothing moves while the
// settings modal is open.
func (c *Client) intents() session.Intents {
	if c.state.OptionsOpen {
		return 0
	}
	var in session.Intents
	if c.state.Input.Left {
		in |= session.IntentLeft
	}
	if c.state.Input.Right {
		in |= session.IntentRight
	}
	return in
}

// processEvents reacts to the session's events with sounds, toasts and saves.
func (c *Client) processEvents() {
	for _, ev := range c.game.Events() {
		if c.state.Settings.SFX {
			if cue, ok := audio.ForEvent(ev); ok {
				c.audio.Play(cue)
			}
		}

		switch ev.Kind {
		case session.EventCountdown:
			input.ResetKeyInput(c.inputStream)
		case session.EventPickup:
			if ev.Pickup == object.PowerUpShield {
				c.state.showToast("Shield!", config.ToastDuration)
			} else {
				c.state.showToast("Slow-mo!", config.ToastDuration)
			}
		case session.EventGameOver:
			if !ev.NewBest {
				continue
			}
			if err := c.store.SaveBest(c.profile, ev.Best); err != nil {
				c.logger.Warn("Failed to save best score", "profile", c.profile, "err", err)
				c.state.showToast("Best score not saved", config.ToastDuration)
			}
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
