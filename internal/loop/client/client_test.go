package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

// fakeGame records calls and replays queued events.
type fakeGame struct {
	phase   session.Phase
	best    int
	events  []session.Event
	intents []session.Intents
	calls   []string
}

func (g *fakeGame) Advance(_ time.Duration, in session.Intents) { g.intents = append(g.intents, in) }
func (g *fakeGame) Start()                                      { g.calls = append(g.calls, "start") }
func (g *fakeGame) Reset()                                      { g.calls = append(g.calls, "reset") }
func (g *fakeGame) SetBest(best int)                            { g.best = best }
func (g *fakeGame) Phase() session.Phase                        { return g.phase }

func (g *fakeGame) TogglePause() {
	g.calls = append(g.calls, "pause")
	switch g.phase {
	case session.PhaseRunning:
		g.phase = session.PhasePaused
	case session.PhasePaused:
		g.phase = session.PhaseRunning
	}
}

func (g *fakeGame) Events() []session.Event {
	out := g.events
	g.events = nil
	return out
}

func (g *fakeGame) SnapshotInto(dst *session.Snapshot) {
	dst.Phase = g.phase
	dst.Best = g.best
	dst.Multiplier = 1
}

// recorder collects played cues.
type recorder struct {
	cues []audio.Cue
}

func (r *recorder) Play(c audio.Cue) { r.cues = append(r.cues, c) }

// failingStore refuses every save.
type failingStore struct{}

func (failingStore) SaveSettings(string, store.Settings) error { return errors.New("disk full") }
func (failingStore) SaveBest(string, int) error                { return errors.New("disk full") }
func (failingStore) LoadBest(string) (int, error)              { return 0, nil }

func (failingStore) LoadSettings(string) (store.Settings, error) {
	return store.DefaultSettings(), nil
}

type testClient struct {
	*Client
	game  *fakeGame
	store store.Store
	audio *recorder
	out   *bytes.Buffer
}

func newTestClient(t *testing.T, st store.Store) *testClient {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	game := &fakeGame{}
	rec := &recorder{}
	var out bytes.Buffer
	c := NewClient(bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 80, 40, nil },
		Profile:      "tester",
		Store:        st,
		Audio:        rec,
		Logger:       log.New(&bytes.Buffer{}),
		Game:         game,
	})
	return &testClient{Client: c, game: game, store: st, audio: rec, out: &out}
}

func press(c *testClient, in input.Input) {
	if in.Number == 0 {
		in.Number = -1
	}
	c.state.Input = in
	c.handleCommands()
}

func TestNewClientLoadsProfile(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveBest("tester", 88))
	require.NoError(t, st.SaveSettings("tester", store.Settings{SFX: true}))

	c := newTestClient(t, st)
	assert.Equal(t, 88, c.game.best)
	assert.Equal(t, store.Settings{SFX: true}, c.state.Settings)
}

func TestCommandsDriveGame(t *testing.T) {
	c := newTestClient(t, nil)
	press(c, input.Input{Start: true})
	press(c, input.Input{Pause: true})
	press(c, input.Input{Reset: true})
	assert.Equal(t, []string{"start", "pause", "reset"}, c.game.calls)
}

func TestOptionsModalSavesOnConfirm(t *testing.T) {
	c := newTestClient(t, nil)
	c.game.phase = session.PhaseRunning

	press(c, input.Input{Options: true})
	require.True(t, c.state.OptionsOpen)
	assert.Equal(t, session.PhasePaused, c.game.phase, "opening options pauses the run")

	press(c, input.Input{Number: 4})
	press(c, input.Input{Number: 1})
	press(c, input.Input{Start: true})
	assert.Equal(t, []string{"pause"}, c.game.calls, "game keys are ignored while the modal is open")
	assert.True(t, c.state.Settings.Particles, "edits apply only on confirm")

	press(c, input.Input{Enter: true})
	assert.False(t, c.state.OptionsOpen)
	assert.False(t, c.state.Settings.Particles)
	assert.True(t, c.state.Settings.HighContrastHUD)

	saved, err := c.store.LoadSettings("tester")
	require.NoError(t, err)
	assert.Equal(t, c.state.Settings, saved)
}

func TestOptionsModalCancelDiscards(t *testing.T) {
	c := newTestClient(t, nil)
	press(c, input.Input{Options: true})
	press(c, input.Input{Number: 3})
	press(c, input.Input{Escape: true})

	assert.False(t, c.state.OptionsOpen)
	assert.Equal(t, store.DefaultSettings(), c.state.Settings)
}

func TestSaveFailureShowsToast(t *testing.T) {
	c := newTestClient(t, failingStore{})
	press(c, input.Input{Options: true})
	press(c, input.Input{Enter: true})
	assert.Equal(t, "Settings not saved", c.state.toast)
}

func TestIntents(t *testing.T) {
	c := newTestClient(t, nil)
	c.state.Input = input.Input{Left: true, Right: true}
	assert.Equal(t, session.IntentLeft|session.IntentRight, c.intents())

	c.state.OptionsOpen = true
	assert.Equal(t, session.Intents(0), c.intents())
}

func TestEventsPlayCuesAndShowToasts(t *testing.T) {
	c := newTestClient(t, nil)
	c.game.events = []session.Event{
		{Kind: session.EventCountdown},
		{Kind: session.EventRunStarted},
		{Kind: session.EventPickup, Pickup: object.PowerUpSlow},
	}
	c.processEvents()

	assert.Equal(t, []audio.Cue{audio.CueStart, audio.CueSlow}, c.audio.cues)
	assert.Equal(t, "Slow-mo!", c.state.toast)

	c.state.tickToast(time.Second)
	assert.Equal(t, "Slow-mo!", c.state.toast)
	c.state.tickToast(time.Second)
	assert.Empty(t, c.state.toast)
}

func TestMutedSettingsSkipCues(t *testing.T) {
	c := newTestClient(t, nil)
	c.state.Settings.SFX = false
	c.game.events = []session.Event{{Kind: session.EventPickup, Pickup: object.PowerUpShield}}
	c.processEvents()

	assert.Empty(t, c.audio.cues)
	assert.Equal(t, "Shield!", c.state.toast)
}

func TestNewBestIsSaved(t *testing.T) {
	c := newTestClient(t, nil)
	c.game.events = []session.Event{{Kind: session.EventGameOver, Score: 140, Best: 140, NewBest: true}}
	c.processEvents()

	best, err := c.store.LoadBest("tester")
	require.NoError(t, err)
	assert.Equal(t, 140, best)
	assert.Equal(t, []audio.Cue{audio.CueGameOver}, c.audio.cues)
}

func TestShutdownPausesAndCountsDown(t *testing.T) {
	c := newTestClient(t, nil)
	c.game.phase = session.PhaseRunning

	ctx, cancel := context.WithCancel(context.Background())
	c.checkShutdown(ctx)
	assert.False(t, c.state.shuttingDown)

	cancel()
	c.checkShutdown(ctx)
	assert.True(t, c.state.shuttingDown)
	assert.Equal(t, session.PhasePaused, c.game.phase)

	press(c, input.Input{Start: true})
	assert.Equal(t, []string{"pause"}, c.game.calls, "commands are ignored during shutdown")
}

func TestDrawFrameShowsOverlays(t *testing.T) {
	c := newTestClient(t, nil)

	c.game.SnapshotInto(&c.snap)
	require.NoError(t, c.drawFrame())
	assert.Contains(t, c.out.String(), "Dodge the Blocks")

	c.out.Reset()
	c.game.phase = session.PhaseGameOver
	c.game.best = 321
	c.game.SnapshotInto(&c.snap)
	require.NoError(t, c.drawFrame())
	assert.Contains(t, c.out.String(), "Game Over")
	assert.Contains(t, c.out.String(), "Best 321")

	c.out.Reset()
	c.state.OptionsOpen = true
	require.NoError(t, c.drawFrame())
	assert.Contains(t, c.out.String(), "High-contrast HUD")
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 100)
	assert.Equal(t, []int{96, 48, 52, 26}, []int{w, h, col, row})

	w, h, col, row = clampTermSize(60, 30)
	assert.Equal(t, []int{60, 30, 0, 0}, []int{w, h, col, row})
}
