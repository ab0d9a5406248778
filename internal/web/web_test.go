package web

import (
	"bytes"
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
)

// quietGame never spawns, so a run lasts until the test ends it.
func quietGame() *session.Session {
	tn := config.DefaultTuning()
	tn.SpawnInterval = math.Inf(1)
	tn.MilestoneStep = math.Inf(1)
	tn.PowerUpChance = 0
	return session.New(session.Options{Tuning: &tn, Rand: rand.New(rand.NewSource(1))})
}

type testServer struct {
	url    string
	store  *store.MemoryStore
	cancel context.CancelFunc
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	st := store.NewMemoryStore()
	h := NewHandler(HandlerOptions{
		Store:   st,
		Logger:  log.New(io.Discard),
		NewGame: quietGame,
		Context: ctx,
	})
	srv := httptest.NewServer(NewMux(h, "play.example.com"))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &testServer{url: srv.URL, store: st, cancel: cancel}
}

func (s *testServer) dial(t *testing.T, profile string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.url, "http") + "/ws?profile=" + profile
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func write(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	b, err := Encode(typ, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, b))
}

// readUntil reads messages until one of type typ satisfies match.
func readUntil[T any](t *testing.T, conn *websocket.Conn, typ string, match func(T) bool) T {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		env, err := DecodeEnvelope(msg)
		require.NoError(t, err)
		if env.T != typ {
			continue
		}
		v, err := DecodePayload[T](env)
		require.NoError(t, err)
		if match == nil || match(v) {
			return v
		}
	}
}

func TestEncodeAndDecode(t *testing.T) {
	b, err := Encode(MsgKeys, Keys{Left: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"keys","p":{"left":true,"right":false}}`, string(b))

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	keys, err := DecodePayload[Keys](env)
	require.NoError(t, err)
	assert.Equal(t, Keys{Left: true}, keys)

	b, err = Encode(MsgStart, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"start"}`, string(b))

	env, err = DecodeEnvelope(b)
	require.NoError(t, err)
	_, err = DecodePayload[Keys](env)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = DecodeEnvelope(nil)
	assert.Error(t, err)
	_, err = DecodeEnvelope([]byte(`{"p":{}}`))
	assert.Error(t, err)
	_, err = Encode("", nil)
	assert.Error(t, err)
}

func TestDecodeIntoKeepsMissingFields(t *testing.T) {
	s := store.DefaultSettings()
	require.NoError(t, DecodeInto(Envelope{T: MsgSettings, P: []byte(`{"sfx":false}`)}, &s))
	assert.True(t, s.Particles)
	assert.False(t, s.SFX)
}

func TestFillFrameHonorsSettings(t *testing.T) {
	game := quietGame()
	game.Start()
	for game.Phase() == session.PhaseStarting {
		game.Advance(config.MaxDelta, 0)
	}
	for i := 0; i < 5; i++ {
		game.Advance(16*time.Millisecond, session.IntentLeft)
	}
	snap := game.Snapshot()
	snap.Shake = 4
	require.NotEmpty(t, snap.Particles)

	var f Frame
	fillFrame(&f, snap, store.DefaultSettings())
	assert.Equal(t, "running", f.Phase)
	assert.Len(t, f.Particles, len(snap.Particles))
	assert.Len(t, f.Stars, config.StarCount)
	assert.Equal(t, 4.0, f.Shake)
	assert.Equal(t, snap.Player.X, f.Player.X)

	f.Sounds = append(f.Sounds, Sound{})
	fillFrame(&f, snap, store.Settings{})
	assert.Empty(t, f.Particles)
	assert.Zero(t, f.Shake)
	assert.Empty(t, f.Sounds, "per-tick fields are cleared")
}

func TestHelloCarriesStoredProfile(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.store.SaveBest("alice", 42))
	require.NoError(t, srv.store.SaveSettings("alice", store.Settings{TouchControls: true}))

	conn := srv.dial(t, "alice")
	hello := readUntil[Hello](t, conn, MsgHello, nil)
	assert.Equal(t, "alice", hello.Profile)
	assert.Equal(t, 42, hello.Best)
	assert.Equal(t, store.Settings{TouchControls: true}, hello.Settings)
	assert.Equal(t, config.FieldWidth, hello.Width)
	assert.Equal(t, config.FieldHeight, hello.Height)

	frame := readUntil[Frame](t, conn, MsgFrame, nil)
	assert.Equal(t, "idle", frame.Phase)
	assert.Equal(t, 42, frame.Best)
}

func TestInvalidProfileRejected(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.url, "http") + "/ws?profile=..%2Fetc"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartSendsCountdownWithSound(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "bob")
	readUntil[Hello](t, conn, MsgHello, nil)

	write(t, conn, MsgStart, nil)
	frame := readUntil(t, conn, MsgFrame, func(f Frame) bool { return len(f.Events) > 0 })

	assert.Equal(t, "starting", frame.Phase)
	assert.Equal(t, 3, frame.Countdown)
	assert.Equal(t, "countdown", frame.Events[0].Kind)
	require.Len(t, frame.Sounds, 1)
	assert.Equal(t, "triangle", frame.Sounds[0].Wave)
	assert.Equal(t, 660.0, frame.Sounds[0].Freq)
	assert.InDelta(t, 0.12, frame.Sounds[0].Duration, 1e-9)
}

func TestMutedProfileGetsNoSounds(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.store.SaveSettings("quiet", store.Settings{}))
	conn := srv.dial(t, "quiet")

	write(t, conn, MsgStart, nil)
	frame := readUntil(t, conn, MsgFrame, func(f Frame) bool { return len(f.Events) > 0 })
	assert.Empty(t, frame.Sounds)
}

func TestMalformedMessagesAreIgnored(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "carol")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("nonsense")))
	write(t, conn, "bogus", map[string]int{"x": 1})
	write(t, conn, MsgKeys, nil)
	write(t, conn, MsgStart, nil)

	frame := readUntil(t, conn, MsgFrame, func(f Frame) bool { return len(f.Events) > 0 })
	assert.Equal(t, "countdown", frame.Events[0].Kind)
}

func TestSettingsAreSavedAndEchoed(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "dave")
	readUntil[Hello](t, conn, MsgHello, nil)

	write(t, conn, MsgOptions, Options{Open: true})
	write(t, conn, MsgSettings, map[string]bool{"sfx": false, "mirroredControls": true})

	echoed := readUntil[store.Settings](t, conn, MsgSettings, nil)
	want := store.DefaultSettings()
	want.SFX = false
	want.MirroredControls = true
	assert.Equal(t, want, echoed)

	saved, err := srv.store.LoadSettings("dave")
	require.NoError(t, err)
	assert.Equal(t, want, saved)
}

func TestCommandsIgnoredWhileOptionsOpen(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "erin")

	write(t, conn, MsgOptions, Options{Open: true})
	write(t, conn, MsgStart, nil)
	write(t, conn, MsgOptions, Options{Open: false})

	// Frames keep coming and the game never left idle.
	for i := 0; i < 10; i++ {
		frame := readUntil[Frame](t, conn, MsgFrame, nil)
		assert.Equal(t, "idle", frame.Phase)
		assert.Empty(t, frame.Events)
	}
}

func TestKeysMovePlayer(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "frank")
	start := readUntil[Frame](t, conn, MsgFrame, nil).Player.X

	write(t, conn, MsgStart, nil)
	readUntil(t, conn, MsgFrame, func(f Frame) bool { return f.Phase == "running" })
	write(t, conn, MsgKeys, Keys{Left: true})

	frame := readUntil(t, conn, MsgFrame, func(f Frame) bool { return f.Player.X < start-20 })
	assert.Equal(t, "running", frame.Phase)
	assert.Positive(t, frame.Score)
}

func TestShutdownNotifiesAndCloses(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "gina")
	readUntil[Hello](t, conn, MsgHello, nil)

	srv.cancel()
	notice := readUntil[Notice](t, conn, MsgShutdown, nil)
	assert.Contains(t, notice.Text, "restarting")

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestPageIsServed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.url + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body.String(), "Dodge the Blocks")
	assert.Contains(t, body.String(), "ssh play.example.com")
	assert.NotContains(t, body.String(), "{{.SSHHost}}")
}
