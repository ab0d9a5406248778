package web

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

const shutdownText = "The server is restarting for maintenance. Please reconnect in a moment."

// player drives one session for one websocket. All methods run on the
// connection's frame goroutine.
type player struct {
	ws      *websocket.Conn
	game    *session.Session
	store   store.Store
	profile string
	logger  *log.Logger

	settings    store.Settings
	optionsOpen bool
	keys        Keys

	clock session.Clock
	snap  session.Snapshot
	frame Frame
}

func newPlayer(ws *websocket.Conn, game *session.Session, st store.Store, profile string, logger *log.Logger) *player {
	settings, err := st.LoadSettings(profile)
	if err != nil {
		logger.Warn("Failed to load settings", "err", err)
	}
	best, err := st.LoadBest(profile)
	if err != nil {
		logger.Warn("Failed to load best score", "err", err)
	}
	game.SetBest(best)

	return &player{
		ws:       ws,
		game:     game,
		store:    st,
		profile:  profile,
		logger:   logger,
		settings: settings,
	}
}

// run greets the page, then ticks the session and streams frames until the
// page leaves, a write fails or ctx is cancelled.
func (p *player) run(ctx context.Context, inbox <-chan Envelope) error {
	field := p.game.Field()
	hello := Hello{
		Profile:  p.profile,
		Best:     p.game.Best(),
		Settings: p.settings,
		Width:    field.Width,
		Height:   field.Height,
		TickHz:   config.ClientTargetFPS,
	}
	if err := p.send(MsgHello, hello); err != nil {
		return err
	}

	tick := time.NewTicker(config.ClientTargetFrameTime)
	defer tick.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.shutdown()
		case env, ok := <-inbox:
			if !ok {
				return nil
			}
			if err := p.handle(env); err != nil {
				return err
			}
		case now := <-tick.C:
			if err := p.step(now); err != nil {
				return err
			}
		case <-ping.C:
			if err := p.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

// handle applies one message from the page. Unknown or malformed messages
// are ignored.
func (p *player) handle(env Envelope) error {
	switch env.T {
	case MsgKeys:
		keys, err := DecodePayload[Keys](env)
		if err != nil {
			p.logger.Debug("Bad keys message", "err", err)
			return nil
		}
		p.keys = keys

	case MsgOptions:
		opt, err := DecodePayload[Options](env)
		if err != nil {
			p.logger.Debug("Bad options message", "err", err)
			return nil
		}
		if opt.Open && p.game.Phase() == session.PhaseRunning {
			p.game.TogglePause()
		}
		p.optionsOpen = opt.Open

	case MsgSettings:
		settings := p.settings
		if err := DecodeInto(env, &settings); err != nil {
			p.logger.Debug("Bad settings message", "err", err)
			return nil
		}
		p.optionsOpen = false
		p.settings = settings
		if err := p.store.SaveSettings(p.profile, settings); err != nil {
			p.logger.Warn("Failed to save settings", "err", err)
			return p.send(MsgToast, Toast{Text: "Settings not saved"})
		}
		return p.send(MsgSettings, settings)

	case MsgStart, MsgPause, MsgReset:
		if p.optionsOpen {
			return nil
		}
		wasPaused := p.game.Phase() == session.PhasePaused
		switch env.T {
		case MsgStart:
			p.game.Start()
		case MsgPause:
			p.game.TogglePause()
		case MsgReset:
			p.game.Reset()
		}
		if wasPaused && p.game.Phase() == session.PhaseRunning {
			p.clock.Reset()
		}

	default:
		p.logger.Debug("Ignoring message", "type", env.T)
	}
	return nil
}

// step advances the session by the wall time since the last tick and sends
// the resulting frame.
func (p *player) step(now time.Time) error {
	dt := p.clock.Tick(now)
	p.game.Advance(dt, p.intents())

	p.game.SnapshotInto(&p.snap)
	fillFrame(&p.frame, &p.snap, p.settings)
	p.processEvents()
	return p.send(MsgFrame, &p.frame)
}

// intents converts held keys to movement intents. Nothing moves while the
// settings dialog is open.
func (p *player) intents() session.Intents {
	if p.optionsOpen {
		return 0
	}
	var in session.Intents
	if p.keys.Left {
		in |= session.IntentLeft
	}
	if p.keys.Right {
		in |= session.IntentRight
	}
	return in
}

// processEvents attaches this tick's events, sounds and toast to the frame
// and saves a new best score.
func (p *player) processEvents() {
	for _, ev := range p.game.Events() {
		p.frame.Events = append(p.frame.Events, EventView{Kind: ev.Kind.String(), X: ev.X, Y: ev.Y})
		if p.settings.SFX {
			if cue, ok := audio.ForEvent(ev); ok {
				p.frame.Sounds = append(p.frame.Sounds, soundOf(cue))
			}
		}

		switch ev.Kind {
		case session.EventPickup:
			if ev.Pickup == object.PowerUpShield {
				p.frame.Toast = "Shield!"
			} else {
				p.frame.Toast = "Slow-mo!"
			}
		case session.EventGameOver:
			if !ev.NewBest {
				continue
			}
			if err := p.store.SaveBest(p.profile, ev.Best); err != nil {
				p.logger.Warn("Failed to save best score", "err", err)
				p.frame.Toast = "Best score not saved"
			}
		}
	}
}

// shutdown pauses the run, tells the page why and closes the connection.
func (p *player) shutdown() error {
	if p.game.Phase() == session.PhaseRunning {
		p.game.TogglePause()
	}
	if err := p.send(MsgShutdown, Notice{Text: shutdownText}); err != nil {
		return err
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = p.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	return nil
}

// send writes one message with a write deadline.
func (p *player) send(t string, payload any) error {
	b, err := Encode(t, payload)
	if err != nil {
		return err
	}
	_ = p.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := p.ws.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return nil
}
