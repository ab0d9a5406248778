package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tomz197/dodge/internal/store"
)

// Message types sent by the page.
const (
	MsgKeys     = "keys"
	MsgStart    = "start"
	MsgPause    = "pause"
	MsgReset    = "reset"
	MsgOptions  = "options"
	MsgSettings = "settings"
)

// Message types sent to the page. MsgSettings is echoed back after a save.
const (
	MsgHello    = "hello"
	MsgFrame    = "frame"
	MsgToast    = "toast"
	MsgShutdown = "shutdown"
)

// ErrEmptyPayload is returned when a message that needs a payload has none.
var ErrEmptyPayload = errors.New("empty payload")

// Envelope wraps every message in both directions.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Encode wraps payload in an envelope of type t. A nil payload is allowed
// for bare commands.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("encode: empty message type")
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		raw = b
	}
	return json.Marshal(Envelope{T: t, P: raw})
}

// DecodeEnvelope parses the outer envelope of a message.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode: %w", err)
	}
	if e.T == "" {
		return Envelope{}, errors.New("decode: missing message type")
	}
	return e, nil
}

// DecodePayload parses the payload of env into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	err := DecodeInto(env, &out)
	return out, err
}

// DecodeInto parses the payload of env over out; fields missing from the
// payload keep their current values.
func DecodeInto(env Envelope, out any) error {
	if len(env.P) == 0 {
		return fmt.Errorf("%s: %w", env.T, ErrEmptyPayload)
	}
	if err := json.Unmarshal(env.P, out); err != nil {
		return fmt.Errorf("%s: %w", env.T, err)
	}
	return nil
}

// Keys is the held movement keys, sent whenever they change.
type Keys struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Options reports the settings dialog opening or being cancelled.
type Options struct {
	Open bool `json:"open"`
}

// Hello is the first message of every connection.
type Hello struct {
	Profile  string         `json:"profile"`
	Best     int            `json:"best"`
	Settings store.Settings `json:"settings"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	TickHz   int            `json:"tickHz"`
}

// Toast is a short message for the player.
type Toast struct {
	Text string `json:"text"`
}

// Notice tells the page the server is going away.
type Notice struct {
	Text string `json:"text"`
}

// Frame is one rendered tick.
type Frame struct {
	Phase      string  `json:"phase"`
	Countdown  int     `json:"countdown,omitempty"`
	Score      int     `json:"score"`
	Best       int     `json:"best"`
	Multiplier float64 `json:"mult"`
	Shield     bool    `json:"shield"`
	Slow       bool    `json:"slow"`
	Shake      float64 `json:"shake"`
	Elapsed    float64 `json:"t"`

	Player    Box      `json:"player"`
	Obstacles []Block  `json:"obstacles"`
	PowerUps  []Pickup `json:"powerups"`
	Particles []Spark  `json:"particles"`
	Stars     []Dot    `json:"stars"`

	Events []EventView `json:"events,omitempty"`
	Sounds []Sound     `json:"sounds,omitempty"`
	Toast  string      `json:"toast,omitempty"`
}

// Box is an axis-aligned rectangle.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Block is an obstacle.
type Block struct {
	Box
	Rot float64 `json:"rot"`
	Hue float64 `json:"hue"`
}

// Pickup is a power-up.
type Pickup struct {
	Box
	Rot  float64 `json:"rot"`
	Kind string  `json:"kind"`
	Hue  float64 `json:"hue"`
}

// Spark is a particle; A is its remaining life fraction.
type Spark struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Hue float64 `json:"hue"`
	A   float64 `json:"a"`
}

// Dot is a background star.
type Dot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"s"`
	Alpha float64 `json:"a"`
}

// EventView is a session event the page may react to.
type EventView struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Sound is a cue for the page's WebAudio oscillator.
type Sound struct {
	Wave     string  `json:"wave"`
	Freq     float64 `json:"freq"`
	Duration float64 `json:"dur"` // Seconds
	Volume   float64 `json:"vol"`
}
