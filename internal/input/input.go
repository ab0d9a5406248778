package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key is considered "held" after its
// last press. Terminals report no key releases, only auto-repeat, so the
// window has to bridge the gap between repeats.
const keyHoldDuration = 120 * time.Millisecond

// escapeTimeout is how long a trailing ESC or ESC [ waits for the rest of an
// arrow sequence before it counts as a bare Escape.
const escapeTimeout = 50 * time.Millisecond

// Input represents the current frame's input state.
// Left and Right are held intents; the remaining fields are commands that are
// true only on the frame their key arrived.
type Input struct {
	Left  bool
	Right bool

	Quit    bool
	Start   bool // Space
	Pause   bool
	Reset   bool
	Options bool
	Enter   bool
	Escape  bool
	Number  int // Digit pressed this frame, -1 if none
	Pressed []byte
	Closed  bool // The reader has ended; no more input will arrive
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state for held keys.
type Stream struct {
	ch    chan byte
	state keyState
	now   func() time.Time

	// pending holds an unfinished escape sequence from an earlier read.
	pending   []byte
	pendingAt time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	since := s.pendingAt
	s.pending, s.pendingAt = nil, time.Time{}
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	expired := !since.IsZero() && now.Sub(since) >= escapeTimeout
	in := Input{Number: -1, Closed: closed}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && !closed && !expired && partialCSI(buf[i:]) {
			s.pending = append([]byte(nil), buf[i:]...)
			s.pendingAt = now
			if i == 0 && !since.IsZero() {
				s.pendingAt = since
			}
			buf = buf[:i]
			break
		}

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case 'A', 'B': // Up/down arrows are not used
				i += 2
				continue
			}
		}

		applyByte(&s.state, &in, b, now)
	}

	in.Pressed = buf
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}

// partialCSI reports whether seq is ESC or ESC [ with nothing after it.
func partialCSI(seq []byte) bool {
	return len(seq) == 1 || (len(seq) == 2 && seq[1] == '[')
}

// ResetKeyInput forgets held keys, e.g. when a new run starts.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// applyByte updates held-key timestamps and this frame's commands.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'q', 'Q', 0x03: // 0x03 is Ctrl+C in raw mode
		in.Quit = true
	case ' ':
		in.Start = true
	case 'p', 'P':
		in.Pause = true
	case 'r', 'R':
		in.Reset = true
	case 'o', 'O':
		in.Options = true
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}
