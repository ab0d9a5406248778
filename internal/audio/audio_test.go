package audio

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
)

const testRate = beep.SampleRate(1000)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 64)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	require.NoError(t, s.Err())
	return out
}

func TestToneLengthMatchesDuration(t *testing.T) {
	samples := drain(t, NewTone(Cue{Wave: WaveSine, Freq: 50, Duration: 100 * time.Millisecond, Volume: 0.5}, testRate))
	assert.Len(t, samples, 100)
}

func TestToneFadesOut(t *testing.T) {
	c := Cue{Wave: WaveSquare, Freq: 10, Duration: 200 * time.Millisecond, Volume: 0.5}
	samples := drain(t, NewTone(c, testRate))
	require.Len(t, samples, 200)

	assert.Equal(t, 0.5, samples[0][0])
	assert.Equal(t, samples[0][0], samples[0][1], "mono")
	last := math.Abs(samples[len(samples)-1][0])
	assert.Less(t, last, 0.001)
	for i := 1; i < len(samples); i++ {
		assert.LessOrEqual(t, math.Abs(samples[i][0]), math.Abs(samples[i-1][0])+1e-12)
	}
}

func TestWaveShapesStayInRange(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSaw, WaveTriangle} {
		samples := drain(t, NewTone(Cue{Wave: w, Freq: 37, Duration: 300 * time.Millisecond, Volume: 1}, testRate))
		for _, s := range samples {
			assert.LessOrEqual(t, math.Abs(s[0]), 1.0, w.String())
		}
	}
}

func TestToneEndsCleanly(t *testing.T) {
	s := NewTone(Cue{Wave: WaveSine, Freq: 50, Duration: 10 * time.Millisecond, Volume: 0.5}, testRate)
	buf := make([][2]float64, 64)
	n, ok := s.Stream(buf)
	assert.Equal(t, 10, n)
	assert.True(t, ok)

	n, ok = s.Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
}

func TestWaveNames(t *testing.T) {
	assert.Equal(t, "sine", WaveSine.String())
	assert.Equal(t, "square", WaveSquare.String())
	assert.Equal(t, "sawtooth", WaveSaw.String())
	assert.Equal(t, "triangle", WaveTriangle.String())
}

func TestForEvent(t *testing.T) {
	cases := []struct {
		ev   session.Event
		want Cue
	}{
		{session.Event{Kind: session.EventCountdown}, CueStart},
		{session.Event{Kind: session.EventPaused}, CuePause},
		{session.Event{Kind: session.EventResumed}, CueResume},
		{session.Event{Kind: session.EventResumed, ViaStart: true}, CueStartResumed},
		{session.Event{Kind: session.EventGameOver}, CueGameOver},
		{session.Event{Kind: session.EventShieldAbsorbed}, CueAbsorb},
		{session.Event{Kind: session.EventPickup, Pickup: object.PowerUpShield}, CueShield},
		{session.Event{Kind: session.EventPickup, Pickup: object.PowerUpSlow}, CueSlow},
	}
	for _, tc := range cases {
		got, ok := ForEvent(tc.ev)
		assert.True(t, ok, tc.ev.Kind.String())
		assert.Equal(t, tc.want, got, tc.ev.Kind.String())
	}

	_, ok := ForEvent(session.Event{Kind: session.EventRunStarted})
	assert.False(t, ok)
	_, ok = ForEvent(session.Event{Kind: session.EventReset})
	assert.False(t, ok)
}

func TestBellRings(t *testing.T) {
	var buf bytes.Buffer
	NewBell(&buf).Play(CueGameOver)
	assert.Equal(t, "\a", buf.String())
	Nop{}.Play(CueGameOver)
}

// The SSH and web servers import this package; the sound device backend
// needs cgo and must stay out of it.
func TestPackageDoesNotImportSpeaker(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotEqual(t, "github.com/gopxl/beep/speaker", path, name)
		}
	}
}

func TestCuesAreDocumented(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "cues.go", nil, parser.ParseComments)
	require.NoError(t, err)

	var names []string
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for _, id := range vs.Names {
				if id.IsExported() {
					names = append(names, id.Name)
					assert.NotNil(t, vs.Doc, "%s has no doc comment", id.Name)
				}
			}
		}
	}
	assert.Contains(t, names, "CueStart")
}
