package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeCell(t *testing.T) {
	red := HueColor(0)
	blue := HueColor(230)

	assert.Equal(t, cell{ch: BlockEmpty}, composeCell(NoColor, NoColor))
	assert.Equal(t, cell{ch: BlockFull, fg: red}, composeCell(red, red))
	assert.Equal(t, cell{ch: BlockUpperHalf, fg: red}, composeCell(red, NoColor))
	assert.Equal(t, cell{ch: BlockLowerHalf, fg: blue}, composeCell(NoColor, blue))
	assert.Equal(t, cell{ch: BlockUpperHalf, fg: red, bg: blue}, composeCell(red, blue))
}

func TestHueColorStaysInCube(t *testing.T) {
	for hue := -360.0; hue <= 720; hue += 15 {
		c := HueColor(hue)
		assert.GreaterOrEqual(t, int(c), 16, "hue %v", hue)
		assert.LessOrEqual(t, int(c), 231, "hue %v", hue)
	}
	assert.Equal(t, HueColor(10), HueColor(370))
}

func TestFillRectScales(t *testing.T) {
	// 10 columns x 5 rows => 10x10 sub-pixels over a 100x100 logical space.
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(0, 0, 20, 20, ColorWhite)

	set := 0
	for _, p := range c.pixels {
		if p != NoColor {
			set++
		}
	}
	assert.Equal(t, 4, set)
	assert.Equal(t, ColorWhite, c.pixels[0])
	assert.Equal(t, ColorWhite, c.pixels[1*10+1])
}

func TestFillRectNeverVanishes(t *testing.T) {
	c := NewScaledCanvas(10, 5, 1000, 1000)
	c.FillRect(500, 500, 1, 1, ColorWhite)

	set := 0
	for _, p := range c.pixels {
		if p != NoColor {
			set++
		}
	}
	assert.Equal(t, 1, set)
}

func TestShiftMovesShapes(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.SetShift(2, 0)
	c.SetFloat(0, 0, ColorWhite)
	assert.Equal(t, ColorWhite, c.pixels[2])
	assert.Equal(t, NoColor, c.pixels[0])
}

func TestRenderOnlyWritesChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)

	var out bytes.Buffer
	c.SetFloat(0, 0, ColorWhite)
	c.Render(&out)
	first := out.String()
	assert.Contains(t, first, string(BlockUpperHalf))

	out.Reset()
	c.Render(&out)
	assert.Empty(t, out.String(), "unchanged frame writes nothing")

	out.Reset()
	c.Clear()
	c.Render(&out)
	assert.Equal(t, "\033[1;1H ", out.String(), "cleared pixel is blanked")

	out.Reset()
	c.ForceRedraw()
	c.Render(&out)
	assert.Equal(t, 8, strings.Count(out.String(), "H"), "every cell repainted")
}

func TestMarkTextDirtyRepaintsCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer
	c.Render(&out)

	out.Reset()
	c.MarkTextDirty(2, 1, 2)
	c.MarkTextDirty(10, 10, 5) // out of range is ignored
	c.Render(&out)
	assert.Equal(t, "\033[1;2H \033[1;3H ", out.String())
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(3, 4)
	c.SetFloat(1, 1, ColorWhite)

	var out bytes.Buffer
	c.Render(&out)
	assert.Contains(t, out.String(), "\033[5;5H")
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawPolygon([]Point{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 8}, {X: 1, Y: 8}}, true, ColorGray)
	assert.Equal(t, ColorGray, c.pixels[4*10+4], "interior filled")
	assert.Equal(t, NoColor, c.pixels[0], "outside untouched")
}
