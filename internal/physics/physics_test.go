package physics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsIsOpenInterval(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, Overlaps(a, Rect{X: 5, Y: 5, W: 10, H: 10}))
	assert.True(t, Overlaps(a, Rect{X: 2, Y: 2, W: 2, H: 2}), "containment overlaps")
	assert.False(t, Overlaps(a, Rect{X: 10, Y: 0, W: 5, H: 5}), "touching right edge")
	assert.False(t, Overlaps(a, Rect{X: 0, Y: 10, W: 5, H: 5}), "touching bottom edge")
	assert.False(t, Overlaps(a, Rect{X: -5, Y: 0, W: 5, H: 5}), "touching left edge")
	assert.False(t, Overlaps(a, Rect{X: 20, Y: 20, W: 5, H: 5}))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	a := Rect{X: 3, Y: 4, W: 7, H: 2}
	b := Rect{X: 9, Y: 5, W: 4, H: 4}
	assert.Equal(t, Overlaps(a, b), Overlaps(b, a))
}

func TestRectCenter(t *testing.T) {
	x, y := Rect{X: 10, Y: 20, W: 4, H: 6}.Center()
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 23.0, y)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(12, 0, 10))
}

func TestSpatialGridQueryAround(t *testing.T) {
	g := NewSpatialGrid(480, 640, 96)
	g.Insert(10, 10, 0)   // top-left cell
	g.Insert(100, 10, 1)  // neighbor cell
	g.Insert(400, 600, 2) // far away
	g.Insert(50, -40, 3)  // above the field, clamped into row 0

	var found []int
	g.QueryAround(20, 20, func(i int) bool {
		found = append(found, i)
		return false
	})
	sort.Ints(found)
	assert.Equal(t, []int{0, 1, 3}, found)
}

func TestSpatialGridEarlyStopAndClear(t *testing.T) {
	g := NewSpatialGrid(480, 640, 96)
	g.Insert(10, 10, 0)
	g.Insert(12, 12, 1)

	calls := 0
	g.QueryAround(10, 10, func(int) bool {
		calls++
		return true
	})
	assert.Equal(t, 1, calls)

	g.Clear()
	calls = 0
	g.QueryAround(10, 10, func(int) bool {
		calls++
		return false
	})
	assert.Zero(t, calls)
}

func TestSpatialGridDoesNotWrap(t *testing.T) {
	g := NewSpatialGrid(480, 640, 96)
	g.Insert(470, 10, 0) // right edge column

	hit := false
	g.QueryAround(5, 10, func(int) bool {
		hit = true
		return true
	})
	assert.False(t, hit)
}
