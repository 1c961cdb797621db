package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertRect(t *testing.T, want, got Rect) {
	t.Helper()
	assert.InDelta(t, want.Origin.X, got.Origin.X, eps, "x")
	assert.InDelta(t, want.Origin.Y, got.Origin.Y, eps, "y")
	assert.InDelta(t, want.Size.Width, got.Size.Width, eps, "width")
	assert.InDelta(t, want.Size.Height, got.Size.Height, eps, "height")
}

func TestConcatOrder(t *testing.T) {
	p := Point{X: 1, Y: 0}

	// scale then translate
	got := Scale(2, 2).Concat(Translation(10, 0)).Apply(p)
	assert.InDelta(t, 12, got.X, eps)

	// translate then scale
	got = Translation(10, 0).Concat(Scale(2, 2)).Apply(p)
	assert.InDelta(t, 22, got.X, eps)
}

func TestRotation(t *testing.T) {
	got := Rotation(math.Pi / 2).Apply(Point{X: 1, Y: 0})
	assert.InDelta(t, 0, got.X, eps)
	assert.InDelta(t, 1, got.Y, eps)

	tr := Identity().Rotated(0.3).Rotated(0.2)
	assert.InDelta(t, 0.5, tr.RotationAngle(), eps)
	assert.InDelta(t, 1, tr.ScaleFactor(), eps)
}

func TestScaledAccumulates(t *testing.T) {
	tr := Identity().Scaled(2, 2).Rotated(math.Pi / 4).Scaled(1.5, 1.5)
	assert.InDelta(t, 3, tr.ScaleFactor(), eps)
	assert.InDelta(t, math.Pi/4, tr.RotationAngle(), eps)
}

func TestIdentity(t *testing.T) {
	assert.True(t, Identity().IsIdentity())
	assert.False(t, Scale(2, 1).IsIdentity())
	assert.Equal(t, Point{X: 3, Y: 4}, Identity().Apply(Point{X: 3, Y: 4}))
}

func TestImageViewFrame(t *testing.T) {
	v := NewImageView(NewRect(0, 0, 300, 300))
	assertRect(t, NewRect(0, 0, 300, 300), v.Frame())

	v = v.Move(10, -20)
	assertRect(t, NewRect(10, -20, 300, 300), v.Frame())

	v.Transform = v.Transform.Scaled(2, 2)
	assertRect(t, NewRect(-140, -170, 600, 600), v.Frame())
}

func TestImageViewFrameRotated(t *testing.T) {
	v := NewImageView(NewRect(0, 0, 200, 100))
	v.Transform = v.Transform.Rotated(math.Pi / 2)
	// a quarter turn swaps the extents around the same center
	assertRect(t, NewRect(50, -50, 100, 200), v.Frame())
}

func TestRectHelpers(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	assert.Equal(t, 4.0, r.MaxX())
	assert.Equal(t, 6.0, r.MaxY())
	assert.Equal(t, Point{X: 2.5, Y: 4}, r.Center())
	assert.True(t, r.Valid())
	assert.False(t, NewRect(math.NaN(), 0, 1, 1).Valid())
	assert.True(t, Size{Width: 0, Height: 3}.Empty())
}
