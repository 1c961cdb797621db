package geometry

import "math"

// Transform is a 2D affine transform using the row-vector convention of
// UIKit views:
//
//	x' = A*x + C*y + TX
//	y' = B*x + D*y + TY
type Transform struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

func Identity() Transform {
	return Transform{A: 1, D: 1}
}

func Scale(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotation returns a rotation by angle radians. Positive angles rotate
// clockwise on screen since the y axis points down.
func Rotation(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

func Translation(tx, ty float64) Transform {
	return Transform{A: 1, D: 1, TX: tx, TY: ty}
}

// Concat returns the transform that applies t first and then u.
func (t Transform) Concat(u Transform) Transform {
	return Transform{
		A:  t.A*u.A + t.B*u.C,
		B:  t.A*u.B + t.B*u.D,
		C:  t.C*u.A + t.D*u.C,
		D:  t.C*u.B + t.D*u.D,
		TX: t.TX*u.A + t.TY*u.C + u.TX,
		TY: t.TX*u.B + t.TY*u.D + u.TY,
	}
}

// Scaled prepends a scale, so the scale happens in the transform's local
// space. This is what a pinch gesture does to a view.
func (t Transform) Scaled(sx, sy float64) Transform {
	return Scale(sx, sy).Concat(t)
}

// Rotated prepends a rotation, matching a rotation gesture.
func (t Transform) Rotated(angle float64) Transform {
	return Rotation(angle).Concat(t)
}

func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.TX,
		Y: t.B*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyRect transforms the four corners of r and returns their bounding box.
func (t Transform) ApplyRect(r Rect) Rect {
	return boundingRect(
		t.Apply(Point{X: r.MinX(), Y: r.MinY()}),
		t.Apply(Point{X: r.MaxX(), Y: r.MinY()}),
		t.Apply(Point{X: r.MinX(), Y: r.MaxY()}),
		t.Apply(Point{X: r.MaxX(), Y: r.MaxY()}),
	)
}

// RotationAngle is the rotation component in radians.
func (t Transform) RotationAngle() float64 {
	return math.Atan2(t.B, t.A)
}

// ScaleFactor is the horizontal scale component, which equals the uniform
// scale for transforms built from gestures.
func (t Transform) ScaleFactor() float64 {
	return math.Hypot(t.A, t.B)
}

func (t Transform) IsIdentity() bool {
	return t == Identity()
}
