package geometry

// ImageView is the on-screen element displaying the bitmap. Its transform
// is applied around Center, so Bounds never changes; Frame is derived.
type ImageView struct {
	Bounds    Size      `json:"bounds"`
	Center    Point     `json:"center"`
	Transform Transform `json:"transform"`
}

// NewImageView lays a view out at frame with an identity transform.
func NewImageView(frame Rect) ImageView {
	return ImageView{
		Bounds:    frame.Size,
		Center:    frame.Center(),
		Transform: Identity(),
	}
}

// Frame is the axis-aligned box occupied by the transformed view in its
// parent's coordinate space.
func (v ImageView) Frame() Rect {
	local := NewRect(-v.Bounds.Width/2, -v.Bounds.Height/2, v.Bounds.Width, v.Bounds.Height)
	box := v.Transform.ApplyRect(local)
	box.Origin.X += v.Center.X
	box.Origin.Y += v.Center.Y
	return box
}

// Move shifts the view center, which is how a pan gesture repositions it.
func (v ImageView) Move(dx, dy float64) ImageView {
	v.Center = Point{X: v.Center.X + dx, Y: v.Center.Y + dy}
	return v
}
