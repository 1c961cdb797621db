package models

const (
	GesturePan    = "pan"
	GesturePinch  = "pinch"
	GestureRotate = "rotate"
)

// Gesture is one incremental recognizer update. Pan uses DX/DY in view
// points, pinch uses Scale, rotate uses Rotation in radians.
type Gesture struct {
	Type     string  `json:"type" binding:"required,oneof=pan pinch rotate"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
}
