package processor

import "errors"

var (
	ErrNoImage         = errors.New("no image loaded")
	ErrDegenerateFrame = errors.New("image view frame has no area")
	ErrCropOutOfBounds = errors.New("crop area lies outside the image")
	ErrInvalidGeometry = errors.New("invalid crop geometry")
	ErrInvalidGesture  = errors.New("invalid gesture")
)
