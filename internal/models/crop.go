package models

import "github.com/phambaophuc/image-cropper/internal/geometry"

// CropRequest describes a crop in view coordinates. ImageFrame is where the
// image view was laid out before any gesture; Gestures are replayed on top.
type CropRequest struct {
	ImageFrame geometry.Rect `json:"image_frame"`
	CropFrame  geometry.Rect `json:"crop_frame"`
	Gestures   []Gesture     `json:"gestures,omitempty"`
	Format     string        `json:"format,omitempty" binding:"omitempty,oneof=jpeg png"`
}

// PixelRect is an integral rectangle in bitmap pixels.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)
