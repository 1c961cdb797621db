package models

import (
	"time"

	"github.com/phambaophuc/image-cropper/internal/geometry"
)

// Layout fixes the screen: its size, where the image view starts and the
// crop frame overlay. All values are view points.
type Layout struct {
	Screen     geometry.Size `json:"screen"`
	ImageFrame geometry.Rect `json:"image_frame"`
	CropFrame  geometry.Rect `json:"crop_frame"`
}

type SessionSnapshot struct {
	ID        string             `json:"id"`
	Layout    Layout             `json:"layout"`
	View      geometry.ImageView `json:"view"`
	Frame     geometry.Rect      `json:"frame"`
	Rotation  float64            `json:"rotation"`
	Scale     float64            `json:"scale"`
	HasImage  bool               `json:"has_image"`
	ImageSize *PixelSize         `json:"image_size,omitempty"`
	Format    string             `json:"format,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type PixelSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
