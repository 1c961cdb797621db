package models

import "time"

// CroppedImage describes the outcome of a crop and, for saves, where the
// result went.
type CroppedImage struct {
	ID        string    `json:"id"`
	PixelRect PixelRect `json:"pixel_rect"`
	Size      PixelSize `json:"size"`
	Zoom      float64   `json:"zoom,omitempty"`
	Rotated   bool      `json:"rotated"`
	Format    string    `json:"format,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	Saved     bool      `json:"saved"`
	Path      string    `json:"path,omitempty"`
	URL       string    `json:"url,omitempty"`
	CroppedAt time.Time `json:"cropped_at"`
}

// CachedCrop is the cache entry for a one-shot crop. It keeps what the
// response headers need next to the encoded bytes.
type CachedCrop struct {
	Data      []byte    `json:"data"`
	Format    string    `json:"format"`
	PixelRect PixelRect `json:"pixel_rect"`
	Rotated   bool      `json:"rotated"`
}
