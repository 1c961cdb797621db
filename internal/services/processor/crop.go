package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-cropper/internal/models"
)

// Crop copies the pixels of src inside r into a new image. r is relative to
// the top-left corner of src. The result never aliases src.
func Crop(src image.Image, r image.Rectangle) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrNoImage
	}

	bounds := src.Bounds()
	area := r.Add(bounds.Min).Intersect(bounds)
	if area.Empty() {
		return nil, fmt.Errorf("%w: %v not within %v", ErrCropOutOfBounds, r, bounds)
	}

	return imaging.Crop(src, area), nil
}

// ToPixelRect converts an image rectangle into its wire form.
func ToPixelRect(r image.Rectangle) models.PixelRect {
	return models.PixelRect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
