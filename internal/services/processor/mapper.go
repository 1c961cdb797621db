package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/phambaophuc/image-cropper/internal/geometry"
)

// MapCropFrame converts the crop frame from view points into bitmap pixels.
// Both rectangles share the parent view's coordinate space; pixels is the
// bitmap's native size.
//
// Only the frame of the image view is considered. Rotation applied through
// the view transform is not inverted, so the result is the crop of the
// frame's bounding box.
func MapCropFrame(crop, viewFrame geometry.Rect, pixels image.Point) (geometry.Rect, error) {
	if pixels.X <= 0 || pixels.Y <= 0 {
		return geometry.Rect{}, ErrNoImage
	}
	if !crop.Valid() || !viewFrame.Valid() {
		return geometry.Rect{}, ErrInvalidGeometry
	}
	if viewFrame.Size.Empty() {
		return geometry.Rect{}, ErrDegenerateFrame
	}

	scaleX := float64(pixels.X) / viewFrame.Size.Width
	scaleY := float64(pixels.Y) / viewFrame.Size.Height

	return geometry.NewRect(
		(crop.Origin.X-viewFrame.Origin.X)*scaleX,
		(crop.Origin.Y-viewFrame.Origin.Y)*scaleY,
		crop.Size.Width*scaleX,
		crop.Size.Height*scaleY,
	), nil
}

// PixelBounds rounds r outward to whole pixels and clamps it to the bitmap.
func PixelBounds(r geometry.Rect, pixels image.Point) (image.Rectangle, error) {
	if r.Size.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: empty crop area", ErrInvalidGeometry)
	}

	// Clamp in float space first so huge or infinite extents never reach
	// the int conversion. Snap values within float noise of an integer
	// before rounding outward, otherwise 399.99999999 widens the crop by a
	// pixel.
	pw, ph := float64(pixels.X), float64(pixels.Y)
	minX := clampFloat(math.Floor(snap(r.MinX())), 0, pw)
	minY := clampFloat(math.Floor(snap(r.MinY())), 0, ph)
	maxX := clampFloat(math.Ceil(snap(r.MaxX())), 0, pw)
	maxY := clampFloat(math.Ceil(snap(r.MaxY())), 0, ph)
	if math.IsNaN(minX) || math.IsNaN(minY) || math.IsNaN(maxX) || math.IsNaN(maxY) {
		return image.Rectangle{}, fmt.Errorf("%w: non-finite crop area", ErrInvalidGeometry)
	}
	rect := image.Rect(int(minX), int(minY), int(maxX), int(maxY))

	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %v not within %dx%d", ErrCropOutOfBounds, r, pixels.X, pixels.Y)
	}
	return rect, nil
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-6 {
		return r
	}
	return v
}
