package processor

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/phambaophuc/image-cropper/internal/models"
)

const (
	DefaultQuality = 100
	// rotations smaller than this are treated as none
	rotationEpsilon = 1e-9
)

type ImageProcessor struct {
	encoders []encoder
}

// NewImageProcessor returns a processor that encodes JPEG at the given
// quality and falls back to PNG.
func NewImageProcessor(quality int) *ImageProcessor {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &ImageProcessor{
		encoders: []encoder{jpegEncoder(quality), pngEncoder()},
	}
}

// CropOutcome is the result of cropping the bitmap shown in a view.
type CropOutcome struct {
	Image     *image.NRGBA
	PixelRect image.Rectangle
	Frame     geometry.Rect
	// Zoom is crop frame width over view frame width, the scale the screen
	// applies to the view after cropping.
	Zoom float64
	// Rotated is set when the view carried a rotation the mapping ignored.
	Rotated bool
}

// Result is an encoded crop.
type Result struct {
	*CropOutcome
	Data   []byte
	Format string
}

// CropView maps cropFrame through the view's current frame into pixel space
// and crops src.
func (p *ImageProcessor) CropView(src image.Image, view geometry.ImageView, cropFrame geometry.Rect) (*CropOutcome, error) {
	if src == nil {
		return nil, ErrNoImage
	}

	frame := view.Frame()
	pixels := src.Bounds().Size()

	area, err := MapCropFrame(cropFrame, frame, pixels)
	if err != nil {
		return nil, err
	}

	pixelRect, err := PixelBounds(area, pixels)
	if err != nil {
		return nil, err
	}

	cropped, err := Crop(src, pixelRect)
	if err != nil {
		return nil, err
	}

	return &CropOutcome{
		Image:     cropped,
		PixelRect: pixelRect,
		Frame:     frame,
		Zoom:      cropFrame.Size.Width / frame.Size.Width,
		Rotated:   math.Abs(view.Transform.RotationAngle()) > rotationEpsilon,
	}, nil
}

// ProcessCrop decodes an image, replays the request's gestures on a fresh
// view and returns the encoded crop.
func (p *ImageProcessor) ProcessCrop(r io.Reader, req *models.CropRequest) (*Result, error) {
	img, format, err := p.DecodeImage(r)
	if err != nil {
		return nil, err
	}

	view := geometry.NewImageView(req.ImageFrame)
	for i, g := range req.Gestures {
		if view, err = ApplyGesture(view, g); err != nil {
			return nil, fmt.Errorf("gesture %d: %w", i, err)
		}
	}

	outcome, err := p.CropView(img, view, req.CropFrame)
	if err != nil {
		return nil, err
	}

	outputFormat := req.Format
	if outputFormat == "" && format == models.FormatPNG {
		outputFormat = models.FormatPNG
	}

	data, usedFormat, err := p.Encode(outcome.Image, outputFormat)
	if err != nil {
		return nil, err
	}

	return &Result{CropOutcome: outcome, Data: data, Format: usedFormat}, nil
}

// ApplyGesture folds one recognizer update into the view. Pan moves the
// center; pinch and rotate prepend to the transform.
func ApplyGesture(view geometry.ImageView, g models.Gesture) (geometry.ImageView, error) {
	switch g.Type {
	case models.GesturePan:
		if !finite(g.DX) || !finite(g.DY) {
			return view, fmt.Errorf("%w: pan delta must be finite", ErrInvalidGesture)
		}
		return view.Move(g.DX, g.DY), nil
	case models.GesturePinch:
		if !finite(g.Scale) || g.Scale <= 0 {
			return view, fmt.Errorf("%w: pinch scale must be positive, got %v", ErrInvalidGesture, g.Scale)
		}
		view.Transform = view.Transform.Scaled(g.Scale, g.Scale)
		return view, nil
	case models.GestureRotate:
		if !finite(g.Rotation) {
			return view, fmt.Errorf("%w: rotation must be finite", ErrInvalidGesture)
		}
		view.Transform = view.Transform.Rotated(g.Rotation)
		return view, nil
	default:
		return view, fmt.Errorf("%w: unknown type %q", ErrInvalidGesture, g.Type)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
