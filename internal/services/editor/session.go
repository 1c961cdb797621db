// Package editor keeps the state of crop screens: the displayed bitmap, the
// image view with its accumulated gesture transform and the fixed crop frame.
package editor

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
)

var (
	ErrImageLoaded     = errors.New("an image is already loaded")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one crop screen. All methods are safe for concurrent use and
// run to completion under the session lock, so a session behaves as if it
// were driven from a single UI thread.
type Session struct {
	mu        sync.Mutex
	id        string
	layout    models.Layout
	view      geometry.ImageView
	image     image.Image
	format    string
	processor *processor.ImageProcessor
	createdAt time.Time
	updatedAt time.Time
}

func NewSession(id string, layout models.Layout, p *processor.ImageProcessor) (*Session, error) {
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		id:        id,
		layout:    layout,
		view:      geometry.NewImageView(layout.ImageFrame),
		processor: p,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ValidateLayout(l models.Layout) error {
	switch {
	case l.Screen.Empty():
		return fmt.Errorf("%w: screen has no area", ErrInvalidLayout)
	case !l.ImageFrame.Valid() || l.ImageFrame.Size.Empty():
		return fmt.Errorf("%w: image frame has no area", ErrInvalidLayout)
	case !l.CropFrame.Valid() || l.CropFrame.Size.Empty():
		return fmt.Errorf("%w: crop frame has no area", ErrInvalidLayout)
	}
	return nil
}

func (s *Session) ID() string { return s.id }

// Pick loads the picked photo. Like the screen it models, a photo can only
// be picked while none is displayed.
func (s *Session) Pick(img image.Image, format string) error {
	if img == nil {
		return processor.ErrNoImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image != nil {
		return ErrImageLoaded
	}
	s.image = img
	s.format = format
	s.touch()
	return nil
}

// Gesture applies one pan, pinch or rotate update to the image view. The
// transform keeps accumulating until ResetTransform is called.
func (s *Session) Gesture(g models.Gesture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := processor.ApplyGesture(s.view, g)
	if err != nil {
		return err
	}
	s.view = view
	s.touch()
	return nil
}

func (s *Session) Pan(dx, dy float64) error {
	return s.Gesture(models.Gesture{Type: models.GesturePan, DX: dx, DY: dy})
}

func (s *Session) Pinch(scale float64) error {
	return s.Gesture(models.Gesture{Type: models.GesturePinch, Scale: scale})
}

func (s *Session) Rotate(radians float64) error {
	return s.Gesture(models.Gesture{Type: models.GestureRotate, Rotation: radians})
}

// ResetTransform puts the image view back where the layout placed it.
func (s *Session) ResetTransform() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = geometry.NewImageView(s.layout.ImageFrame)
	s.touch()
}

// Crop maps the crop frame onto the displayed bitmap and replaces the
// bitmap with the cropped region. Before the bitmap is replaced the view is
// scaled by crop width over frame width. On error nothing changes.
func (s *Session) Crop() (*processor.CropOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.processor.CropView(s.image, s.view, s.layout.CropFrame)
	if err != nil {
		return nil, err
	}

	s.view.Transform = s.view.Transform.Concat(geometry.Scale(outcome.Zoom, outcome.Zoom))
	s.image = outcome.Image
	s.touch()
	return outcome, nil
}

// Image returns the displayed bitmap and its source format.
func (s *Session) Image() (image.Image, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image, s.format
}

func (s *Session) Preview(width int) (image.Image, error) {
	s.mu.Lock()
	screen := processor.Screen{
		Size:      s.layout.Screen,
		Image:     s.image,
		View:      s.view,
		CropFrame: s.layout.CropFrame,
	}
	s.mu.Unlock()

	return s.processor.RenderPreview(screen, width)
}

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.SessionSnapshot{
		ID:        s.id,
		Layout:    s.layout,
		View:      s.view,
		Frame:     s.view.Frame(),
		Rotation:  s.view.Transform.RotationAngle(),
		Scale:     s.view.Transform.ScaleFactor(),
		HasImage:  s.image != nil,
		Format:    s.format,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.image != nil {
		b := s.image.Bounds()
		snap.ImageSize = &models.PixelSize{Width: b.Dx(), Height: b.Dy()}
	}
	return snap
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
