package processor

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessCrop(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	data := encodePNG(t, randNRGBA(1200, 1200))

	res, err := p.ProcessCrop(bytes.NewReader(data), &models.CropRequest{
		ImageFrame: geometry.NewRect(0, 0, 300, 300),
		CropFrame:  geometry.NewRect(50, 50, 100, 100),
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(200, 200, 600, 600), res.PixelRect)
	// png sources stay png unless asked otherwise
	assert.Equal(t, models.FormatPNG, res.Format)

	decoded, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 400, decoded.Bounds().Dy())
}

func TestProcessCropReplaysGestures(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	data := encodePNG(t, randNRGBA(400, 400))

	// the view is doubled around its center then moved left by 150:
	// frame becomes (-250,-100,400,400)
	res, err := p.ProcessCrop(bytes.NewReader(data), &models.CropRequest{
		ImageFrame: geometry.NewRect(0, 0, 200, 200),
		CropFrame:  geometry.NewRect(0, 0, 100, 100),
		Gestures: []models.Gesture{
			{Type: models.GesturePinch, Scale: 2},
			{Type: models.GesturePan, DX: -150},
		},
		Format: models.FormatJPEG,
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(250, 100, 350, 200), res.PixelRect)
	assert.Equal(t, models.FormatJPEG, res.Format)
}

func TestProcessCropErrors(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)

	_, err := p.ProcessCrop(bytes.NewReader([]byte("not an image")), &models.CropRequest{})
	assert.Error(t, err)

	data := encodePNG(t, randNRGBA(10, 10))
	_, err = p.ProcessCrop(bytes.NewReader(data), &models.CropRequest{
		ImageFrame: geometry.NewRect(0, 0, 10, 10),
		CropFrame:  geometry.NewRect(0, 0, 5, 5),
		Gestures:   []models.Gesture{{Type: models.GesturePinch, Scale: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidGesture)
}

func TestApplyGesture(t *testing.T) {
	view := geometry.NewImageView(geometry.NewRect(0, 0, 100, 100))

	view, err := ApplyGesture(view, models.Gesture{Type: models.GesturePan, DX: 5, DY: -5})
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 55, Y: 45}, view.Center)

	view, err = ApplyGesture(view, models.Gesture{Type: models.GestureRotate, Rotation: math.Pi / 6})
	require.NoError(t, err)
	view, err = ApplyGesture(view, models.Gesture{Type: models.GesturePinch, Scale: 1.5})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/6, view.Transform.RotationAngle(), 1e-9)
	assert.InDelta(t, 1.5, view.Transform.ScaleFactor(), 1e-9)

	_, err = ApplyGesture(view, models.Gesture{Type: "swipe"})
	assert.ErrorIs(t, err, ErrInvalidGesture)
	_, err = ApplyGesture(view, models.Gesture{Type: models.GesturePinch, Scale: -1})
	assert.ErrorIs(t, err, ErrInvalidGesture)
	_, err = ApplyGesture(view, models.Gesture{Type: models.GesturePan, DX: math.Inf(1)})
	assert.ErrorIs(t, err, ErrInvalidGesture)
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	data := encodePNG(t, randNRGBA(10, 10))

	r := bytes.NewReader(data)
	require.NoError(t, p.ValidateImage(r, int64(len(data))))
	pos, _ := r.Seek(0, 1)
	assert.Zero(t, pos)

	assert.Error(t, p.ValidateImage(bytes.NewReader(data), int64(len(data)-1)))
	assert.Error(t, p.ValidateImage(bytes.NewReader([]byte("garbage")), 1024))
}
