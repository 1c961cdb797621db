package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePrefersJPEG(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	img := solidNRGBA(20, 10, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	data, format, err := p.Encode(img, "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatJPEG, format)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestEncodePNGOnRequest(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	img := randNRGBA(8, 8)

	data, format, err := p.Encode(img, models.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, models.FormatPNG, format)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestEncodeFallsBackToPNG(t *testing.T) {
	p := &ImageProcessor{encoders: []encoder{
		{format: models.FormatJPEG, encode: func(io.Writer, image.Image) error {
			return errors.New("jpeg unavailable")
		}},
		pngEncoder(),
	}}

	data, format, err := p.Encode(randNRGBA(4, 4), "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatPNG, format)
	assert.NotEmpty(t, data)
}

func TestEncodeAllFail(t *testing.T) {
	failing := func(io.Writer, image.Image) error { return errors.New("boom") }
	p := &ImageProcessor{encoders: []encoder{
		{format: models.FormatJPEG, encode: failing},
		{format: models.FormatPNG, encode: failing},
	}}

	_, _, err := p.Encode(randNRGBA(4, 4), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jpeg: boom")
	assert.Contains(t, err.Error(), "png: boom")

	_, _, err = p.Encode(nil, "")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(models.FormatPNG))
	assert.Equal(t, "image/jpeg", ContentType(models.FormatJPEG))
}
