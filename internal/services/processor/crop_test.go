package processor

import (
	"image"
	"image/color"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropFullBoundsIsIdentical(t *testing.T) {
	src := randNRGBA(64, 48)

	got, err := Crop(src, src.Bounds())
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())
	assert.Equal(t, src.Pix, got.Pix)
}

func TestCropMatchesSubImage(t *testing.T) {
	src := randNRGBA(50, 40)
	r := image.Rect(5, 7, 35, 27)

	got, err := Crop(src, r)
	require.NoError(t, err)
	require.Equal(t, r.Dx(), got.Bounds().Dx())
	require.Equal(t, r.Dy(), got.Bounds().Dy())

	want := src.SubImage(r)
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			assert.Equal(t, want.At(r.Min.X+x, r.Min.Y+y), got.At(x, y))
		}
	}
}

func TestCropDoesNotAliasSource(t *testing.T) {
	src := solidNRGBA(10, 10, color.NRGBA{R: 10, A: 255})

	got, err := Crop(src, image.Rect(0, 0, 5, 5))
	require.NoError(t, err)

	src.SetNRGBA(0, 0, color.NRGBA{G: 200, A: 255})
	assert.Equal(t, color.NRGBA{R: 10, A: 255}, got.NRGBAAt(0, 0))
}

func TestCropOffsetSource(t *testing.T) {
	// rectangles are relative to the source's top-left corner
	src := randNRGBA(30, 30).SubImage(image.Rect(10, 10, 30, 30))

	got, err := Crop(src, image.Rect(0, 0, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, src.At(10, 10), got.At(0, 0))
}

func TestCropErrors(t *testing.T) {
	_, err := Crop(nil, image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = Crop(randNRGBA(4, 4), image.Rect(10, 10, 20, 20))
	assert.ErrorIs(t, err, ErrCropOutOfBounds)
}

func TestCropView(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	src := randNRGBA(1200, 1200)
	view := geometry.NewImageView(geometry.NewRect(0, 0, 300, 300))

	out, err := p.CropView(src, view, geometry.NewRect(50, 50, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(200, 200, 600, 600), out.PixelRect)
	assert.Equal(t, 400, out.Image.Bounds().Dx())
	assert.InDelta(t, 1.0/3, out.Zoom, 1e-9)
	assert.False(t, out.Rotated)

	_, err = p.CropView(nil, view, geometry.NewRect(50, 50, 100, 100))
	assert.ErrorIs(t, err, ErrNoImage)
}
