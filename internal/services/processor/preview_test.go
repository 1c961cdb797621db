package processor

import (
	"image/color"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgbaAt(t *testing.T, img interface{ At(x, y int) color.Color }, x, y int) color.RGBA {
	t.Helper()
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRenderPreview(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	red := color.NRGBA{R: 255, A: 255}

	out, err := p.RenderPreview(Screen{
		Size:      geometry.Size{Width: 200, Height: 200},
		Image:     solidNRGBA(4, 4, red),
		View:      geometry.NewImageView(geometry.NewRect(0, 0, 100, 100)),
		CropFrame: geometry.NewRect(120, 120, 50, 50),
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgbaAt(t, out, 50, 50))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(t, out, 150, 150))
	// dashes start on at the crop frame's top-left corner
	assert.Equal(t, color.RGBA{A: 255}, rgbaAt(t, out, 120, 120))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(t, out, 131, 120))
}

func TestRenderPreviewFollowsTransform(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)
	view := geometry.NewImageView(geometry.NewRect(0, 0, 100, 100))
	view.Transform = view.Transform.Scaled(2, 2)

	out, err := p.RenderPreview(Screen{
		Size:  geometry.Size{Width: 200, Height: 200},
		Image: solidNRGBA(4, 4, color.NRGBA{B: 255, A: 255}),
		View:  view,
	}, 0)
	require.NoError(t, err)

	// doubled around (50,50) the bitmap now reaches (150,150)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgbaAt(t, out, 140, 140))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(t, out, 170, 170))
}

func TestRenderPreviewEmptyAndResize(t *testing.T) {
	p := NewImageProcessor(DefaultQuality)

	out, err := p.RenderPreview(Screen{
		Size:      geometry.Size{Width: 320, Height: 480},
		CropFrame: geometry.NewRect(60, 140, 200, 200),
	}, 160)
	require.NoError(t, err)
	assert.Equal(t, 160, out.Bounds().Dx())
	assert.Equal(t, 240, out.Bounds().Dy())

	_, err = p.RenderPreview(Screen{Size: geometry.Size{Width: 0, Height: 10}}, 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
