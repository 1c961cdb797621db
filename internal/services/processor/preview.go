package processor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-cropper/internal/geometry"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

const (
	MaxPreviewSide = 4096
	dashLength     = 10
	emptyLabel     = "Tap to select an image"
)

var cropBorderColor = color.Black

// Screen is everything needed to draw the crop screen.
type Screen struct {
	Size      geometry.Size
	Image     image.Image
	View      geometry.ImageView
	CropFrame geometry.Rect
}

// RenderPreview draws the screen at one pixel per point: the bitmap through
// the view transform, the dashed crop frame on top and a hint label when no
// image is loaded. A positive width rescales the result.
func (p *ImageProcessor) RenderPreview(s Screen, width int) (image.Image, error) {
	w := int(math.Ceil(s.Size.Width))
	h := int(math.Ceil(s.Size.Height))
	if w <= 0 || h <= 0 || w > MaxPreviewSide || h > MaxPreviewSide {
		return nil, fmt.Errorf("%w: screen %vx%v", ErrInvalidGeometry, s.Size.Width, s.Size.Height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	if s.Image != nil {
		drawImageView(canvas, s.Image, s.View)
	} else {
		drawLabel(canvas, emptyLabel)
	}

	drawDashedRect(canvas, toImageRect(s.CropFrame), cropBorderColor, dashLength)

	if width > 0 && width != w {
		if width > MaxPreviewSide {
			width = MaxPreviewSide
		}
		return imaging.Resize(canvas, width, 0, imaging.Lanczos), nil
	}
	return canvas, nil
}

// drawImageView scales the bitmap to the view bounds, applies the view
// transform around the view center and draws it onto dst.
func drawImageView(dst *image.RGBA, img image.Image, view geometry.ImageView) {
	src := imaging.Clone(img)
	pw, ph := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	if pw == 0 || ph == 0 || view.Bounds.Empty() {
		return
	}

	bw, bh := view.Bounds.Width, view.Bounds.Height
	kx, ky := bw/pw, bh/ph
	t, c := view.Transform, view.Center

	s2d := f64.Aff3{
		t.A * kx, t.C * ky, t.TX + c.X - t.A*bw/2 - t.C*bh/2,
		t.B * kx, t.D * ky, t.TY + c.Y - t.B*bw/2 - t.D*bh/2,
	}
	xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, nil)
}

func drawLabel(dst *image.RGBA, text string) {
	bounds := dst.Bounds()
	face := basicfont.Face7x13

	x := (bounds.Dx() - font.MeasureString(face, text).Ceil()) / 2
	y := bounds.Dy() / 2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Gray{Y: 96}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawDashedRect strokes the inside edge of r clockwise from the top-left
// corner, alternating dash pixels on and off.
func drawDashedRect(dst *image.RGBA, r image.Rectangle, c color.Color, dash int) {
	if r.Empty() {
		return
	}

	step := 0
	plot := func(x, y int) {
		if (step/dash)%2 == 0 {
			dst.Set(x, y, c)
		}
		step++
	}

	for x := r.Min.X; x < r.Max.X; x++ {
		plot(x, r.Min.Y)
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		plot(r.Max.X-1, y)
	}
	for x := r.Max.X - 2; x >= r.Min.X; x-- {
		plot(x, r.Max.Y-1)
	}
	for y := r.Max.Y - 2; y > r.Min.Y; y-- {
		plot(r.Min.X, y)
	}
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.MinX())),
		int(math.Round(r.MinY())),
		int(math.Round(r.MaxX())),
		int(math.Round(r.MaxY())),
	)
}
