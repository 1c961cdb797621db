package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/phambaophuc/image-cropper/internal/models"
)

type encodeFunc func(w io.Writer, img image.Image) error

type encoder struct {
	format string
	encode encodeFunc
}

func jpegEncoder(quality int) encoder {
	return encoder{
		format: models.FormatJPEG,
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		},
	}
}

func pngEncoder() encoder {
	return encoder{format: models.FormatPNG, encode: png.Encode}
}

// Encode serializes img trying the preferred format first and falling back
// down the processor's encoder chain. It returns the bytes and the format
// that succeeded.
func (p *ImageProcessor) Encode(img image.Image, preferred string) ([]byte, string, error) {
	if img == nil {
		return nil, "", ErrNoImage
	}

	var errs []error
	for _, enc := range p.encoderChain(preferred) {
		buf := &bytes.Buffer{}
		if err := enc.encode(buf, img); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", enc.format, err))
			continue
		}
		return buf.Bytes(), enc.format, nil
	}

	return nil, "", fmt.Errorf("failed to encode image: %w", errors.Join(errs...))
}

func (p *ImageProcessor) encoderChain(preferred string) []encoder {
	if preferred == "" || preferred == "jpg" {
		preferred = models.FormatJPEG
	}
	chain := make([]encoder, 0, len(p.encoders))
	for _, enc := range p.encoders {
		if enc.format == preferred {
			chain = append(chain, enc)
		}
	}
	for _, enc := range p.encoders {
		if enc.format != preferred {
			chain = append(chain, enc)
		}
	}
	return chain
}

// ContentType maps an output format to its MIME type.
func ContentType(format string) string {
	switch format {
	case models.FormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}
