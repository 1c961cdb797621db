package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func (p *ImageProcessor) ValidateImage(file io.ReadSeeker, maxSize int64) error {
	// Check file size
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to read image size: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind image: %w", err)
	}

	if size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", size, maxSize)
	}

	// Only the header is needed to know the format is supported
	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("invalid image format: %w", err)
	}

	_, err = file.Seek(0, io.SeekStart) // Reset for further processing
	return err
}

// DecodeImage decodes a picked photo, applying its EXIF orientation so the
// bitmap matches what the user saw in the picker.
func (p *ImageProcessor) DecodeImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	return img, format, nil
}
