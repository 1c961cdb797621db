package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyImage    = errors.New("empty image data")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

var downloadClient = &http.Client{Timeout: 30 * time.Second}

// DefaultImageTypes matches the decoders registered by the processor.
var DefaultImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// DownloadImage fetches a source image for a crop job. The body is read up to
// maxSize bytes and its sniffed content type must be one of allowedTypes.
func DownloadImage(ctx context.Context, imageURL string, maxSize int64, allowedTypes []string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	switch {
	case err != nil:
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	case len(data) == 0:
		return nil, "", ErrEmptyImage
	case int64(len(data)) > maxSize:
		return nil, "", fmt.Errorf("%w of %d bytes", ErrImageTooLarge, maxSize)
	}

	contentType := http.DetectContentType(data)
	if !IsValidImageType(contentType, allowedTypes) {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	return data, contentType, nil
}

// IsValidImageType reports whether a Content-Type header names one of
// allowedTypes, or of DefaultImageTypes when allowedTypes is empty.
// Parameters such as charset are ignored and "image/jpg" counts as JPEG.
func IsValidImageType(contentType string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultImageTypes
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "image/jpg" {
		mediaType = "image/jpeg"
	}
	return slices.ContainsFunc(allowedTypes, func(t string) bool {
		return strings.EqualFold(strings.TrimSpace(t), mediaType)
	})
}

// GenerateFilename names a job result, e.g. cropped_<job>_<unix>.jpeg.
func GenerateFilename(jobID, format string) string {
	if format == "" {
		format = "jpeg"
	}
	return fmt.Sprintf("cropped_%s_%d.%s", jobID, time.Now().Unix(), format)
}

// GenerateStorageKey turns a local filename into a unique object key under
// cropped/, keeping the extension.
func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	suffix := uuid.NewString()[:8]

	return fmt.Sprintf("cropped/%s_%d_%s%s", base, time.Now().Unix(), suffix, ext)
}
