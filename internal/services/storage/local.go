package storage

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultFilename is the fixed name of the saved crop. It keeps the .png
// extension even when the content is JPEG.
const DefaultFilename = "croppedImage.png"

// Encoder serializes an image, returning the bytes and the format used.
type Encoder interface {
	Encode(img image.Image, preferred string) ([]byte, string, error)
}

// LocalPersister writes the crop to a single file in the document directory,
// overwriting whatever was saved before.
type LocalPersister struct {
	dir      string
	filename string
	encoder  Encoder
	logger   *zap.Logger
}

type SaveResult struct {
	Path   string
	Format string
	Data   []byte
}

func NewLocalPersister(dir, filename string, encoder Encoder, logger *zap.Logger) *LocalPersister {
	if filename == "" {
		filename = DefaultFilename
	}
	return &LocalPersister{
		dir:      dir,
		filename: filename,
		encoder:  encoder,
		logger:   logger,
	}
}

// ResolveDocumentDir returns dir, or $HOME/Documents when dir is empty. The
// directory must already exist.
func ResolveDocumentDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve document directory: %w", err)
		}
		dir = filepath.Join(home, "Documents")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("failed to resolve document directory: %s is not a directory", dir)
	}
	return dir, nil
}

// Save encodes img (JPEG at the encoder's quality, PNG as fallback) and
// writes it. Failures are logged and returned; nothing is retried.
func (p *LocalPersister) Save(img image.Image) (*SaveResult, error) {
	if img == nil {
		return nil, errors.New("nothing to save")
	}

	data, format, err := p.encoder.Encode(img, "")
	if err != nil {
		p.logger.Error("Failed to encode cropped image", zap.Error(err))
		return nil, err
	}

	dir, err := ResolveDocumentDir(p.dir)
	if err != nil {
		p.logger.Error("Failed to save cropped image", zap.Error(err))
		return nil, err
	}

	path := filepath.Join(dir, p.filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		p.logger.Error("Failed to save cropped image", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	p.logger.Info("Cropped image saved",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("bytes", len(data)))

	return &SaveResult{Path: path, Format: format, Data: data}, nil
}

// Path is where Save writes when the directory resolves.
func (p *LocalPersister) Path() (string, error) {
	dir, err := ResolveDocumentDir(p.dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p.filename), nil
}

func (p *LocalPersister) HealthCheck() string {
	if _, err := ResolveDocumentDir(p.dir); err != nil {
		return "unhealthy: " + err.Error()
	}
	return StatusHealthy
}
