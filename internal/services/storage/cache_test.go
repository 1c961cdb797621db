package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	req := &models.CropRequest{
		ImageFrame: geometry.NewRect(0, 0, 300, 300),
		CropFrame:  geometry.NewRect(50, 50, 100, 100),
	}
	data := []byte("image bytes")

	key := GenerateCacheKey(data, req)
	assert.True(t, strings.HasPrefix(key, cacheKeyPrefix))
	assert.Equal(t, key, GenerateCacheKey(data, req))

	moved := *req
	moved.Gestures = []models.Gesture{{Type: models.GesturePan, DX: 1}}
	assert.NotEqual(t, key, GenerateCacheKey(data, &moved))
	assert.NotEqual(t, key, GenerateCacheKey([]byte("other"), req))
}

func TestUnconfiguredBackends(t *testing.T) {
	s := &StorageService{}
	ctx := context.Background()

	_, err := s.GetCropResult(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.SetCropResult(ctx, "k", &models.CachedCrop{}), ErrNotConfigured)
	assert.ErrorIs(t, s.SaveJob(ctx, &models.CropJob{ID: "1"}), ErrNotConfigured)
	_, err = s.Upload(ctx, []byte("x"), "a.png")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = s.Download(ctx, "a.png")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, map[string]string{
		"redis":    StatusNotConfigured,
		"supabase": StatusNotConfigured,
	}, s.HealthCheck(ctx))
	assert.NoError(t, s.Close())
}
