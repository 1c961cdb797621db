package storage

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "crop_cache:"
	jobKeyPrefix   = "crop_job:"
)

// GetCropResult returns the cached crop for key, or nil on a miss.
func (s *StorageService) GetCropResult(ctx context.Context, cacheKey string) (*models.CachedCrop, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var entry models.CachedCrop
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached crop: %w", err)
	}
	return &entry, nil
}

func (s *StorageService) SetCropResult(ctx context.Context, cacheKey string, entry *models.CachedCrop) error {
	if s.redisClient == nil {
		return ErrNotConfigured
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cached crop: %w", err)
	}
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey hashes the source bytes together with the crop geometry,
// so the same photo cropped the same way hits the same entry.
func GenerateCacheKey(imageData []byte, req *models.CropRequest) string {
	hash := md5.New()
	hash.Write(imageData)

	fmt.Fprintf(hash, "image_%v_crop_%v_format_%s", req.ImageFrame, req.CropFrame, req.Format)
	for _, g := range req.Gestures {
		fmt.Fprintf(hash, "_%s_%v_%v_%v_%v", g.Type, g.DX, g.DY, g.Scale, g.Rotation)
	}

	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash.Sum(nil))
}

// SaveJob stores the job record, overwriting any previous state.
func (s *StorageService) SaveJob(ctx context.Context, job *models.CropJob) error {
	if s.redisClient == nil {
		return ErrNotConfigured
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redisClient.Set(ctx, jobKeyPrefix+job.ID, data, s.jobTTL).Err()
}

func (s *StorageService) GetJob(ctx context.Context, id string) (*models.CropJob, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	data, err := s.redisClient.Get(ctx, jobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job get error: %w", err)
	}

	var job models.CropJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"db_keys": dbSize,
	}, nil
}
