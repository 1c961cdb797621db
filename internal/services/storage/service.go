package storage

import (
	"errors"
	"time"

	"github.com/phambaophuc/image-cropper/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var (
	ErrNotConfigured = errors.New("storage backend not configured")
	ErrJobNotFound   = errors.New("job not found")
)

// StorageService holds the optional remote backends: Supabase Storage for
// mirroring saved crops and fetching job inputs, Redis for the crop cache
// and job records. Either client may be nil when not configured.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
	jobTTL        time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cfg.Storage.CacheDuration,
		jobTTL:        cfg.Storage.JobTTL,
	}

	if cfg.Supabase.URL != "" {
		if cfg.Supabase.BUCKET == "" {
			return nil, errors.New("SUPABASE_BUCKET is required when SUPABASE_URL is set")
		}
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s, nil
}

func (s *StorageService) RemoteEnabled() bool { return s.sbClient != nil }

func (s *StorageService) CacheEnabled() bool { return s.redisClient != nil }

// Close releases the Redis connection pool.
func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
