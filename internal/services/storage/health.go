package storage

import (
	"context"

	storage_go "github.com/supabase-community/storage-go"
)

const (
	StatusHealthy       = "healthy"
	StatusNotConfigured = "not configured"
)

// HealthCheck checks Redis + Supabase
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	// Redis
	if s.redisClient == nil {
		status["redis"] = StatusNotConfigured
	} else if err := s.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "unhealthy: " + err.Error()
	} else {
		status["redis"] = StatusHealthy
	}

	// Supabase Storage check
	if s.sbClient == nil {
		status["supabase"] = StatusNotConfigured
	} else if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
		status["supabase"] = "unhealthy: " + err.Error()
	} else {
		status["supabase"] = StatusHealthy
	}

	return status
}
