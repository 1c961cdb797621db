package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-cropper/internal/config"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/editor"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/internal/services/queue"
	"github.com/phambaophuc/image-cropper/internal/services/storage"
	"go.uber.org/zap"
)

const (
	imageParamKey   = "image"
	payloadParamKey = "payload"
)

// ResultCache stores one-shot crop results keyed by source and geometry.
type ResultCache interface {
	GetCropResult(ctx context.Context, cacheKey string) (*models.CachedCrop, error)
	SetCropResult(ctx context.Context, cacheKey string, entry *models.CachedCrop) error
}

type ImageHandler struct {
	processor *processor.ImageProcessor
	sessions  *editor.Store
	persister *storage.LocalPersister
	storage   *storage.StorageService
	queue     *queue.QueueService
	cache     ResultCache
	logger    *zap.Logger
	config    *config.Config
}

// NewImageHandler wires the handler. storage and queue may be nil when the
// corresponding backends are not configured.
func NewImageHandler(
	processor *processor.ImageProcessor,
	sessions *editor.Store,
	persister *storage.LocalPersister,
	storage *storage.StorageService,
	queue *queue.QueueService,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	h := &ImageHandler{
		processor: processor,
		sessions:  sessions,
		persister: persister,
		storage:   storage,
		queue:     queue,
		logger:    logger,
		config:    config,
	}
	if storage != nil && storage.CacheEnabled() {
		h.cache = storage
	}
	return h
}

// UseCache replaces the crop result cache; nil disables caching.
func (h *ImageHandler) UseCache(cache ResultCache) {
	h.cache = cache
}

// === MAIN API ENDPOINTS ===

// CropImage crops an uploaded image in one call. The payload carries the
// view geometry and the gestures to replay.
func (h *ImageHandler) CropImage(c *gin.Context) {
	file, _, err := h.getUploadedFile(c, imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	req, err := h.parseCropPayload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.processor.ValidateImage(file, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid image: "+err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Internal file error")
		return
	}

	cacheKey := storage.GenerateCacheKey(data, req)
	if cached, found := h.tryGetFromCache(c, cacheKey); found {
		h.respondCrop(c, "HIT", cached)
		return
	}

	res, err := h.processor.ProcessCrop(bytes.NewReader(data), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if res.Rotated {
		h.logger.Warn("Crop ignores view rotation")
	}

	entry := &models.CachedCrop{
		Data:      res.Data,
		Format:    res.Format,
		PixelRect: processor.ToPixelRect(res.PixelRect),
		Rotated:   res.Rotated,
	}
	h.setCacheData(c, cacheKey, entry)
	h.respondCrop(c, "MISS", entry)
}

// HealthCheck reports the optional backends and the local save target.
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{
		"redis":    storage.StatusNotConfigured,
		"supabase": storage.StatusNotConfigured,
		"queue":    storage.StatusNotConfigured,
	}
	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}
	if h.queue != nil {
		services["queue"] = h.queue.HealthCheck()
	}
	services["document_dir"] = h.persister.HealthCheck()

	outputPath, _ := h.persister.Path()
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:     overall,
			Timestamp:  time.Now(),
			Services:   services,
			OutputPath: outputPath,
			Sessions:   h.sessions.Len(),
		},
	})
}

func (h *ImageHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"sessions":  h.sessions.Len(),
		"timestamp": time.Now(),
	}

	if h.storage != nil && h.storage.CacheEnabled() {
		cacheStats, err := h.storage.GetCacheStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get cache stats", zap.Error(err))
		}
		stats["cache"] = cacheStats
	}

	if h.queue != nil {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Error("Failed to get queue stats", zap.Error(err))
		}
		stats["queue"] = queueStats
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}
