package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/editor"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/internal/services/storage"
	"github.com/phambaophuc/image-cropper/pkg/utils"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

func (h *ImageHandler) parseCropPayload(c *gin.Context) (*models.CropRequest, error) {
	jsonStr := c.PostForm(payloadParamKey)
	if jsonStr == "" {
		return nil, fmt.Errorf("missing payload parameter")
	}

	var req models.CropRequest
	if err := json.Unmarshal([]byte(jsonStr), &req); err != nil {
		return nil, fmt.Errorf("invalid crop request: %v", err)
	}

	if err := validateCropRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func validateCropRequest(req *models.CropRequest) error {
	switch {
	case !req.ImageFrame.Valid() || req.ImageFrame.Size.Empty():
		return fmt.Errorf("image_frame must have a positive size")
	case !req.CropFrame.Valid() || req.CropFrame.Size.Empty():
		return fmt.Errorf("crop_frame must have a positive size")
	case req.Format != "" && req.Format != models.FormatJPEG && req.Format != models.FormatPNG:
		return fmt.Errorf("format must be jpeg or png")
	}
	return nil
}

func (h *ImageHandler) parsePositiveInt(value, fieldName string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", fieldName)
	}

	num, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a number", fieldName)
	}

	if num <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", fieldName)
	}

	return num, nil
}

// === FILE OPERATIONS ===

var errNoUpload = errors.New("no image file provided")

// getUploadedFile returns the multipart file under paramKey after checking
// its sniffed type against the configured allowed types. The file is
// rewound before it is returned.
func (h *ImageHandler) getUploadedFile(c *gin.Context, paramKey string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(paramKey)
	if err != nil {
		return nil, nil, errNoUpload
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !utils.IsValidImageType(contentType, h.config.Storage.AllowedTypes) {
		file.Close()
		return nil, nil, fmt.Errorf("unsupported image type: %s", contentType)
	}
	return file, header, nil
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondServiceError maps errors from the editor, processor and storage
// layers onto HTTP statuses.
func (h *ImageHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, storage.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrImageLoaded):
		h.respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrInvalidLayout),
		errors.Is(err, processor.ErrInvalidGeometry),
		errors.Is(err, processor.ErrInvalidGesture):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, processor.ErrNoImage),
		errors.Is(err, processor.ErrCropOutOfBounds),
		errors.Is(err, processor.ErrDegenerateFrame):
		h.respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotConfigured):
		h.respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to process image")
	}
}

func (h *ImageHandler) respondPNG(c *gin.Context, img image.Image) {
	buffer := &bytes.Buffer{}
	if err := png.Encode(buffer, img); err != nil {
		h.logger.Error("Failed to encode png", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to encode image")
		return
	}
	c.Data(http.StatusOK, "image/png", buffer.Bytes())
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != storage.StatusHealthy && status != storage.StatusNotConfigured {
			return "unhealthy"
		}
	}
	return "healthy"
}

func formatPixelRect(r models.PixelRect) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

func boolHeader(v bool) string {
	return strconv.FormatBool(v)
}

// === STORAGE OPERATIONS ===

func (h *ImageHandler) mirrorToStorage(ctx context.Context, saved *storage.SaveResult) string {
	if h.storage == nil || !h.storage.RemoteEnabled() || !h.config.Storage.MirrorUploads {
		return ""
	}

	url, err := h.storage.Upload(ctx, saved.Data, h.config.Storage.Filename)
	if err != nil {
		h.logger.Warn("Failed to upload to Storage", zap.Error(err))
		return ""
	}

	return url
}

func (h *ImageHandler) tryGetFromCache(c *gin.Context, cacheKey string) (*models.CachedCrop, bool) {
	if h.cache == nil {
		return nil, false
	}

	cached, err := h.cache.GetCropResult(c.Request.Context(), cacheKey)
	if err != nil {
		h.logger.Warn("Cache lookup failed", zap.String("cache_key", cacheKey), zap.Error(err))
		return nil, false
	}
	if cached == nil {
		return nil, false
	}

	h.logger.Info("Cache hit", zap.String("cache_key", cacheKey))
	return cached, true
}

func (h *ImageHandler) setCacheData(c *gin.Context, cacheKey string, entry *models.CachedCrop) {
	if h.cache == nil {
		return
	}

	if err := h.cache.SetCropResult(c.Request.Context(), cacheKey, entry); err != nil {
		h.logger.Warn("Failed to cache data", zap.String("cache_key", cacheKey), zap.Error(err))
	}
}

// respondCrop writes a crop result with the same headers whether or not it
// came from the cache.
func (h *ImageHandler) respondCrop(c *gin.Context, cacheStatus string, entry *models.CachedCrop) {
	c.Header("X-Cache", cacheStatus)
	c.Header("X-Crop-Rect", formatPixelRect(entry.PixelRect))
	c.Header("X-Crop-Rotated", boolHeader(entry.Rotated))
	c.Data(http.StatusOK, processor.ContentType(entry.Format), entry.Data)
}
