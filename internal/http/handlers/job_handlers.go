package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/image-cropper/internal/models"
	"go.uber.org/zap"
)

// SubmitJob queues a crop of a remote image.
func (h *ImageHandler) SubmitJob(c *gin.Context) {
	if h.queue == nil || h.storage == nil || !h.storage.CacheEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue not configured")
		return
	}

	var req models.CropJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid job: "+err.Error())
		return
	}
	if (req.ImageURL == "") == (req.StoragePath == "") {
		h.respondError(c, http.StatusBadRequest, "Exactly one of image_url and storage_path is required")
		return
	}
	if err := validateCropRequest(&req.Request); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	job := &models.CropJob{
		ID:          uuid.New().String(),
		ImageURL:    req.ImageURL,
		StoragePath: req.StoragePath,
		Request:     req.Request,
		CreatedAt:   time.Now(),
	}

	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to queue job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to queue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *ImageHandler) GetJob(c *gin.Context) {
	if h.storage == nil || !h.storage.CacheEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, "Job store not configured")
		return
	}

	job, err := h.storage.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}
