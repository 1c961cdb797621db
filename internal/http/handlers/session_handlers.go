package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/editor"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"go.uber.org/zap"
)

func (h *ImageHandler) CreateSession(c *gin.Context) {
	var layout models.Layout
	if err := c.ShouldBindJSON(&layout); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid layout: "+err.Error())
		return
	}

	session, err := h.sessions.Create(layout)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    session.Snapshot(),
	})
}

func (h *ImageHandler) GetSession(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}
	h.respondSnapshot(c, session)
}

func (h *ImageHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// PickImage is the picker result: the uploaded photo becomes the displayed
// image of the session.
func (h *ImageHandler) PickImage(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	file, _, err := h.getUploadedFile(c, imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	if err := h.processor.ValidateImage(file, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid image: "+err.Error())
		return
	}

	img, format, err := h.processor.DecodeImage(file)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := session.Pick(img, format); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.respondSnapshot(c, session)
}

func (h *ImageHandler) GetSessionImage(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	img, _ := session.Image()
	if img == nil {
		h.respondServiceError(c, processor.ErrNoImage)
		return
	}

	h.respondPNG(c, img)
}

func (h *ImageHandler) ApplyGesture(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var gesture models.Gesture
	if err := c.ShouldBindJSON(&gesture); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid gesture: "+err.Error())
		return
	}

	if err := session.Gesture(gesture); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.respondSnapshot(c, session)
}

func (h *ImageHandler) ResetTransform(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	session.ResetTransform()
	h.respondSnapshot(c, session)
}

func (h *ImageHandler) CropSession(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	outcome, err := h.cropSession(session)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.buildCroppedImage(session.ID(), outcome),
	})
}

// SaveSession crops the displayed image and writes the result to the
// document directory, mirroring it remotely when enabled.
func (h *ImageHandler) SaveSession(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	outcome, err := h.cropSession(session)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	result := h.buildCroppedImage(session.ID(), outcome)

	saved, err := h.persister.Save(outcome.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Data:    result,
			Error:   "Failed to save cropped image",
		})
		return
	}

	result.Saved = true
	result.Path = saved.Path
	result.Format = saved.Format
	result.FileSize = int64(len(saved.Data))
	result.URL = h.mirrorToStorage(c.Request.Context(), saved)

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

func (h *ImageHandler) PreviewSession(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	width := 0
	if value := c.Query("width"); value != "" {
		w, err := h.parsePositiveInt(value, "width")
		if err != nil {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		width = w
	}

	img, err := session.Preview(width)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.respondPNG(c, img)
}

// === SESSION HELPERS ===

func (h *ImageHandler) lookupSession(c *gin.Context) (*editor.Session, bool) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return nil, false
	}
	return session, true
}

func (h *ImageHandler) cropSession(session *editor.Session) (*processor.CropOutcome, error) {
	outcome, err := session.Crop()
	if err != nil {
		return nil, err
	}
	if outcome.Rotated {
		h.logger.Warn("Crop ignores view rotation", zap.String("session_id", session.ID()))
	}
	return outcome, nil
}

func (h *ImageHandler) buildCroppedImage(id string, outcome *processor.CropOutcome) models.CroppedImage {
	bounds := outcome.Image.Bounds()
	return models.CroppedImage{
		ID:        id,
		PixelRect: processor.ToPixelRect(outcome.PixelRect),
		Size:      models.PixelSize{Width: bounds.Dx(), Height: bounds.Dy()},
		Zoom:      outcome.Zoom,
		Rotated:   outcome.Rotated,
		CroppedAt: time.Now(),
	}
}

func (h *ImageHandler) respondSnapshot(c *gin.Context, session *editor.Session) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session.Snapshot(),
	})
}
