package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-cropper/internal/http/handlers"
	"github.com/phambaophuc/image-cropper/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	upload := middleware.ValidateContentType()

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/stats", r.imageHandler.GetStats)
		v1.POST("/crop", upload, r.imageHandler.CropImage)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.imageHandler.CreateSession)
			sessions.GET("/:id", r.imageHandler.GetSession)
			sessions.DELETE("/:id", r.imageHandler.DeleteSession)
			sessions.POST("/:id/image", upload, r.imageHandler.PickImage)
			sessions.GET("/:id/image", r.imageHandler.GetSessionImage)
			sessions.POST("/:id/gestures", r.imageHandler.ApplyGesture)
			sessions.POST("/:id/transform/reset", r.imageHandler.ResetTransform)
			sessions.POST("/:id/crop", r.imageHandler.CropSession)
			sessions.POST("/:id/save", r.imageHandler.SaveSession)
			sessions.GET("/:id/preview", r.imageHandler.PreviewSession)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", r.imageHandler.SubmitJob)
			jobs.GET("/:id", r.imageHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Image cropper is running",
		})
	})

	return router
}
