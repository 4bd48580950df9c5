package routes

import (
	"github.com/gin-gonic/gin"

	"minutes/internal/api/v1/handlers"
	"minutes/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	StorageService       services.StorageService
	MaxUploadBytes       int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService, container.MaxUploadBytes)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", transcriptionHandler.Create)
		transcriptions.POST("/upload", transcriptionHandler.Upload)
		transcriptions.GET("/:id", transcriptionHandler.Get)
		transcriptions.GET("", transcriptionHandler.List)
		transcriptions.POST("/:id/summary", transcriptionHandler.Summarize)
		transcriptions.GET("/:id/export", transcriptionHandler.Export)
	}

	// Storage routes require an object store; skipped in local-only mode.
	if container.StorageService != nil {
		storageHandler := handlers.NewStorageHandler(container.StorageService, container.TranscriptionService)
		storage := router.Group("/storage")
		{
			storage.POST("/presign", storageHandler.Presign)
			storage.POST("/trigger", storageHandler.Trigger)
		}
	}
}
