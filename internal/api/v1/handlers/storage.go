package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minutes/internal/api/middleware"
	"minutes/internal/api/v1/dto"
	"minutes/internal/api/v1/services"
)

// StorageHandler handles direct-upload storage requests
type StorageHandler struct {
	storage        services.StorageService
	transcriptions services.TranscriptionService
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(storage services.StorageService, transcriptions services.TranscriptionService) *StorageHandler {
	return &StorageHandler{
		storage:        storage,
		transcriptions: transcriptions,
	}
}

// Presign handles POST /api/v1/storage/presign
func (h *StorageHandler) Presign(c *gin.Context) {
	var req dto.PresignRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.storage.Presign(c.Request.Context(), req.Filename)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trigger handles POST /api/v1/storage/trigger
func (h *StorageHandler) Trigger(c *gin.Context) {
	var req dto.TriggerRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.transcriptions.Trigger(c.Request.Context(), req.Key, req.Transcribe)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
