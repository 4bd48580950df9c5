package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"minutes/internal/api/errors"
	"minutes/internal/api/middleware"
	"minutes/internal/api/v1/dto"
	"minutes/internal/api/v1/services"
)

const defaultListLimit = 50

// TranscriptionHandler handles transcription-related HTTP requests
type TranscriptionHandler struct {
	service        services.TranscriptionService
	maxUploadBytes int64
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService, maxUploadBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create handles POST /api/v1/transcriptions
func (h *TranscriptionHandler) Create(c *gin.Context) {
	var req dto.CreateTranscriptionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.SaveDirect(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Upload handles POST /api/v1/transcriptions/upload (multipart audio upload)
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("multipart field 'file' is required"))
		return
	}

	if file.Size > h.maxUploadBytes {
		middleware.HandleError(c, errors.NewPayloadTooLargeError(
			fmt.Sprintf("file exceeds upload limit of %d bytes", h.maxUploadBytes)))
		return
	}

	// Flag accepted as query param or form field; default is to transcribe.
	flag := c.Query("transcribe")
	if flag == "" {
		flag = c.DefaultPostForm("transcribe", "true")
	}
	transcribe := flag != "false"

	language := c.Query("language")
	if language == "" {
		language = c.PostForm("language")
	}

	tmpDir, err := os.MkdirTemp("", "minutes_upload_*")
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to stage upload"))
		return
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to stage upload"))
		return
	}

	resp, err := h.service.UploadAndTranscribe(c.Request.Context(), localPath, file.Filename, transcribe, language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/v1/transcriptions/:id
func (h *TranscriptionHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/transcriptions
func (h *TranscriptionHandler) List(c *gin.Context) {
	limit := defaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	resp, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Summarize handles POST /api/v1/transcriptions/:id/summary
func (h *TranscriptionHandler) Summarize(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.SummarizeRequest
	if c.Request.ContentLength > 0 {
		if err := middleware.ValidateRequest(c, &req); err != nil {
			middleware.HandleError(c, err)
			return
		}
	}

	temperature := float32(0.3)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	resp, err := h.service.Summarize(c.Request.Context(), id, req.Language, temperature)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Export handles GET /api/v1/transcriptions/:id/export
func (h *TranscriptionHandler) Export(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.Export(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if result.URI != "" {
		c.JSON(http.StatusOK, result)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(result.Markdown))
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid transcription id")
	}
	return id, nil
}
