package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes/internal/api/errors"
	"minutes/internal/api/middleware"
	"minutes/internal/api/v1/dto"
)

type stubTranscriptionService struct{}

func (s *stubTranscriptionService) UploadAndTranscribe(ctx context.Context, localPath, filename string, transcribe bool, language string) (*dto.TranscriptionResponse, error) {
	return &dto.TranscriptionResponse{}, nil
}

func (s *stubTranscriptionService) SaveDirect(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	return &dto.TranscriptionResponse{}, nil
}

func (s *stubTranscriptionService) Trigger(ctx context.Context, key string, transcribe bool) (*dto.TranscriptionResponse, error) {
	return &dto.TranscriptionResponse{}, nil
}

func (s *stubTranscriptionService) Get(ctx context.Context, id int64) (*dto.TranscriptionResponse, error) {
	return nil, errors.NewNotFoundError("Transcription")
}

func (s *stubTranscriptionService) List(ctx context.Context, limit int) (*dto.ListTranscriptionsResponse, error) {
	return &dto.ListTranscriptionsResponse{Items: []dto.TranscriptionResponse{}}, nil
}

func (s *stubTranscriptionService) Summarize(ctx context.Context, id int64, language string, temperature float32) (*dto.SummarizeResponse, error) {
	return nil, errors.NewNotFoundError("Transcription")
}

func (s *stubTranscriptionService) Export(ctx context.Context, id int64) (*dto.ExportResult, error) {
	return nil, errors.NewNotFoundError("Transcription")
}

// The request ID assigned by the global middleware must survive the v1 chain
// unchanged: the ID seen right after assignment and the one echoed in the
// response header have to agree.
func TestRegisterRoutes_RequestIDStableThroughChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	var seen string
	router.Use(func(c *gin.Context) {
		seen = c.GetString("request_id")
		c.Next()
	})

	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, &ServiceContainer{
		TranscriptionService: &stubTranscriptionService{},
		MaxUploadBytes:       1 << 20,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transcriptions", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRegisterRoutes_SkipsStorageWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, &ServiceContainer{
		TranscriptionService: &stubTranscriptionService{},
		MaxUploadBytes:       1 << 20,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storage/presign", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
