package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes/internal/api/errors"
	"minutes/internal/api/middleware"
	"minutes/internal/api/v1/dto"
)

// fakeTranscriptionService returns canned responses per method.
type fakeTranscriptionService struct {
	uploadResp   *dto.TranscriptionResponse
	uploadErr    error
	lastUpload   struct {
		filename   string
		transcribe bool
		language   string
	}
	getResp  *dto.TranscriptionResponse
	getErr   error
	listResp *dto.ListTranscriptionsResponse
	sumResp  *dto.SummarizeResponse
	sumErr   error
	expResp  *dto.ExportResult
}

func (f *fakeTranscriptionService) UploadAndTranscribe(ctx context.Context, localPath, filename string, transcribe bool, language string) (*dto.TranscriptionResponse, error) {
	f.lastUpload.filename = filename
	f.lastUpload.transcribe = transcribe
	f.lastUpload.language = language
	return f.uploadResp, f.uploadErr
}

func (f *fakeTranscriptionService) SaveDirect(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	return &dto.TranscriptionResponse{ID: 1, Filename: req.Filename, Transcript: req.Transcript}, nil
}

func (f *fakeTranscriptionService) Trigger(ctx context.Context, key string, transcribe bool) (*dto.TranscriptionResponse, error) {
	return f.uploadResp, f.uploadErr
}

func (f *fakeTranscriptionService) Get(ctx context.Context, id int64) (*dto.TranscriptionResponse, error) {
	return f.getResp, f.getErr
}

func (f *fakeTranscriptionService) List(ctx context.Context, limit int) (*dto.ListTranscriptionsResponse, error) {
	return f.listResp, nil
}

func (f *fakeTranscriptionService) Summarize(ctx context.Context, id int64, language string, temperature float32) (*dto.SummarizeResponse, error) {
	return f.sumResp, f.sumErr
}

func (f *fakeTranscriptionService) Export(ctx context.Context, id int64) (*dto.ExportResult, error) {
	return f.expResp, nil
}

func newTestRouter(svc *fakeTranscriptionService, maxUploadBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))

	h := NewTranscriptionHandler(svc, maxUploadBytes)
	v1 := router.Group("/api/v1")
	transcriptions := v1.Group("/transcriptions")
	transcriptions.POST("", h.Create)
	transcriptions.POST("/upload", h.Upload)
	transcriptions.GET("/:id", h.Get)
	transcriptions.GET("", h.List)
	transcriptions.POST("/:id/summary", h.Summarize)
	transcriptions.GET("/:id/export", h.Export)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate_Validation(t *testing.T) {
	router := newTestRouter(&fakeTranscriptionService{}, 1024)

	w := doJSON(router, http.MethodPost, "/api/v1/transcriptions", map[string]string{"filename": "a.mp3"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var apiErr errors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Details, "transcript")
}

func TestCreate_Success(t *testing.T) {
	router := newTestRouter(&fakeTranscriptionService{}, 1024)

	w := doJSON(router, http.MethodPost, "/api/v1/transcriptions", map[string]string{
		"filename":   "a.mp3",
		"transcript": "hello",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a.mp3", resp.Filename)
}

func TestGet_InvalidID(t *testing.T) {
	router := newTestRouter(&fakeTranscriptionService{}, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet_NotFound(t *testing.T) {
	svc := &fakeTranscriptionService{getErr: errors.NewNotFoundError("Transcription")}
	router := newTestRouter(svc, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGet_Success(t *testing.T) {
	svc := &fakeTranscriptionService{getResp: &dto.TranscriptionResponse{
		ID: 42, Filename: "sync.mp3", CreatedAt: time.Now(),
	}}
	router := newTestRouter(svc, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
}

func TestList(t *testing.T) {
	svc := &fakeTranscriptionService{listResp: &dto.ListTranscriptionsResponse{
		Items: []dto.TranscriptionResponse{{ID: 2}, {ID: 1}},
		Count: 2,
	}}
	router := newTestRouter(svc, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions?limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListTranscriptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func multipartUpload(t *testing.T, fieldValues map[string]string, fileSize int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "meeting.mp3")
	require.NoError(t, err)
	_, err = fw.Write(make([]byte, fileSize))
	require.NoError(t, err)
	for k, v := range fieldValues {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	svc := &fakeTranscriptionService{uploadResp: &dto.TranscriptionResponse{ID: 7, Filename: "meeting.mp3"}}
	router := newTestRouter(svc, 1024)

	body, contentType := multipartUpload(t, map[string]string{"language": "en"}, 100)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "meeting.mp3", svc.lastUpload.filename)
	assert.True(t, svc.lastUpload.transcribe)
	assert.Equal(t, "en", svc.lastUpload.language)
}

func TestUpload_TranscribeFlagOff(t *testing.T) {
	svc := &fakeTranscriptionService{uploadResp: &dto.TranscriptionResponse{ID: 8}}
	router := newTestRouter(svc, 1024)

	body, contentType := multipartUpload(t, map[string]string{"transcribe": "false"}, 100)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, svc.lastUpload.transcribe)
}

func TestUpload_TooLarge(t *testing.T) {
	router := newTestRouter(&fakeTranscriptionService{}, 64)

	body, contentType := multipartUpload(t, nil, 128)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	router := newTestRouter(&fakeTranscriptionService{}, 1024)

	w := doJSON(router, http.MethodPost, "/api/v1/transcriptions/upload", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarize_DefaultsWithoutBody(t *testing.T) {
	svc := &fakeTranscriptionService{sumResp: &dto.SummarizeResponse{Summary: "done"}}
	router := newTestRouter(svc, 1024)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions/5/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.SummarizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Summary)
}

func TestSummarize_ServiceUnavailable(t *testing.T) {
	svc := &fakeTranscriptionService{sumErr: errors.NewServiceUnavailableError("no text-generation provider configured")}
	router := newTestRouter(svc, 1024)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions/5/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExport_InlineMarkdown(t *testing.T) {
	svc := &fakeTranscriptionService{expResp: &dto.ExportResult{
		Filename: "sync_summary.md",
		Markdown: "## sync\n\ncontent",
	}}
	router := newTestRouter(svc, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions/3/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sync_summary.md")
	assert.Contains(t, w.Body.String(), "## sync")
}

func TestExport_UploadedURI(t *testing.T) {
	svc := &fakeTranscriptionService{expResp: &dto.ExportResult{
		URI:    "s3://outputs/outputs/Summary/x.md",
		Bucket: "outputs",
		Key:    "outputs/Summary/x.md",
	}}
	router := newTestRouter(svc, 1024)

	w := doJSON(router, http.MethodGet, "/api/v1/transcriptions/3/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s3://outputs/outputs/Summary/x.md", resp["s3_uri"])
}
