package assemblyai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL, zap.NewNop())
	c.pollInterval = 5 * time.Millisecond
	return c
}

func audioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))
	return path
}

func TestTranscribe_FullFlow(t *testing.T) {
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("authorization"))
		json.NewEncoder(w).Encode(uploadResponse{UploadURL: "https://cdn.example/upload/abc"})
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req transcriptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.SpeakerLabels, "speaker labels are always requested")
		assert.True(t, req.LanguageDetection, "empty language enables detection")
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-1", Status: "queued"})
	})
	mux.HandleFunc("/v2/transcript/job-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 2 {
			json.NewEncoder(w).Encode(transcriptResponse{ID: "job-1", Status: "processing"})
			return
		}
		json.NewEncoder(w).Encode(transcriptResponse{
			ID:     "job-1",
			Status: "completed",
			Text:   "welcome everyone thanks for joining",
			Utterances: []utterance{
				{Speaker: "2", Text: "thanks for joining"},
				{Speaker: "1", Text: "welcome everyone"},
			},
		})
	})

	c := testClient(t, mux)
	result, err := c.Transcribe(context.Background(), audioFixture(t), "")
	require.NoError(t, err)

	assert.Equal(t, "Speaker 2: thanks for joining\nSpeaker 1: welcome everyone\n", result.Text)
	require.Len(t, result.Speakers, 2)
	// Numeric labels sort numerically regardless of utterance order.
	assert.Equal(t, "1", result.Speakers[0].Speaker)
	assert.Equal(t, "2", result.Speakers[1].Speaker)
	assert.NotEmpty(t, result.Raw)
	assert.GreaterOrEqual(t, polls, 2)
}

func TestTranscribe_LanguageCodePassedThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(uploadResponse{UploadURL: "https://cdn.example/upload/abc"})
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req transcriptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "de", req.LanguageCode)
		assert.False(t, req.LanguageDetection)
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-2", Status: "queued"})
	})
	mux.HandleFunc("/v2/transcript/job-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-2", Status: "completed", Text: "hallo"})
	})

	c := testClient(t, mux)
	result, err := c.Transcribe(context.Background(), audioFixture(t), "de")
	require.NoError(t, err)
	assert.Equal(t, "hallo", result.Text)
}

func TestTranscribe_JobError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(uploadResponse{UploadURL: "https://cdn.example/upload/abc"})
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-3", Status: "queued"})
	})
	mux.HandleFunc("/v2/transcript/job-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-3", Status: "error", Error: "unsupported codec"})
	})

	c := testClient(t, mux)
	_, err := c.Transcribe(context.Background(), audioFixture(t), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestTranscribe_UploadRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	})

	c := testClient(t, mux)
	_, err := c.Transcribe(context.Background(), audioFixture(t), "")
	assert.Error(t, err)
}

func TestTranscribe_NoKeyConfigured(t *testing.T) {
	c := NewClient("", "http://unused", zap.NewNop())
	_, err := c.Transcribe(context.Background(), audioFixture(t), "")
	assert.Error(t, err)
}

func TestBuildResult_EmptyUtterancesFallsBackToText(t *testing.T) {
	resp := &transcriptResponse{Status: "completed", Text: "plain transcript"}
	result := buildResult(resp, nil)
	assert.Equal(t, "plain transcript", result.Text)
	require.Len(t, result.Speakers, 1)
	assert.Equal(t, "Unknown", result.Speakers[0].Speaker)
}

func TestBuildResult_NothingDetected(t *testing.T) {
	result := buildResult(&transcriptResponse{Status: "completed"}, nil)
	assert.Equal(t, "(No speech detected or transcription empty)", result.Text)
}

func TestSortSpeakers(t *testing.T) {
	names := []string{"B", "10", "2", "A", "1"}
	sortSpeakers(names)
	assert.Equal(t, []string{"1", "2", "10", "A", "B"}, names)
}
