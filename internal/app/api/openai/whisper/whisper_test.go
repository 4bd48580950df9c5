package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaiapi "minutes/internal/app/api/openai"
)

func TestTranscribe_SendsSegmentAndParsesText(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		gotLanguage = r.FormValue("language")
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello from the meeting"})
	}))
	t.Cleanup(srv.Close)

	wav := filepath.Join(t.TempDir(), "segment.wav")
	require.NoError(t, os.WriteFile(wav, []byte("fake audio"), 0o644))

	rt := NewRemoteTranscriber(openaiapi.NewClient("key", srv.URL), "")
	payload, err := rt.Transcribe(context.Background(), wav, "en")
	require.NoError(t, err)
	assert.Equal(t, "hello from the meeting", payload.Text)
	assert.Equal(t, "en", gotLanguage)
	assert.NotEmpty(t, payload.Raw)
}

func TestTranscribe_AutoLanguageOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Empty(t, r.FormValue("language"))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	t.Cleanup(srv.Close)

	wav := filepath.Join(t.TempDir(), "segment.wav")
	require.NoError(t, os.WriteFile(wav, []byte("fake audio"), 0o644))

	rt := NewRemoteTranscriber(openaiapi.NewClient("key", srv.URL), "whisper-1")
	_, err := rt.Transcribe(context.Background(), wav, "auto")
	require.NoError(t, err)
}

func TestTranscribe_ProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"file too large"}}`, http.StatusRequestEntityTooLarge)
	}))
	t.Cleanup(srv.Close)

	wav := filepath.Join(t.TempDir(), "segment.wav")
	require.NoError(t, os.WriteFile(wav, []byte("fake audio"), 0o644))

	rt := NewRemoteTranscriber(openaiapi.NewClient("key", srv.URL), "")
	_, err := rt.Transcribe(context.Background(), wav, "")
	assert.Error(t, err)
}
