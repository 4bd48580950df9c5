// Package assemblyai implements the hosted speech-to-text provider. It is
// preferred over the chunked fallback whenever its API key is configured.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"minutes/internal/app/model"
)

const (
	statusCompleted = "completed"
	statusError     = "error"
)

// Client is a minimal AssemblyAI REST client: upload, submit, poll.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewClient creates a provider client. baseURL is overridable for tests.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.assemblyai.com"
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 15 * time.Minute},
		pollInterval: 3 * time.Second,
		logger:       logger,
	}
}

// Name implements api.SpeechProvider.
func (c *Client) Name() string { return "assemblyai" }

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	LanguageDetection bool   `json:"language_detection,omitempty"`
	LanguageCode      string `json:"language_code,omitempty"`
}

type utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type transcriptResponse struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Text       string      `json:"text"`
	Error      string      `json:"error"`
	Utterances []utterance `json:"utterances"`
}

// Transcribe uploads the whole file, submits a transcription job with speaker
// labels and polls it to completion.
func (c *Client) Transcribe(ctx context.Context, filePath string, language string) (*model.SpeechResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("assemblyai api key not configured")
	}

	audioURL, err := c.upload(ctx, filePath)
	if err != nil {
		return nil, err
	}

	id, err := c.submit(ctx, audioURL, language)
	if err != nil {
		return nil, err
	}
	c.logger.Info("assemblyai transcription submitted", zap.String("id", id))

	return c.poll(ctx, id)
}

func (c *Client) upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio for upload: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("assemblyai upload failed: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("assemblyai upload returned no URL")
	}
	return out.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL, language string) (string, error) {
	body := transcriptRequest{
		AudioURL:      audioURL,
		SpeakerLabels: true,
	}
	if language == "" || language == "auto" {
		body.LanguageDetection = true
	} else {
		body.LanguageCode = language
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("assemblyai submit failed: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("assemblyai submit returned no id")
	}
	return out.ID, nil
}

func (c *Client) poll(ctx context.Context, id string) (*model.SpeechResult, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+id, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("authorization", c.apiKey)

		raw, status, err := c.doRaw(req)
		if err != nil {
			return nil, fmt.Errorf("assemblyai poll failed: %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("assemblyai poll returned status %d", status)
		}

		var resp transcriptResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("assemblyai poll decode: %w", err)
		}

		switch resp.Status {
		case statusCompleted:
			return buildResult(&resp, raw), nil
		case statusError:
			return nil, fmt.Errorf("assemblyai transcription error: %s", resp.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func buildResult(resp *transcriptResponse, raw json.RawMessage) *model.SpeechResult {
	seen := map[string]bool{}
	var names []string
	var b strings.Builder

	for _, u := range resp.Utterances {
		speaker := u.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		fmt.Fprintf(&b, "Speaker %s: %s\n", speaker, u.Text)
		if !seen[speaker] {
			seen[speaker] = true
			names = append(names, speaker)
		}
	}

	text := b.String()
	if text == "" {
		text = resp.Text
		if text == "" {
			text = "(No speech detected or transcription empty)"
		}
		if !seen["Unknown"] {
			names = append(names, "Unknown")
		}
	}

	sortSpeakers(names)
	speakers := make([]model.Speaker, 0, len(names))
	for _, n := range names {
		speakers = append(speakers, model.Speaker{Speaker: n})
	}

	return &model.SpeechResult{Text: text, Speakers: speakers, Raw: raw}
}

// sortSpeakers orders numeric labels numerically ahead of lexical ones.
func sortSpeakers(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ni, iErr := strconv.Atoi(names[i])
		nj, jErr := strconv.Atoi(names[j])
		switch {
		case iErr == nil && jErr == nil:
			return ni < nj
		case iErr == nil:
			return true
		case jErr == nil:
			return false
		default:
			return names[i] < names[j]
		}
	})
}

func (c *Client) do(req *http.Request, out any) error {
	raw, status, err := c.doRaw(req)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("status %d: %s", status, truncate(string(raw), 200))
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) doRaw(req *http.Request) (json.RawMessage, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
