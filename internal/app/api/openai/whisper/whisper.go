package whisper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"minutes/internal/app/model"
)

// RemoteTranscriber transcribes one audio segment at a time through the
// OpenAI speech API.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, speechModel string) *RemoteTranscriber {
	if speechModel == "" {
		speechModel = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: speechModel}
}

// Transcribe sends a single segment and returns the provider payload.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, filePath string, language string) (*model.SegmentPayload, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: filePath,
	}
	if language != "" && language != "auto" {
		req.Language = language
	}

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		raw = nil
	}
	return &model.SegmentPayload{Text: resp.Text, Raw: raw}, nil
}
