package api

import (
	"context"

	"minutes/internal/app/model"
)

// SegmentTranscriber transcribes a single audio file that already fits the
// provider's payload limit.
type SegmentTranscriber interface {
	Transcribe(ctx context.Context, filePath string, language string) (*model.SegmentPayload, error)
}

// SpeechProvider is a hosted speech-to-text service that handles a whole file
// in one call and can label speakers.
type SpeechProvider interface {
	Name() string
	Transcribe(ctx context.Context, filePath string, language string) (*model.SpeechResult, error)
}

// Summarizer turns a transcript into meeting minutes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, speakers []model.Speaker, language string, temperature float32) (string, error)
}
