package services

import (
	"context"

	"minutes/internal/api/v1/dto"
)

// TranscriptionService is the application service behind the transcription
// endpoints.
type TranscriptionService interface {
	// UploadAndTranscribe runs the pipeline on an uploaded file and persists
	// the outcome. transcribe=false stores the artifact only.
	UploadAndTranscribe(ctx context.Context, localPath, filename string, transcribe bool, language string) (*dto.TranscriptionResponse, error)

	// SaveDirect stores a transcript the client already has.
	SaveDirect(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error)

	// Trigger processes an object already present in the input bucket.
	Trigger(ctx context.Context, key string, transcribe bool) (*dto.TranscriptionResponse, error)

	Get(ctx context.Context, id int64) (*dto.TranscriptionResponse, error)

	List(ctx context.Context, limit int) (*dto.ListTranscriptionsResponse, error)

	// Summarize generates and attaches a summary to a stored transcription.
	Summarize(ctx context.Context, id int64, language string, temperature float32) (*dto.SummarizeResponse, error)

	// Export renders the summary markdown and uploads it when possible.
	Export(ctx context.Context, id int64) (*dto.ExportResult, error)
}

// StorageService issues presigned upload URLs for browser direct uploads.
type StorageService interface {
	Presign(ctx context.Context, filename string) (*dto.PresignResponse, error)
}
