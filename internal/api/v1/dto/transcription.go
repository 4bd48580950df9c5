package dto

import (
	"time"

	"minutes/internal/app/model"
	"minutes/internal/app/storage"
)

// TranscriptionResponse is the API shape of a stored transcription. Speakers
// stays the JSON-encoded string the row stores, matching what clients submit.
type TranscriptionResponse struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Transcript string    `json:"transcript"`
	Speakers   string    `json:"speakers"`
	Summary    string    `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	UploadMeta   *model.TranscribeResult `json:"upload_meta,omitempty"`
	TranscriptS3 string                  `json:"transcript_s3,omitempty"`
	SummaryS3    string                  `json:"summary_s3,omitempty"`
}

// CreateTranscriptionRequest saves a user-provided transcript directly.
type CreateTranscriptionRequest struct {
	Filename   string `json:"filename" binding:"required"`
	Transcript string `json:"transcript" binding:"required"`
	Speakers   string `json:"speakers"`
}

// SummarizeRequest controls summary generation for a stored transcription.
type SummarizeRequest struct {
	Language    string   `json:"language"`
	Temperature *float32 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
}

// SummarizeResponse returns the attached summary and export locations.
type SummarizeResponse struct {
	Summary      string `json:"summary"`
	TranscriptS3 string `json:"transcript_s3,omitempty"`
	SummaryS3    string `json:"summary_s3,omitempty"`
}

// ExportResult points at the exported markdown: an object URI when the
// output bucket took the upload, otherwise inline content for download.
type ExportResult struct {
	URI      string `json:"s3_uri,omitempty"`
	Key      string `json:"s3_key,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Filename string `json:"-"`
	Markdown string `json:"-"`
}

// PresignRequest asks for a browser direct-upload URL.
type PresignRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// PresignResponse carries the presigned upload target.
type PresignResponse struct {
	Presign *storage.PresignedURL `json:"presign"`
	Key     string                `json:"key"`
	Bucket  string                `json:"bucket"`
}

// TriggerRequest processes an object already uploaded to the input bucket.
type TriggerRequest struct {
	Key        string `json:"s3_key" binding:"required"`
	Transcribe bool   `json:"transcribe"`
}

// ListTranscriptionsResponse wraps the recent-first listing.
type ListTranscriptionsResponse struct {
	Items []TranscriptionResponse `json:"items"`
	Count int                     `json:"count"`
}

// FromModel converts a stored row to its API shape.
func FromModel(t *model.Transcription) TranscriptionResponse {
	return TranscriptionResponse{
		ID:         t.ID,
		Filename:   t.Filename,
		Transcript: t.Transcript,
		Speakers:   t.Speakers,
		Summary:    t.Summary,
		CreatedAt:  t.CreatedAt,
	}
}
