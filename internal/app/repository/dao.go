package repository

import (
	"context"

	"minutes/internal/app/model"
)

// TranscriptionDAO is the single-table persistence layer for meeting
// transcriptions. Rows are created on upload or direct submission, mutated
// once when a summary is attached, and never deleted.
type TranscriptionDAO interface {
	Close() error

	Insert(ctx context.Context, t *model.Transcription) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.Transcription, error)

	List(ctx context.Context, limit int) ([]model.Transcription, error)

	UpdateSummary(ctx context.Context, id int64, summary string) error
}
