package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apierrors "minutes/internal/api/errors"
	"minutes/internal/api/v1/dto"
	"minutes/internal/app/api"
	"minutes/internal/app/export"
	"minutes/internal/app/metrics"
	"minutes/internal/app/model"
	"minutes/internal/app/pipeline"
	"minutes/internal/app/repository"
	"minutes/internal/app/storage"
)

// Processor is the part of the pipeline this service drives.
type Processor interface {
	Process(ctx context.Context, audioFile string, opts pipeline.Options) (*model.TranscribeResult, error)
}

// TranscriptionServiceImpl implements TranscriptionService.
type TranscriptionServiceImpl struct {
	processor   Processor
	dao         repository.TranscriptionDAO
	summarizer  api.Summarizer // nil when no text model is configured
	exporter    *export.Writer
	inputBucket string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewTranscriptionService creates the service. summarizer may be nil.
func NewTranscriptionService(
	processor Processor,
	dao repository.TranscriptionDAO,
	summarizer api.Summarizer,
	exporter *export.Writer,
	inputBucket string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TranscriptionServiceImpl {
	return &TranscriptionServiceImpl{
		processor:   processor,
		dao:         dao,
		summarizer:  summarizer,
		exporter:    exporter,
		inputBucket: inputBucket,
		metrics:     m,
		logger:      logger,
	}
}

func (s *TranscriptionServiceImpl) UploadAndTranscribe(ctx context.Context, localPath, filename string, transcribe bool, language string) (*dto.TranscriptionResponse, error) {
	result, err := s.processor.Process(ctx, localPath, pipeline.Options{
		UploadOnly: !transcribe,
		Language:   language,
	})
	if err != nil {
		s.logger.Error("upload/transcribe step failed", zap.String("filename", filename), zap.Error(err))
		return nil, apierrors.NewInternalError(fmt.Sprintf("upload/transcribe step failed: %v", err))
	}

	return s.persistResult(ctx, filename, result)
}

func (s *TranscriptionServiceImpl) Trigger(ctx context.Context, key string, transcribe bool) (*dto.TranscriptionResponse, error) {
	if s.inputBucket == "" {
		return nil, apierrors.NewInternalError("server misconfigured: input bucket not set")
	}
	uri := storage.URI(s.inputBucket, key)
	s.logger.Info("processing storage trigger", zap.String("uri", uri))

	if !transcribe {
		row := &model.Transcription{
			Filename:   baseName(key),
			Transcript: "Uploaded to " + uri,
			Speakers:   model.EncodeSpeakers(nil),
		}
		return s.insertAndExport(ctx, row, &model.TranscribeResult{ObjectURI: uri})
	}

	result, err := s.processor.Process(ctx, uri, pipeline.Options{})
	if err != nil {
		s.logger.Error("transcription from storage failed", zap.String("uri", uri), zap.Error(err))
		return nil, apierrors.NewInternalError(fmt.Sprintf("transcription failed: %v", err))
	}
	return s.persistResult(ctx, baseName(key), result)
}

func (s *TranscriptionServiceImpl) persistResult(ctx context.Context, filename string, result *model.TranscribeResult) (*dto.TranscriptionResponse, error) {
	transcript := result.Text
	if transcript == "" && result.ObjectURI != "" {
		transcript = "Uploaded to " + result.ObjectURI
	}

	row := &model.Transcription{
		Filename:   filename,
		Transcript: transcript,
		Speakers:   model.EncodeSpeakers(result.Speakers),
	}
	resp, err := s.insertAndExport(ctx, row, result)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *TranscriptionServiceImpl) insertAndExport(ctx context.Context, row *model.Transcription, result *model.TranscribeResult) (*dto.TranscriptionResponse, error) {
	id, err := s.dao.Insert(ctx, row)
	if err != nil {
		s.logger.Error("failed to persist transcription", zap.Error(err))
		return nil, apierrors.NewInternalError("failed to persist transcription")
	}
	row.ID = id

	resp := dto.FromModel(row)
	resp.UploadMeta = result

	// Non-essential persistence: export failures never block the response.
	saved, err := s.exporter.SaveTranscriptAndSummary(ctx, row.Transcript, row.Summary, exportBase(row))
	if err != nil {
		s.logger.Error("failed to save transcript/summary exports", zap.Error(err))
		return &resp, nil
	}
	resp.TranscriptS3 = saved.TranscriptURI
	resp.SummaryS3 = saved.SummaryURI
	return &resp, nil
}

func (s *TranscriptionServiceImpl) SaveDirect(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	speakers := req.Speakers
	if speakers == "" {
		speakers = "[]"
	}
	row := &model.Transcription{
		Filename:   req.Filename,
		Transcript: req.Transcript,
		Speakers:   speakers,
	}
	return s.insertAndExport(ctx, row, nil)
}

func (s *TranscriptionServiceImpl) Get(ctx context.Context, id int64) (*dto.TranscriptionResponse, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModel(row)
	return &resp, nil
}

func (s *TranscriptionServiceImpl) List(ctx context.Context, limit int) (*dto.ListTranscriptionsResponse, error) {
	rows, err := s.dao.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list transcriptions", zap.Error(err))
		return nil, apierrors.NewInternalError("failed to list transcriptions")
	}
	items := make([]dto.TranscriptionResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.FromModel(&rows[i]))
	}
	return &dto.ListTranscriptionsResponse{Items: items, Count: len(items)}, nil
}

func (s *TranscriptionServiceImpl) Summarize(ctx context.Context, id int64, language string, temperature float32) (*dto.SummarizeResponse, error) {
	if s.summarizer == nil {
		return nil, apierrors.NewServiceUnavailableError("no text-generation provider configured")
	}

	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, row.Transcript, model.DecodeSpeakers(row.Speakers), language, temperature)
	if err != nil {
		s.metrics.SummariesTotal.WithLabelValues("failure").Inc()
		s.logger.Error("summarization failed", zap.Int64("id", id), zap.Error(err))
		return nil, apierrors.NewInternalError(fmt.Sprintf("summarization error: %v", err))
	}
	s.metrics.SummariesTotal.WithLabelValues("success").Inc()

	if err := s.dao.UpdateSummary(ctx, id, summary); err != nil {
		s.logger.Error("failed to attach summary", zap.Int64("id", id), zap.Error(err))
		return nil, apierrors.NewInternalError("failed to attach summary")
	}

	resp := &dto.SummarizeResponse{Summary: summary}
	row.Summary = summary
	saved, err := s.exporter.SaveTranscriptAndSummary(ctx, row.Transcript, summary, exportBase(row))
	if err != nil {
		s.logger.Error("failed to save transcript/summary exports", zap.Error(err))
		return resp, nil
	}
	resp.TranscriptS3 = saved.TranscriptURI
	resp.SummaryS3 = saved.SummaryURI
	return resp, nil
}

func (s *TranscriptionServiceImpl) Export(ctx context.Context, id int64) (*dto.ExportResult, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}

	saved, err := s.exporter.SaveTranscriptAndSummary(ctx, row.Transcript, row.Summary, exportBase(row))
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("export failed: %v", err))
	}

	result := &dto.ExportResult{
		Filename: exportBase(row) + "_summary.md",
	}
	if saved.SummaryURI != "" {
		bucket, key, err := storage.ParseURI(saved.SummaryURI)
		if err == nil {
			result.URI = saved.SummaryURI
			result.Bucket = bucket
			result.Key = key
			return result, nil
		}
	}

	// Upload unavailable: serve the markdown inline.
	result.Markdown = export.SummaryMarkdown(exportBase(row), saved.Timestamp, row.Summary, row.Transcript)
	return result, nil
}

func (s *TranscriptionServiceImpl) getRow(ctx context.Context, id int64) (*model.Transcription, error) {
	row, err := s.dao.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NewNotFoundError("Transcription")
		}
		s.logger.Error("failed to load transcription", zap.Int64("id", id), zap.Error(err))
		return nil, apierrors.NewInternalError("failed to load transcription")
	}
	return row, nil
}

func exportBase(row *model.Transcription) string {
	if row.Filename != "" {
		return row.Filename
	}
	return fmt.Sprintf("meeting_%d", row.ID)
}

func baseName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}
