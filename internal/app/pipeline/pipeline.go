// Package pipeline orchestrates one meeting audio artifact end to end:
// fetch, convert, upload, pick a transcription provider, combine the result.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"minutes/internal/app/api"
	"minutes/internal/app/audio"
	"minutes/internal/app/metrics"
	"minutes/internal/app/model"
	"minutes/internal/app/storage"
)

// ChunkedTranscriber is the payload-limit fallback path.
type ChunkedTranscriber interface {
	Transcribe(ctx context.Context, wavPath string, language string) (string, []model.SegmentResult, error)
}

// Options control one pipeline run.
type Options struct {
	// UploadOnly stores the artifact and skips every provider.
	UploadOnly bool
	// Language hints the provider; "auto" or empty enables detection.
	Language string
}

// Pipeline is strictly sequential: all I/O blocks, segments run one at a
// time, and every temp file is removed on all exit paths.
type Pipeline struct {
	store       storage.ObjectStore
	hosted      api.SpeechProvider // nil when not configured
	fallback    ChunkedTranscriber // nil when not configured
	inputPrefix string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// New assembles a pipeline. hosted and fallback may each be nil; with both
// nil the pipeline runs in upload-only mode.
func New(store storage.ObjectStore, hosted api.SpeechProvider, fallback ChunkedTranscriber,
	inputPrefix string, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		store:       store,
		hosted:      hosted,
		fallback:    fallback,
		inputPrefix: inputPrefix,
		metrics:     m,
		logger:      logger,
	}
}

// Process accepts a local path or an s3:// URI. It converts to mp3, uploads
// to the input bucket, then follows the provider policy: hosted provider if
// configured, chunked fallback on its failure, upload-only when nothing is
// configured. Fatal setup errors (missing encoder, missing input) abort the
// whole run.
func (p *Pipeline) Process(ctx context.Context, audioFile string, opts Options) (*model.TranscribeResult, error) {
	if audioFile == "" {
		return nil, fmt.Errorf("no audio file provided")
	}

	var tempFiles []string
	defer func() { audio.RemoveTempFiles(tempFiles) }()

	localIn := audioFile
	if storage.IsURI(audioFile) {
		downloaded, err := p.store.Download(ctx, audioFile)
		if err != nil {
			return nil, err
		}
		tempFiles = append(tempFiles, downloaded)
		localIn = downloaded
	}

	mp3Path, err := audio.ConvertToMP3(ctx, localIn)
	if err != nil {
		return nil, err
	}
	if mp3Path != localIn {
		tempFiles = append(tempFiles, mp3Path)
	}

	key := storage.ObjectKey(p.inputPrefix, filepath.Base(mp3Path))
	uri, err := p.store.Upload(ctx, mp3Path, key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(mp3Path)
	if err != nil {
		return nil, fmt.Errorf("uploaded file vanished: %w", err)
	}
	p.metrics.UploadedBytes.Add(float64(info.Size()))
	p.logger.Info("audio uploaded", zap.String("uri", uri), zap.Int64("size", info.Size()))

	result := &model.TranscribeResult{ObjectURI: uri, FileSize: info.Size()}
	if opts.UploadOnly {
		return result, nil
	}

	if p.hosted != nil {
		hostedResult, err := p.hosted.Transcribe(ctx, mp3Path, opts.Language)
		if err == nil {
			p.metrics.TranscriptionsTotal.WithLabelValues(p.hosted.Name(), "success").Inc()
			result.Text = hostedResult.Text
			result.Speakers = hostedResult.Speakers
			result.Provider = p.hosted.Name()
			result.Raw = hostedResult.Raw
			return result, nil
		}
		p.metrics.TranscriptionsTotal.WithLabelValues(p.hosted.Name(), "failure").Inc()
		p.logger.Warn("hosted transcription failed, falling back to chunked path",
			zap.String("provider", p.hosted.Name()), zap.Error(err))
	}

	if p.fallback == nil {
		p.logger.Info("no speech provider configured, returning upload-only result")
		return result, nil
	}

	wavPath, err := audio.ConvertToWAV(ctx, mp3Path)
	if err != nil {
		return nil, err
	}
	if wavPath != mp3Path {
		tempFiles = append(tempFiles, wavPath)
	}

	text, segments, err := p.fallback.Transcribe(ctx, wavPath, opts.Language)
	if err != nil {
		p.metrics.TranscriptionsTotal.WithLabelValues("whisper-chunked", "failure").Inc()
		return nil, err
	}
	for _, seg := range segments {
		if seg.Failed() {
			p.metrics.SegmentsTotal.WithLabelValues("failure").Inc()
		} else {
			p.metrics.SegmentsTotal.WithLabelValues("success").Inc()
		}
	}
	p.metrics.TranscriptionsTotal.WithLabelValues("whisper-chunked", "success").Inc()

	result.Text = text
	result.Speakers = []model.Speaker{}
	result.Provider = "whisper-chunked"
	result.Segments = segments
	return result, nil
}
