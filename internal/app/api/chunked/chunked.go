// Package chunked implements the payload-limit fallback path: oversized audio
// is split into time-bounded segments, each segment is transcribed
// independently and the texts are recombined in order.
package chunked

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"minutes/internal/app/api"
	"minutes/internal/app/audio"
	"minutes/internal/app/model"
)

// Transcriber drives sequential per-segment transcription with per-segment
// error containment.
type Transcriber struct {
	segments api.SegmentTranscriber
	splitter audio.Splitter
	maxBytes int64
	logger   *zap.Logger
}

// NewTranscriber wires a per-segment transcriber to a splitter under the
// given provider payload limit.
func NewTranscriber(segments api.SegmentTranscriber, splitter audio.Splitter, maxBytes int64, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		segments: segments,
		splitter: splitter,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Transcribe splits wavPath as needed, transcribes each segment in
// chronological order and concatenates the non-empty texts with newlines.
// A failing segment contributes a placeholder and a tagged error result;
// later segments still run. Split-produced temp files are removed before
// returning.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath string, language string) (string, []model.SegmentResult, error) {
	info, err := os.Stat(wavPath)
	if err != nil {
		return "", nil, fmt.Errorf("audio file missing: %s", wavPath)
	}

	chunks := []string{wavPath}
	if info.Size() > t.maxBytes {
		t.logger.Info("audio exceeds provider limit, splitting",
			zap.Int64("size", info.Size()),
			zap.Int64("max_bytes", t.maxBytes))
		chunks, err = t.splitter.Split(ctx, wavPath, t.maxBytes)
		if err != nil {
			return "", nil, err
		}
		t.logger.Info("created segments", zap.Int("count", len(chunks)))
	}
	defer func() {
		for _, ch := range chunks {
			if ch != wavPath {
				_ = os.Remove(ch)
			}
		}
	}()

	texts := make([]string, 0, len(chunks))
	results := make([]model.SegmentResult, 0, len(chunks))
	for i, chunk := range chunks {
		payload, err := t.segments.Transcribe(ctx, chunk, language)
		if err != nil {
			t.logger.Error("segment transcription failed",
				zap.Int("index", i), zap.Error(err))
			texts = append(texts, model.ErrSegmentPlaceholder)
			results = append(results, model.SegmentResult{Index: i, ChunkError: err.Error()})
			continue
		}
		texts = append(texts, payload.Text)
		results = append(results, model.SegmentResult{Index: i, Payload: payload})
	}

	combined := strings.TrimSpace(strings.Join(
		lo.Filter(texts, func(s string, _ int) bool { return s != "" }), "\n"))
	return combined, results, nil
}
