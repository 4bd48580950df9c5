// Package export writes transcript and summary artifacts locally and, best
// effort, to the output bucket. Upload failures here never block the primary
// response.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"minutes/internal/app/storage"
)

// Saved reports where the artifacts for one transcription ended up. The URI
// fields stay empty when the output bucket is unconfigured or the upload
// failed.
type Saved struct {
	TranscriptLocal string `json:"transcript_local"`
	TranscriptURI   string `json:"transcript_s3,omitempty"`
	SummaryLocal    string `json:"summary_local"`
	SummaryURI      string `json:"summary_s3,omitempty"`
	Timestamp       string `json:"timestamp"`
}

// Writer persists export artifacts. store may be nil (local-only mode).
type Writer struct {
	store  storage.ObjectStore
	outDir string
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a writer placing local artifacts under outDir.
func NewWriter(store storage.ObjectStore, outDir string, logger *zap.Logger) *Writer {
	if outDir == "" {
		outDir = filepath.Join(os.TempDir(), "meeting_summaries")
	}
	return &Writer{store: store, outDir: outDir, logger: logger, now: time.Now}
}

// SaveTranscriptAndSummary writes transcript (.txt) and summary (.md) files
// to deterministic paths and uploads each once. Local write failure is fatal;
// upload failure is logged and skipped.
func (w *Writer) SaveTranscriptAndSummary(ctx context.Context, transcript, summary, filenameBase string) (*Saved, error) {
	ts := w.now().UTC().Format("20060102_150405")
	base := storage.SanitizeForKey(filenameBase)
	if base == "unnamed" {
		base = "meeting"
	}

	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create outputs directory: %w", err)
	}

	transcriptLocal := filepath.Join(w.outDir, fmt.Sprintf("%s_%s.txt", base, ts))
	if err := os.WriteFile(transcriptLocal, []byte(transcript), 0o644); err != nil {
		return nil, fmt.Errorf("failed to save transcript locally: %w", err)
	}

	summaryLocal := filepath.Join(w.outDir, fmt.Sprintf("%s_%s.md", base, ts))
	md := fmt.Sprintf("# Summary (%s - %s)\n\n%s\n\n", base, ts, summary)
	if err := os.WriteFile(summaryLocal, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("failed to save summary locally: %w", err)
	}

	saved := &Saved{
		TranscriptLocal: transcriptLocal,
		SummaryLocal:    summaryLocal,
		Timestamp:       ts,
	}

	if w.store == nil {
		w.logger.Warn("output bucket not configured; artifacts kept local only")
		return saved, nil
	}

	saved.TranscriptURI = w.uploadOnce(ctx, transcriptLocal, fmt.Sprintf("outputs/Transcripts/%s.txt", ts))
	saved.SummaryURI = w.uploadOnce(ctx, summaryLocal, fmt.Sprintf("outputs/Summary/%s.md", ts))
	return saved, nil
}

func (w *Writer) uploadOnce(ctx context.Context, localPath, key string) string {
	uri, err := w.store.Upload(ctx, localPath, key)
	if err != nil {
		w.logger.Error("failed to upload export artifact",
			zap.String("key", key), zap.Error(err))
		return ""
	}
	return uri
}

// SummaryMarkdown renders the full markdown document served by the export
// endpoint: the summary followed by the complete transcript.
func SummaryMarkdown(filenameBase, timestamp, summary, transcript string) string {
	content := fmt.Sprintf("## %s - %s\n\n***\n\n### Summary\n\n%s\n\n", filenameBase, timestamp, summary)
	if transcript != "" {
		content += fmt.Sprintf("\n\n***\n\n### Full Transcript\n\n%s\n\n", transcript)
	}
	return content
}
