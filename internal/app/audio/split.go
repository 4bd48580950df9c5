package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MinSegmentSeconds is the floor for the derived segment duration. Splitting
// below it produces segments too short to transcribe meaningfully.
const MinSegmentSeconds = 5

// maxSplitDepth bounds the recursive re-splitting of oversized segments. The
// byte budget halves at each level, so a segment that is still over the limit
// at this depth cannot shrink (the duration estimate is off); it is accepted
// as-is with a warning instead of looping toward the duration floor.
const maxSplitDepth = 4

// SplitPlan derives the target segment duration for a file of fileSize bytes
// under a maxBytes payload limit. It returns split=false when the file fits
// in one unit (the limit is inclusive) or when the derived duration would
// cover the whole file anyway. minSeconds floors the derived duration; zero
// or negative means MinSegmentSeconds.
func SplitPlan(fileSize, maxBytes int64, duration float64, minSeconds int) (targetSeconds int, split bool) {
	if fileSize <= maxBytes {
		return 0, false
	}
	if duration < 0.001 {
		duration = 0.001
	}
	if minSeconds <= 0 {
		minSeconds = MinSegmentSeconds
	}
	bytesPerSecond := float64(fileSize) / duration
	targetSeconds = int(float64(maxBytes) / bytesPerSecond)
	if targetSeconds < minSeconds {
		targetSeconds = minSeconds
	}
	if targetSeconds >= int(duration) {
		return 0, false
	}
	return targetSeconds, true
}

// Splitter slices an audio file into segments that fit a provider payload
// limit. Returned paths are in chronological order; paths other than the
// input are temporary files owned by the caller.
type Splitter interface {
	Split(ctx context.Context, wavPath string, maxBytes int64) ([]string, error)
}

// FFmpegSplitter splits with a lossless stream copy (`-f segment -c copy`),
// no re-encoding.
type FFmpegSplitter struct {
	logger     *zap.Logger
	minSeconds int
}

// NewFFmpegSplitter creates a splitter logging through the given logger.
// minSeconds floors the derived segment duration; zero means the default.
func NewFFmpegSplitter(logger *zap.Logger, minSeconds int) *FFmpegSplitter {
	return &FFmpegSplitter{logger: logger, minSeconds: minSeconds}
}

// Split returns the input path alone when the file is at or below maxBytes.
// Otherwise it cuts consecutive fixed-duration segments; any segment still
// over the limit (variable bitrate skew) is re-split with half the byte
// budget, down to maxSplitDepth.
func (s *FFmpegSplitter) Split(ctx context.Context, wavPath string, maxBytes int64) ([]string, error) {
	return s.split(ctx, wavPath, maxBytes, 0)
}

func (s *FFmpegSplitter) split(ctx context.Context, wavPath string, maxBytes int64, depth int) ([]string, error) {
	info, err := os.Stat(wavPath)
	if err != nil {
		return nil, fmt.Errorf("wav path missing: %s", wavPath)
	}
	fileSize := info.Size()

	duration := Duration(ctx, wavPath)
	targetSeconds, split := SplitPlan(fileSize, maxBytes, duration, s.minSeconds)
	if !split {
		if fileSize > maxBytes {
			s.logger.Warn("segment cannot be split further, accepting oversize",
				zap.String("path", wavPath),
				zap.Int64("size", fileSize),
				zap.Int64("max_bytes", maxBytes))
		}
		return []string{wavPath}, nil
	}

	if depth >= maxSplitDepth {
		s.logger.Warn("max split depth reached, accepting oversize segment",
			zap.String("path", wavPath),
			zap.Int64("size", fileSize),
			zap.Int64("max_bytes", maxBytes),
			zap.Int("depth", depth))
		return []string{wavPath}, nil
	}

	ffmpeg, err := FindFFmpeg()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(wavPath)
	stem := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	pattern := filepath.Join(dir, stem+"_seg_%03d.wav")

	s.logger.Info("splitting audio into segments",
		zap.String("path", wavPath),
		zap.Int64("size", fileSize),
		zap.Float64("duration_sec", duration),
		zap.Int("segment_seconds", targetSeconds))

	args := []string{"-y", "-i", wavPath,
		"-f", "segment", "-segment_time", strconv.Itoa(targetSeconds),
		"-c", "copy", pattern}
	if err := runFFmpeg(ctx, ffmpeg, args...); err != nil {
		return nil, err
	}

	segments, err := filepath.Glob(filepath.Join(dir, stem+"_seg_*.wav"))
	if err != nil || len(segments) == 0 {
		return []string{wavPath}, nil
	}
	sortSegments(segments)

	var final []string
	for _, seg := range segments {
		segInfo, err := os.Stat(seg)
		if err != nil {
			continue
		}
		if segInfo.Size() <= maxBytes {
			final = append(final, seg)
			continue
		}
		s.logger.Warn("segment still over limit, re-splitting with halved budget",
			zap.String("segment", seg),
			zap.Int64("size", segInfo.Size()),
			zap.Int64("max_bytes", maxBytes))
		resplit, err := s.split(ctx, seg, maxBytes/2, depth+1)
		if err != nil {
			return nil, err
		}
		if len(resplit) == 1 && resplit[0] == seg {
			final = append(final, seg)
			continue
		}
		final = append(final, resplit...)
		_ = os.Remove(seg)
	}

	if len(final) == 0 {
		return []string{wavPath}, nil
	}
	return final, nil
}

// sortSegments orders segment files chronologically. The ffmpeg pattern pads
// indexes to three digits, so a lexical sort breaks past 999 segments; the
// trailing index is compared numerically instead.
func sortSegments(segments []string) {
	sort.Slice(segments, func(i, j int) bool {
		return segmentIndex(segments[i]) < segmentIndex(segments[j])
	})
}

func segmentIndex(path string) int {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(stem, "_seg_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(stem[idx+len("_seg_"):])
	if err != nil {
		return 0
	}
	return n
}
