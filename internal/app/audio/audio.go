// Package audio wraps the ffmpeg/ffprobe shell-outs: format conversion,
// duration probing and payload-limit segmentation.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrFFmpegNotFound is returned when no usable ffmpeg binary can be located.
// It is fatal for the whole operation: nothing downstream can run without it.
var ErrFFmpegNotFound = errors.New("ffmpeg not found; set FFMPEG_PATH or install ffmpeg")

// estimateBytesPerSecond is the data rate of 16 kHz mono s16le audio, used to
// estimate duration when ffprobe is unavailable.
const estimateBytesPerSecond = 32000

// FindFFmpeg locates the ffmpeg binary, honoring FFMPEG_PATH.
func FindFFmpeg() (string, error) {
	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			return envPath, nil
		}
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", ErrFFmpegNotFound
	}
	return path, nil
}

func runFFmpeg(ctx context.Context, ffmpeg string, args ...string) error {
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return nil
}

// ConvertToMP3 converts any audio/video input to a mono 16 kHz mp3 for
// storage. Inputs that are already mp3 are returned unchanged.
func ConvertToMP3(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if strings.EqualFold(filepath.Ext(inputPath), ".mp3") {
		return inputPath, nil
	}
	ffmpeg, err := FindFFmpeg()
	if err != nil {
		return "", err
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_converted.mp3"
	args := []string{"-y", "-i", inputPath, "-ac", "1", "-ar", "16000", "-vn", outputPath}
	if err := runFFmpeg(ctx, ffmpeg, args...); err != nil {
		return "", err
	}
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no mp3 file: %s", outputPath)
	}
	return outputPath, nil
}

// ConvertToWAV converts the input to a mono 16 kHz pcm_s16le wav, the shape
// the chunked transcription path feeds to the provider. Inputs already in wav
// form are returned unchanged.
func ConvertToWAV(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		return inputPath, nil
	}
	ffmpeg, err := FindFFmpeg()
	if err != nil {
		return "", err
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_for_stt.wav"
	args := []string{"-y", "-i", inputPath, "-ac", "1", "-ar", "16000", "-vn", "-acodec", "pcm_s16le", outputPath}
	if err := runFFmpeg(ctx, ffmpeg, args...); err != nil {
		return "", err
	}
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no wav file: %s", outputPath)
	}
	return outputPath, nil
}

// Duration returns the audio duration in seconds. When ffprobe is missing or
// fails, the duration is estimated from the file size assuming 16 kHz mono
// s16le, floored at one second.
func Duration(ctx context.Context, filePath string) float64 {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return estimateDuration(filePath)
	}

	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return estimateDuration(filePath)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil || duration <= 0 {
		return estimateDuration(filePath)
	}
	return duration
}

func estimateDuration(filePath string) float64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 1.0
	}
	estimate := float64(info.Size()) / estimateBytesPerSecond
	if estimate < 1.0 {
		return 1.0
	}
	return estimate
}

// RemoveTempFiles deletes every listed path, best effort. It is called on all
// pipeline exit paths.
func RemoveTempFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			_ = os.Remove(p)
		}
	}
}
