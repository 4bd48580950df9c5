// Package storage provides the S3-compatible object store used for meeting
// audio and exported artifacts.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PresignedURL carries a time-limited URL for a direct browser upload or
// download.
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	Bucket    string    `json:"bucket"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore stores and retrieves audio artifacts and exports. URIs use the
// s3://bucket/key form.
type ObjectStore interface {
	Bucket() string
	Upload(ctx context.Context, localPath, key string) (string, error)
	Download(ctx context.Context, uri string) (string, error)
	PresignedPut(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error)
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error)
}

// IsURI reports whether s looks like an object-store URI.
func IsURI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// URI builds the s3:// form for a bucket and key.
func URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

// ParseURI splits an s3://bucket/key URI.
func ParseURI(uri string) (bucket, key string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("not an s3:// URI: %s", uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("malformed object URI %s: %w", uri, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("object URI missing bucket or key: %s", uri)
	}
	return bucket, key, nil
}

// ObjectKey builds a timestamped key under prefix for an uploaded file.
func ObjectKey(prefix, filename string) string {
	ts := time.Now().UTC().Format("20060102_150405")
	base := SanitizeForKey(filepath.Base(filename))
	if prefix == "" {
		return fmt.Sprintf("%s_%s", ts, base)
	}
	return fmt.Sprintf("%s/%s_%s", strings.TrimSuffix(prefix, "/"), ts, base)
}

// SanitizeForKey reduces a name to characters safe in an object key.
func SanitizeForKey(s string) string {
	if s == "" {
		return "unnamed"
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	cleaned := strings.Trim(b.String(), "_")
	if len(cleaned) > 120 {
		cleaned = cleaned[:120]
	}
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}

// TempFileFor creates an empty temp file whose name preserves the key's base
// name, for downloads.
func TempFileFor(key string) (string, error) {
	f, err := os.CreateTemp("", "s3dl_*_"+SanitizeForKey(filepath.Base(key)))
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
