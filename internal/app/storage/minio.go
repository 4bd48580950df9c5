package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"minutes/internal/config"
)

// MinioStore implements ObjectStore against MinIO or any S3-compatible
// endpoint, scoped to one bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioClient builds the shared S3 client from configuration.
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return client, nil
}

// NewMinioStore wraps a client for one bucket, creating the bucket if needed.
// A missing bucket name is a fatal setup error.
func NewMinioStore(ctx context.Context, client *minio.Client, bucket string, logger *zap.Logger) (*MinioStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no storage bucket configured")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("created storage bucket", zap.String("bucket", bucket))
	}

	return &MinioStore{client: client, bucket: bucket, logger: logger}, nil
}

// Bucket returns the bucket this store writes to.
func (s *MinioStore) Bucket() string { return s.bucket }

// Upload stores a local file under key and returns its s3:// URI.
func (s *MinioStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	contentType := contentTypeFor(key)
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("object upload failed: %w", err)
	}
	uri := URI(s.bucket, key)
	s.logger.Info("uploaded object", zap.String("local", localPath), zap.String("uri", uri))
	return uri, nil
}

// Download fetches an s3:// URI (any bucket reachable through this client)
// into a temp file and returns the local path. The caller owns the file.
func (s *MinioStore) Download(ctx context.Context, uri string) (string, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	tmpPath, err := TempFileFor(key)
	if err != nil {
		return "", err
	}
	if err := s.client.FGetObject(ctx, bucket, key, tmpPath, minio.GetObjectOptions{}); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to download %s: %w", uri, err)
	}
	return tmpPath, nil
}

// PresignedPut issues a time-limited URL for direct upload of key.
func (s *MinioStore) PresignedPut(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return s.presigned(u, http.MethodPut, key, expiry), nil
}

// PresignedGet issues a time-limited download URL for key.
func (s *MinioStore) PresignedGet(ctx context.Context, key string, expiry time.Duration) (*PresignedURL, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return s.presigned(u, http.MethodGet, key, expiry), nil
}

func (s *MinioStore) presigned(u *url.URL, method, key string, expiry time.Duration) *PresignedURL {
	return &PresignedURL{
		URL:       u.String(),
		Method:    method,
		Key:       key,
		Bucket:    s.bucket,
		ExpiresAt: time.Now().Add(expiry),
	}
}

func contentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(key, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(key, ".md"):
		return "text/markdown"
	case strings.HasSuffix(key, ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
