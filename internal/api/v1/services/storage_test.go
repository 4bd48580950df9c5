package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"minutes/internal/app/storage"
)

type presignStore struct {
	lastKey    string
	lastExpiry time.Duration
	err        error
}

func (p *presignStore) Bucket() string { return "test-inputs" }

func (p *presignStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *presignStore) Download(ctx context.Context, uri string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *presignStore) PresignedPut(ctx context.Context, key string, expiry time.Duration) (*storage.PresignedURL, error) {
	p.lastKey = key
	p.lastExpiry = expiry
	if p.err != nil {
		return nil, p.err
	}
	return &storage.PresignedURL{
		URL:       "https://minio.example/" + key,
		Method:    "PUT",
		Key:       key,
		Bucket:    "test-inputs",
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

func (p *presignStore) PresignedGet(ctx context.Context, key string, expiry time.Duration) (*storage.PresignedURL, error) {
	return nil, errors.New("not implemented")
}

func TestPresign(t *testing.T) {
	store := &presignStore{}
	svc := NewStorageService(store, "inputs", 15*time.Minute, zap.NewNop())

	resp, err := svc.Presign(context.Background(), "weekly sync.mp3")
	require.NoError(t, err)

	assert.Equal(t, "test-inputs", resp.Bucket)
	assert.True(t, strings.HasPrefix(resp.Key, "inputs/"), resp.Key)
	assert.True(t, strings.HasSuffix(resp.Key, "_weekly_sync.mp3"), resp.Key)
	assert.Equal(t, 15*time.Minute, store.lastExpiry)
	assert.Equal(t, "PUT", resp.Presign.Method)
}

func TestPresignFailure(t *testing.T) {
	store := &presignStore{err: errors.New("signature error")}
	svc := NewStorageService(store, "inputs", time.Minute, zap.NewNop())

	_, err := svc.Presign(context.Background(), "a.mp3")
	assert.Error(t, err)
}
