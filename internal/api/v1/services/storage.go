package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apierrors "minutes/internal/api/errors"
	"minutes/internal/api/v1/dto"
	"minutes/internal/app/storage"
)

// StorageServiceImpl implements StorageService on top of the input bucket.
type StorageServiceImpl struct {
	store       storage.ObjectStore
	inputPrefix string
	expiry      time.Duration
	logger      *zap.Logger
}

func NewStorageService(store storage.ObjectStore, inputPrefix string, expiry time.Duration, logger *zap.Logger) *StorageServiceImpl {
	return &StorageServiceImpl{store: store, inputPrefix: inputPrefix, expiry: expiry, logger: logger}
}

func (s *StorageServiceImpl) Presign(ctx context.Context, filename string) (*dto.PresignResponse, error) {
	key := storage.ObjectKey(s.inputPrefix, filename)
	presign, err := s.store.PresignedPut(ctx, key, s.expiry)
	if err != nil {
		s.logger.Error("failed to presign upload", zap.String("key", key), zap.Error(err))
		return nil, apierrors.NewInternalError("failed to generate upload URL")
	}
	return &dto.PresignResponse{
		Presign: presign,
		Key:     key,
		Bucket:  s.store.Bucket(),
	}, nil
}
