package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"shop-backend/pkg/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config holds the MinIO connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// BlobStore implements ports.BlobStore and ports.UploadSigner on any
// S3-compatible server reachable through minio-go.
type BlobStore struct {
	client *minio.Client
	logger *zap.Logger
}

// NewBlobStore creates a MinIO-backed blob store
func NewBlobStore(cfg Config, logger *zap.Logger) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &BlobStore{client: client, logger: logger}, nil
}

// EnsureBucket creates bucket when it does not exist yet
func (s *BlobStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrapf(err, "check bucket %s", bucket)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrapf(err, "create bucket %s", bucket)
	}
	s.logger.Info("Bucket created", zap.String("bucket", bucket))
	return nil
}

// Get opens the object for streaming. The object is stat'ed first so a
// missing key surfaces here rather than on the first read.
func (s *BlobStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %s", key)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NewNotFoundError("Object").WithDetail("key", key).WithCause(err)
		}
		return nil, errors.Wrapf(err, "stat object %s", key)
	}
	return obj, nil
}

// Copy duplicates srcKey to dstKey server-side
func (s *BlobStore) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: bucket, Object: srcKey},
	)
	if err != nil {
		return errors.Wrapf(err, "copy object %s to %s", srcKey, dstKey)
	}
	return nil
}

// Delete removes key from bucket
func (s *BlobStore) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "delete object %s", key)
	}
	return nil
}

// PresignUpload returns a PUT URL for key valid for ttl
func (s *BlobStore) PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, bucket, key, ttl)
	if err != nil {
		return "", errors.Wrapf(err, "presign upload %s", key)
	}
	return u.String(), nil
}
