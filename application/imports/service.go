package imports

import (
	"context"
	"path"
	"strings"
	"time"

	"shop-backend/application/ports"
	"shop-backend/pkg/errors"

	"go.uber.org/zap"
)

// DefaultURLTTL is how long an upload URL stays valid
const DefaultURLTTL = 60 * time.Second

// MessageFileNameRequired is returned when no file name is supplied
const MessageFileNameRequired = "File name is required"

// Service issues upload URLs for new catalog files
type Service struct {
	signer ports.UploadSigner
	bucket string
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates an import service. Uploads land under prefix in bucket.
func NewService(signer ports.UploadSigner, bucket, prefix string, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &Service{
		signer: signer,
		bucket: bucket,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// UploadKey returns the object key an upload named name is written to.
// Directory components in name are dropped.
func (s *Service) UploadKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError(MessageFileNameRequired)
	}
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return "", errors.NewValidationError(MessageFileNameRequired)
	}
	return s.prefix + base, nil
}

// PresignUpload returns a PUT URL for the named file
func (s *Service) PresignUpload(ctx context.Context, name string) (string, error) {
	key, err := s.UploadKey(name)
	if err != nil {
		return "", err
	}

	url, err := s.signer.PresignUpload(ctx, s.bucket, key, s.ttl)
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload url")
	}

	s.logger.Info("Upload URL issued",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Duration("ttl", s.ttl),
	)
	return url, nil
}
