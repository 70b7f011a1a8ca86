package s3

import (
	"context"
	stderrors "errors"
	"io"
	"net/url"
	"time"

	"shop-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// ObjectAPI is the subset of the S3 client the blob store needs
type ObjectAPI interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *awss3.CopyObjectInput, optFns ...func(*awss3.Options)) (*awss3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used for uploads
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// BlobStore implements ports.BlobStore and ports.UploadSigner on Amazon S3
type BlobStore struct {
	client  ObjectAPI
	presign PresignAPI
	logger  *zap.Logger
}

// NewBlobStore creates an S3 blob store
func NewBlobStore(client ObjectAPI, presign PresignAPI, logger *zap.Logger) *BlobStore {
	return &BlobStore{
		client:  client,
		presign: presign,
		logger:  logger,
	}
}

// NewBlobStoreFromClient wires both APIs from one S3 client
func NewBlobStoreFromClient(client *awss3.Client, logger *zap.Logger) *BlobStore {
	return NewBlobStore(client, awss3.NewPresignClient(client), logger)
}

// Get opens the object body as a stream. The caller closes it.
func (s *BlobStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.NewNotFoundError("Object").WithDetail("key", key).WithCause(err)
		}
		return nil, errors.Wrapf(err, "get object %s", key)
	}
	return out.Body, nil
}

// Copy duplicates srcKey to dstKey within bucket
func (s *BlobStore) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(bucket + "/" + url.PathEscape(srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return errors.Wrapf(err, "copy object %s to %s", srcKey, dstKey)
	}
	s.logger.Debug("Object copied", zap.String("bucket", bucket), zap.String("src", srcKey), zap.String("dst", dstKey))
	return nil
}

// Delete removes key from bucket
func (s *BlobStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "delete object %s", key)
	}
	return nil
}

// PresignUpload returns a PUT URL for key valid for ttl
func (s *BlobStore) PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", errors.Wrapf(err, "presign upload %s", key)
	}
	return req.URL, nil
}
