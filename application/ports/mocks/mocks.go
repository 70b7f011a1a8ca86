// Package mocks holds testify mocks for the application ports.
package mocks

import (
	"context"
	"io"
	"time"

	"shop-backend/domain/catalog"

	"github.com/stretchr/testify/mock"
)

// MockCatalogStore mocks ports.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) Commit(ctx context.Context, items []catalog.WriteItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// MockNotifier mocks ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishBatch(ctx context.Context, notifications []catalog.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

// MockBatchQueue mocks ports.BatchQueue
type MockBatchQueue struct {
	mock.Mock
}

func (m *MockBatchQueue) SendBatch(ctx context.Context, bodies [][]byte) error {
	args := m.Called(ctx, bodies)
	return args.Error(0)
}

// MockBlobStore mocks ports.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	args := m.Called(ctx, bucket, srcKey, dstKey)
	return args.Error(0)
}

func (m *MockBlobStore) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

// MockUploadSigner mocks ports.UploadSigner
type MockUploadSigner struct {
	mock.Mock
}

func (m *MockUploadSigner) PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, ttl)
	return args.String(0), args.Error(1)
}

// MockProductReader mocks ports.ProductReader
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) List(ctx context.Context) ([]catalog.ProductView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductView), args.Error(1)
}

func (m *MockProductReader) Get(ctx context.Context, id string) (*catalog.ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductView), args.Error(1)
}
