package minio

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := NewBlobStore(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
	}, zap.NewNop())
	require.NoError(t, err)
	return store
}

// With a fixed region the signature is computed locally.
func TestBlobStore_PresignUpload(t *testing.T) {
	store := newTestStore(t)

	raw, err := store.PresignUpload(context.Background(), "imports", "uploaded/products.csv", 60*time.Second)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/imports/uploaded/products.csv", u.Path)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewBlobStore_RejectsBadEndpoint(t *testing.T) {
	_, err := NewBlobStore(Config{Endpoint: "http://localhost:9000/"}, zap.NewNop())
	assert.Error(t, err)
}
