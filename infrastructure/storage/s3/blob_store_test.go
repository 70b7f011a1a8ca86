package s3

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"shop-backend/pkg/errors"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	objects map[string]string
	copies  []*awss3.CopyObjectInput
	copyErr error
}

func (f *fakeS3) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, in *awss3.CopyObjectInput, _ ...func(*awss3.Options)) (*awss3.CopyObjectOutput, error) {
	f.copies = append(f.copies, in)
	return &awss3.CopyObjectOutput{}, f.copyErr
}

func (f *fakeS3) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &awss3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	key     string
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := awss3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.key = *in.Key
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + *in.Key + "?X-Amz-Signature=abc"}, nil
}

func TestBlobStore_GetCopyDelete(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"uploaded/products list.csv": "title\nA\n"}}
	store := NewBlobStore(client, &fakePresigner{}, zap.NewNop())
	ctx := context.Background()

	rc, err := store.Get(ctx, "imports", "uploaded/products list.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "title\nA\n", string(data))

	require.NoError(t, store.Copy(ctx, "imports", "uploaded/products list.csv", "parsed/products list.csv"))
	require.Len(t, client.copies, 1)
	assert.Equal(t, "imports/uploaded%2Fproducts%20list.csv", *client.copies[0].CopySource)
	assert.Equal(t, "parsed/products list.csv", *client.copies[0].Key)

	require.NoError(t, store.Delete(ctx, "imports", "uploaded/products list.csv"))
	assert.Empty(t, client.objects)
}

func TestBlobStore_GetMissingIsNotFound(t *testing.T) {
	store := NewBlobStore(&fakeS3{objects: map[string]string{}}, &fakePresigner{}, zap.NewNop())

	_, err := store.Get(context.Background(), "imports", "uploaded/missing.csv")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBlobStore_CopyFailure(t *testing.T) {
	client := &fakeS3{objects: map[string]string{}, copyErr: stderrors.New("access denied")}
	store := NewBlobStore(client, &fakePresigner{}, zap.NewNop())

	err := store.Copy(context.Background(), "imports", "uploaded/a.csv", "parsed/a.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestBlobStore_PresignUpload(t *testing.T) {
	presigner := &fakePresigner{}
	store := NewBlobStore(&fakeS3{}, presigner, zap.NewNop())

	url, err := store.PresignUpload(context.Background(), "imports", "uploaded/products.csv", time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "uploaded/products.csv")
	assert.Equal(t, "uploaded/products.csv", presigner.key)
	assert.Equal(t, time.Minute, presigner.expires)
}
