package imports

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"shop-backend/application/ports/mocks"
	"shop-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_PresignUpload(t *testing.T) {
	signer := new(mocks.MockUploadSigner)
	signer.On("PresignUpload", mock.Anything, "imports", "uploaded/products.csv", 60*time.Second).
		Return("https://imports.s3/uploaded/products.csv?sig", nil)
	svc := NewService(signer, "imports", "uploaded/", 0, zap.NewNop())

	url, err := svc.PresignUpload(context.Background(), "products.csv")

	require.NoError(t, err)
	assert.Equal(t, "https://imports.s3/uploaded/products.csv?sig", url)
	signer.AssertExpectations(t)
}

func TestService_MissingName(t *testing.T) {
	signer := new(mocks.MockUploadSigner)
	svc := NewService(signer, "imports", "uploaded/", time.Minute, zap.NewNop())

	for _, name := range []string{"", "   ", ".."} {
		_, err := svc.PresignUpload(context.Background(), name)
		require.Error(t, err, name)
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
		assert.Equal(t, MessageFileNameRequired, errors.PublicMessage(err))
	}
	signer.AssertNotCalled(t, "PresignUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UploadKeyStripsDirectories(t *testing.T) {
	svc := NewService(nil, "imports", "uploaded/", time.Minute, zap.NewNop())

	key, err := svc.UploadKey("../parsed/evil.csv")
	require.NoError(t, err)
	assert.Equal(t, "uploaded/evil.csv", key)

	key, err = svc.UploadKey(`C:\Users\me\list.csv`)
	require.NoError(t, err)
	assert.Equal(t, "uploaded/list.csv", key)
}

func TestService_SignerFailure(t *testing.T) {
	signer := new(mocks.MockUploadSigner)
	signer.On("PresignUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", stderrors.New("no credentials"))
	svc := NewService(signer, "imports", "uploaded/", time.Minute, zap.NewNop())

	_, err := svc.PresignUpload(context.Background(), "a.csv")

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
}
