package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondMessage(rec, http.StatusBadRequest, "File name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"File name is required"}`, rec.Body.String())
}

func TestRespondJSON_RawString(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusOK, "https://bucket/uploaded/a.csv?sig=1")

	assert.JSONEq(t, `"https://bucket/uploaded/a.csv?sig=1"`, rec.Body.String())
}

func TestSetCORSHeaders(t *testing.T) {
	h := http.Header{}
	SetCORSHeaders(h)

	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "OPTIONS,GET,POST", h.Get("Access-Control-Allow-Methods"))
}

func TestExtractRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractRequestID(r))

	r = r.WithContext(WithRequestID(r.Context(), "ctx-id"))
	assert.Equal(t, "ctx-id", ExtractRequestID(r))

	r.Header.Set("X-Request-ID", "hdr-id")
	assert.Equal(t, "hdr-id", ExtractRequestID(r))
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"A"}`))
	data, err := ReadBody(r, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"A"}`, string(data))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 11)))
	_, err = ReadBody(r, 10)
	assert.Error(t, err)
}
