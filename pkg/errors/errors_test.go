package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("Product"), http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError(""), http.StatusForbidden},
		{"store", NewStoreTransactionError(errors.New("cancelled")), http.StatusInternalServerError},
		{"transport", NewTransportError("sqs", errors.New("throttled")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("Product")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Product not found", PublicMessage(NewNotFoundError("Product")))
	assert.Equal(t, "Internal Server Error", PublicMessage(NewStoreTransactionError(errors.New("secret detail"))))
	assert.Equal(t, "Internal Server Error", PublicMessage(errors.New("boom")))
}

func TestIsType(t *testing.T) {
	cause := errors.New("conditional check failed")
	err := fmt.Errorf("commit: %w", NewStoreTransactionError(cause))

	assert.True(t, IsType(err, ErrorTypeStoreTransaction))
	assert.False(t, IsType(err, ErrorTypeTransport))
	assert.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	wrapped := Wrap(errors.New("disk"), "reading file")
	assert.True(t, IsType(wrapped, ErrorTypeInternal))

	kept := Wrap(NewValidationError("bad title"), "create product")
	assert.True(t, IsValidation(kept))
	assert.Equal(t, "create product: bad title", GetAppError(kept).Message)
}

func TestValidationErrors_AsAppError(t *testing.T) {
	fieldErrs := NewValidationErrors()
	fieldErrs.Add("price", "price is required")
	fieldErrs.Add("price", "price must be a number")

	appErr := fieldErrs.AsAppError("Invalid product data")
	assert.Equal(t, "Invalid product data", appErr.Message)
	assert.Equal(t, map[string][]string{"price": {"price is required", "price must be a number"}}, appErr.Details["fields"])
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/x", nil)
	h.Handle(rec, req, NewNotFoundError("Product"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Product not found","type":"NOT_FOUND"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Handle(rec, req, NewStoreTransactionError(errors.New("table missing")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error","type":"STORE_TRANSACTION"}`, rec.Body.String())
}

func TestErrorHandler_MiddlewareRecovers(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
