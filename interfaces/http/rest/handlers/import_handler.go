package handlers

import (
	"net/http"

	"shop-backend/application/imports"
	"shop-backend/pkg/common"
	"shop-backend/pkg/errors"

	"go.uber.org/zap"
)

// ImportHandler issues upload URLs for catalog files
type ImportHandler struct {
	service *imports.Service
	errors  *errors.ErrorHandler
	logger  *zap.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *imports.Service, errorHandler *errors.ErrorHandler, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// ImportProductsFile handles GET /import?name=<file>. The body is the signed URL as a JSON string.
func (h *ImportHandler) ImportProductsFile(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.PresignUpload(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, url)
}
