package handlers

import (
	"net/http"

	"shop-backend/application/commands"
	"shop-backend/application/commands/bus"
	"shop-backend/application/queries"
	querybus "shop-backend/application/queries/bus"
	"shop-backend/domain/catalog"
	"shop-backend/pkg/common"
	"shop-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *errors.ErrorHandler
	logger     *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListProductsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	products, _ := result.([]catalog.ProductView)
	if products == nil {
		products = []catalog.ProductView{}
	}
	common.RespondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	query := queries.GetProductQuery{ProductID: chi.URLParam(r, "productId")}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := common.ReadBody(r, common.DefaultMaxBodyBytes)
	if err != nil {
		h.errors.Handle(w, r, errors.NewValidationError(catalog.InvalidRecordMessage).WithCause(err))
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CreateProductCommand{Body: body})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}
