package handlers

import (
	"context"
	"fmt"

	"shop-backend/application/ports"
	"shop-backend/application/queries"
	"shop-backend/application/queries/bus"

	"go.uber.org/zap"
)

// ListProductsHandler handles ListProductsQuery
type ListProductsHandler struct {
	reader ports.ProductReader
	logger *zap.Logger
}

// NewListProductsHandler creates a new handler
func NewListProductsHandler(reader ports.ProductReader, logger *zap.Logger) *ListProductsHandler {
	return &ListProductsHandler{reader: reader, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListProductsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.ListProductsQuery); !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	products, err := h.reader.List(ctx)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Listed products", zap.Int("count", len(products)))
	return products, nil
}

// GetProductHandler handles GetProductQuery
type GetProductHandler struct {
	reader ports.ProductReader
	logger *zap.Logger
}

// NewGetProductHandler creates a new handler
func NewGetProductHandler(reader ports.ProductReader, logger *zap.Logger) *GetProductHandler {
	return &GetProductHandler{reader: reader, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetProductHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	getQuery, ok := query.(queries.GetProductQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", query)
	}

	return h.reader.Get(ctx, getQuery.ProductID)
}
