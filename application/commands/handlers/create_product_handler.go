package handlers

import (
	"context"
	"fmt"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/commands"
	"shop-backend/application/commands/bus"
	"shop-backend/application/ports"
	"shop-backend/domain/catalog/validators"
	"shop-backend/pkg/errors"

	"go.uber.org/zap"
)

// CreateProductHandler validates a single record and commits its product and
// stock rows in one transaction.
type CreateProductHandler struct {
	store  ports.CatalogStore
	writer *catalogapp.TransactionWriter
	logger *zap.Logger
}

// NewCreateProductHandler creates a new handler
func NewCreateProductHandler(store ports.CatalogStore, writer *catalogapp.TransactionWriter, logger *zap.Logger) *CreateProductHandler {
	if writer == nil {
		writer = catalogapp.NewTransactionWriter()
	}
	return &CreateProductHandler{
		store:  store,
		writer: writer,
		logger: logger,
	}
}

// Handle implements bus.CommandHandler
func (h *CreateProductHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	createCmd, ok := cmd.(commands.CreateProductCommand)
	if !ok {
		return nil, fmt.Errorf("invalid command type %T", cmd)
	}

	rec, err := validators.DecodeAndValidate(createCmd.Body)
	if err != nil {
		return nil, err
	}

	prepared, err := h.writer.Prepare(rec)
	if err != nil {
		return nil, errors.Wrap(err, "prepare product")
	}

	if err := h.store.Commit(ctx, prepared.Items[:]); err != nil {
		if errors.GetAppError(err) == nil {
			err = errors.NewStoreTransactionError(err)
		}
		return nil, err
	}

	h.logger.Info("Product created", zap.String("product_id", prepared.ID))
	return &commands.CreateProductResult{
		Message:   "Product and stock created successfully",
		ProductID: prepared.ID,
	}, nil
}
