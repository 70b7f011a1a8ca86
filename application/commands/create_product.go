package commands

import (
	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"
)

// CreateProductCommand creates one product and its stock row from a raw
// JSON payload.
type CreateProductCommand struct {
	Body []byte
}

// Validate checks that a payload is present; field rules run in the handler
func (c CreateProductCommand) Validate() error {
	if len(c.Body) == 0 {
		return errors.NewValidationError(catalog.InvalidRecordMessage).WithDetail("body", "empty")
	}
	return nil
}

// CreateProductResult is returned after a successful commit
type CreateProductResult struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}
