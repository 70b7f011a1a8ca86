package queries

import "shop-backend/pkg/errors"

// ListProductsQuery returns every product with its stock count
type ListProductsQuery struct{}

// Validate validates the ListProductsQuery
func (q ListProductsQuery) Validate() error {
	return nil
}

// GetProductQuery returns a single product with its stock count
type GetProductQuery struct {
	ProductID string
}

// Validate validates the GetProductQuery
func (q GetProductQuery) Validate() error {
	if q.ProductID == "" {
		return errors.NewValidationError("Product ID was not provided")
	}
	return nil
}
