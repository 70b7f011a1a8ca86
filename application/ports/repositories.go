package ports

import (
	"context"

	"shop-backend/domain/catalog"
)

// CatalogStore commits catalog writes. This is a port in hexagonal
// architecture - the application doesn't know about the implementation.
type CatalogStore interface {
	// Commit applies every item in one atomic transaction. Either all items
	// become visible or none do.
	Commit(ctx context.Context, items []catalog.WriteItem) error
}

// ProductReader serves the synchronous read handlers
type ProductReader interface {
	// List returns every product joined with its stock; missing stock reads as zero
	List(ctx context.Context) ([]catalog.ProductView, error)

	// Get returns one product or a NOT_FOUND error
	Get(ctx context.Context, id string) (*catalog.ProductView, error)
}
