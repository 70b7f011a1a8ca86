package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the stored catalog entry, keyed by ID
type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
}

// Stock is the stored quantity for a product, keyed by ProductID. Every
// product has exactly one stock row, created in the same transaction.
type Stock struct {
	ProductID string
	Count     int64
}

// ProductView joins a product with its stock for the read handlers
type ProductView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Count       int64           `json:"count"`
}

// MarshalJSON renders price as a JSON number rather than a quoted string
func (v ProductView) MarshalJSON() ([]byte, error) {
	type view ProductView
	return json.Marshal(struct {
		view
		Price json.Number `json:"price"`
	}{view(v), json.Number(v.Price.String())})
}

// NewProductView joins p and s. A missing stock row reads as zero.
func NewProductView(p Product, s *Stock) ProductView {
	view := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
	}
	if s != nil {
		view.Count = s.Count
	}
	return view
}

// WriteKind names the collection a WriteItem targets
type WriteKind string

const (
	WriteProduct WriteKind = "product"
	WriteStock   WriteKind = "stock"
)

// WriteItem is one put destined for the catalog store. Exactly one of
// Product or Stock is set, matching Kind.
type WriteItem struct {
	Kind    WriteKind
	Product *Product
	Stock   *Stock
}

// ProductPut builds the put item for p
func ProductPut(p Product) WriteItem {
	return WriteItem{Kind: WriteProduct, Product: &p}
}

// StockPut builds the put item for s
func StockPut(s Stock) WriteItem {
	return WriteItem{Kind: WriteStock, Stock: &s}
}
