package catalog

import (
	"shop-backend/domain/catalog"

	"github.com/google/uuid"
)

// PreparedRecord is a validated record turned into its store writes and the
// notification to send once those writes are committed.
type PreparedRecord struct {
	ID           string
	Items        [2]catalog.WriteItem
	Notification catalog.Notification
}

// TransactionWriter turns records into write items. It never talks to the
// store; callers gather items from many records into one commit.
type TransactionWriter struct {
	newID func() string
}

// NewTransactionWriter creates a writer assigning random UUIDs
func NewTransactionWriter() *TransactionWriter {
	return NewTransactionWriterWithIDs(uuid.NewString)
}

// NewTransactionWriterWithIDs creates a writer using newID for product ids
func NewTransactionWriterWithIDs(newID func() string) *TransactionWriter {
	return &TransactionWriter{newID: newID}
}

// Prepare assigns a fresh id to rec and builds the product put, the stock put
// and the notification. rec must already be validated.
func (w *TransactionWriter) Prepare(rec *catalog.Record) (PreparedRecord, error) {
	id := w.newID()

	product := catalog.Product{
		ID:          id,
		Title:       rec.Title,
		Description: rec.Description,
		Price:       *rec.Price,
	}
	stock := catalog.Stock{
		ProductID: id,
		Count:     rec.Count.Int64(),
	}

	notification, err := catalog.NewNotification(product, stock)
	if err != nil {
		return PreparedRecord{}, err
	}

	return PreparedRecord{
		ID:           id,
		Items:        [2]catalog.WriteItem{catalog.ProductPut(product), catalog.StockPut(stock)},
		Notification: notification,
	}, nil
}
