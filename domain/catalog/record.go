package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"shop-backend/pkg/errors"

	"github.com/shopspring/decimal"
)

// InvalidRecordMessage is the single message every rejected record carries.
// Per-field reasons are kept in the error details for logging only.
const InvalidRecordMessage = "Invalid product data"

// Numbers the store can hold: 38 significant digits, magnitude below 1e126
// and, when non-zero, at least 1e-130. Counts stay within the range a
// double represents exactly.
const maxSignificantDigits = 38

var (
	maxStoreMagnitude = decimal.New(1, 126)
	minStoreMagnitude = decimal.New(1, -130)
	maxSafeCount      = decimal.NewFromInt(1<<53 - 1)
)

// Count is a non-fractional stock quantity
type Count int64

// Int64 returns the count as a plain integer
func (c Count) Int64() int64 {
	return int64(c)
}

// Record is one catalog entry as supplied by an uploader. The id is never
// part of the input; it is assigned when the record is prepared for writing.
type Record struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Count       *Count           `json:"count" validate:"required,gte=0"`
}

// recordWire is the lenient decoding shape. CSV-derived rows carry every
// value as a string while API callers send JSON numbers.
type recordWire struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
	Count       json.RawMessage `json:"count"`
}

// DecodeRecord converts a queue message body or request payload into a Record.
// Missing or empty numeric fields decode to nil so presence checks can report
// them; anything that cannot be read as a number fails here.
func DecodeRecord(body []byte) (*Record, error) {
	var wire recordWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.NewValidationError(InvalidRecordMessage).
			WithDetail("body", "malformed JSON").
			WithCause(err)
	}

	fieldErrs := errors.NewValidationErrors()
	rec := &Record{}
	if wire.Title != nil {
		rec.Title = *wire.Title
	}
	if wire.Description != nil {
		rec.Description = *wire.Description
	}

	price, err := decodeNumber(wire.Price)
	switch {
	case err != nil:
		fieldErrs.Add("price", "price must be a number")
	case price != nil && !storable(*price):
		fieldErrs.Add("price", "price is out of range")
	default:
		rec.Price = price
	}

	count, err := decodeNumber(wire.Count)
	switch {
	case err != nil:
		fieldErrs.Add("count", "count must be a number")
	case count != nil && !count.IsInteger():
		fieldErrs.Add("count", "count must be an integer")
	case count != nil && count.Abs().GreaterThan(maxSafeCount):
		fieldErrs.Add("count", "count is out of range")
	case count != nil:
		c := Count(count.IntPart())
		rec.Count = &c
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs.AsAppError(InvalidRecordMessage)
	}
	return rec, nil
}

func storable(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	abs := d.Abs()
	if abs.GreaterThanOrEqual(maxStoreMagnitude) || abs.LessThan(minStoreMagnitude) {
		return false
	}
	digits := strings.TrimRight(new(big.Int).Abs(d.Coefficient()).String(), "0")
	return len(digits) <= maxSignificantDigits
}

// decodeNumber accepts a JSON number or a numeric string. Absent, null and
// blank values are reported as nil without error.
func decodeNumber(raw json.RawMessage) (*decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return nil, fmt.Errorf("not a number: %s", raw)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return nil, err
	}
	return &d, nil
}
