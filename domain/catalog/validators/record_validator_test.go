package validators

import (
	"testing"

	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func count(n int64) *catalog.Count {
	c := catalog.Count(n)
	return &c
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name        string
		record      *catalog.Record
		wantFields  []string
		wantInvalid bool
	}{
		{
			name:   "valid record",
			record: &catalog.Record{Title: "Lamp", Price: price("10"), Count: count(2)},
		},
		{
			name:   "zero price and count are allowed",
			record: &catalog.Record{Title: "Free sample", Price: price("0"), Count: count(0)},
		},
		{
			name:        "missing title",
			record:      &catalog.Record{Price: price("10"), Count: count(2)},
			wantInvalid: true,
			wantFields:  []string{"title"},
		},
		{
			name:        "missing price and count",
			record:      &catalog.Record{Title: "Lamp"},
			wantInvalid: true,
			wantFields:  []string{"price", "count"},
		},
		{
			name:        "negative price",
			record:      &catalog.Record{Title: "Lamp", Price: price("-0.01"), Count: count(1)},
			wantInvalid: true,
			wantFields:  []string{"price"},
		},
		{
			name:        "negative count",
			record:      &catalog.Record{Title: "Lamp", Price: price("1"), Count: count(-1)},
			wantInvalid: true,
			wantFields:  []string{"count"},
		},
		{
			name:        "nil record",
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if !tt.wantInvalid {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, catalog.InvalidRecordMessage, appErr.Message)

			if len(tt.wantFields) > 0 {
				fields, ok := appErr.Details["fields"].(map[string][]string)
				require.True(t, ok)
				for _, f := range tt.wantFields {
					assert.Contains(t, fields, f)
				}
			}
		})
	}
}

func TestValidateRecord_Deterministic(t *testing.T) {
	rec := &catalog.Record{Title: "", Price: price("-1"), Count: count(3)}

	first := ValidateRecord(rec)
	second := ValidateRecord(rec)
	assert.Equal(t, first.Error(), second.Error())
}

func TestDecodeAndValidate(t *testing.T) {
	rec, err := DecodeAndValidate([]byte(`{"title":"Lamp","description":"","price":"5","count":"1"}`))
	require.NoError(t, err)
	assert.Equal(t, "Lamp", rec.Title)

	_, err = DecodeAndValidate([]byte(`{"title":"","price":"5","count":"1"}`))
	assert.True(t, errors.IsValidation(err))
}
