package validators

import (
	stderrors "errors"

	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"
	"shop-backend/pkg/utils"
)

// ValidateRecord checks that title, price and count are present, then that
// title is non-empty and price and count are not negative. Description is
// free-form. Every failure collapses into the same validation error.
func ValidateRecord(rec *catalog.Record) error {
	if rec == nil {
		return errors.NewValidationError(catalog.InvalidRecordMessage)
	}

	err := utils.ValidateStruct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs *errors.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		return fieldErrs.AsAppError(catalog.InvalidRecordMessage)
	}
	return errors.NewValidationError(catalog.InvalidRecordMessage).WithCause(err)
}

// DecodeAndValidate decodes a raw body and validates the result
func DecodeAndValidate(body []byte) (*catalog.Record, error) {
	rec, err := catalog.DecodeRecord(body)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
