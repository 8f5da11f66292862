package address

import "errors"

var (
	// -- Validation & Input --
	ErrMissingFields = errors.New("address line 1, city, state/province, postal code and country are required")

	// -- Resource State --
	ErrAddressNotFound = errors.New("address not found")
)
