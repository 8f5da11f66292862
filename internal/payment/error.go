package payment

import "errors"

var (
	ErrInvalidAmount          = errors.New("payment amount must be greater than zero")
	ErrMissingMethod          = errors.New("payment method is required")
	ErrOrderNotFound          = errors.New("order not found")
	ErrDuplicateTransactionID = errors.New("transaction id already recorded")

	PgUniqueViolation = "23505"
)
