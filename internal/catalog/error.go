package catalog

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyName        = errors.New("item name cannot be empty")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidCurrency  = errors.New("currency must be one of USD, EUR, GBP")
	ErrInvalidKind      = errors.New("item kind must be PRODUCT or SERVICE")
	ErrKindPayload      = errors.New("item must carry exactly one kind payload")
	ErrNegativeQuantity = errors.New("product quantity cannot be negative")
	ErrNegativeDuration = errors.New("service duration cannot be negative")

	// -- Resource State --
	ErrItemNotFound          = errors.New("item not found")
	ErrDuplicateItemCategory = errors.New("item already belongs to this category")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
