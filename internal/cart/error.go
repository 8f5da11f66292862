package cart

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// -- Resource State --
	ErrNoCart            = errors.New("no cart found for the user")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrDuplicateCartLine = errors.New("item already has an active cart line")
	ErrItemNotFound      = errors.New("item not found")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
