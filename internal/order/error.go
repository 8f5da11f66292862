package order

import "errors"

var (
	// -- Preconditions (each distinct, per caller contract) --
	ErrNoCart       = errors.New("no cart found for the user")
	ErrCartEmpty    = errors.New("cart is empty, cannot create an order")
	ErrOrderLocked  = errors.New("cannot update an order that is already processed")
	ErrCannotCancel = errors.New("cannot cancel an order that is already processed")

	// -- Validation & Input --
	ErrInvalidStatus   = errors.New("invalid order status transition")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrUnauthorized      = errors.New("unauthorized")
)
