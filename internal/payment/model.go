package payment

import "time"

type Payment struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RecordParams struct {
	OrderID       int64
	AmountCents   int64
	PaymentMethod string
	// TransactionID may be empty; one is generated.
	TransactionID string
}
