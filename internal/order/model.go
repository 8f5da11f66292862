package order

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Locked reports whether the order refuses further field or line mutation.
func (s Status) Locked() bool {
	switch s {
	case StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancellable is narrower than !Locked: once payment capture has happened
// (PAID) or fulfilment started (SHIPPED, DELIVERED) the order can no longer
// be cancelled. An already CANCELLED order passes and simply stays CANCELLED.
func (s Status) Cancellable() bool {
	switch s {
	case StatusPaid, StatusShipped, StatusDelivered:
		return false
	}
	return true
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Status          Status          `json:"status"`
	TotalPriceCents int64           `json:"total_price_cents"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a permanent copy of what was charged. PriceCents is set once
// from the cart snapshot and never follows the catalog price afterwards.
type OrderItem struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name,omitempty"`
	Quantity   int64     `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListFilter struct {
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
