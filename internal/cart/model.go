package cart

import "time"

// Cart is the per-user basket. TotalPriceCents is denormalized and kept in
// sync by recomputation after every mutation, never computed lazily on read.
type Cart struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Items []*CartItem `json:"items,omitempty"`
}

// CartItem references a catalog item at the price it had when first added.
// PriceSnapshotCents does not track later item price changes; it is refreshed
// only when a soft-deleted line is resurrected.
type CartItem struct {
	ID                 int64      `json:"id"`
	CartID             int64      `json:"cart_id"`
	ItemID             int64      `json:"item_id"`
	ItemName           string     `json:"item_name,omitempty"`
	Quantity           int64      `json:"quantity"`
	PriceSnapshotCents int64      `json:"price_snapshot_cents"`
	IsDeleted          bool       `json:"is_deleted"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type AddItemParams struct {
	UserID   int64
	ItemID   int64
	Quantity int64
}

type UpdateQuantityParams struct {
	UserID   int64
	ItemID   int64
	Quantity int64
}
