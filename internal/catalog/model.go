package catalog

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindProduct Kind = "PRODUCT"
	KindService Kind = "SERVICE"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Item is a catalog entry. Kind discriminates the variant: a PRODUCT carries
// Quantity, a SERVICE carries ServiceDuration and ServiceType. Exactly one
// payload is populated; the items table check constraint backs this up.
type Item struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	Currency    Currency `json:"currency"`
	SellerID    int64    `json:"seller_id"`
	Kind        Kind     `json:"kind"`

	Quantity        *int64  `json:"quantity,omitempty"`
	ServiceDuration *int64  `json:"service_duration,omitempty"`
	ServiceType     *string `json:"service_type,omitempty"`

	Metadata  json.RawMessage `json:"metadata,omitempty"`
	IsDeleted bool            `json:"is_deleted"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateItemParams struct {
	Name        string
	Description *string
	PriceCents  int64
	Currency    Currency
	SellerID    int64
	Kind        Kind

	Quantity        *int64
	ServiceDuration *int64
	ServiceType     *string

	Metadata json.RawMessage
}

type UpdateItemParams struct {
	ItemID      int64
	Name        *string
	Description *string
	PriceCents  *int64
	Currency    *Currency

	Quantity        *int64
	ServiceDuration *int64
	ServiceType     *string

	Metadata json.RawMessage
}

type ListFilter struct {
	SellerID    *int64
	Kind        *Kind
	CategoryIDs []int64
	Search      *string
}
