package address

import (
	"time"

	"github.com/google/uuid"
)

// Address is one entry in a user's address book. Rows are never edited in
// place: an update deactivates the old row and inserts a replacement, so
// orders shipped to an old address keep pointing at what was actually used.
type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID int64     `json:"user_id"`

	Line1      string  `json:"address_line_1"`
	Line2      *string `json:"address_line_2,omitempty"`
	City       string  `json:"city"`
	Province   string  `json:"state_province"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`

	IsDefault bool      `json:"is_default"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateParams struct {
	UserID       int64
	Line1        string
	Line2        *string
	City         string
	Province     string
	PostalCode   string
	Country      string
	SetAsDefault bool
}

type UpdateParams struct {
	UserID       int64
	AddressID    uuid.UUID
	Line1        string
	Line2        *string
	City         string
	Province     string
	PostalCode   string
	Country      string
	SetAsDefault bool
}
