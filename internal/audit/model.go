package audit

import (
	"encoding/json"
	"time"
)

type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
	ActionUpdate Action = "UPDATE"
	ActionClear  Action = "CLEAR"
)

// Record is one immutable cart activity entry. Rows are append-only; the
// repository exposes no update or delete path.
type Record struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	CartID    int64           `json:"cart_id"`
	ItemID    *int64          `json:"item_id,omitempty"`
	Action    Action          `json:"action"`
	Quantity  *int64          `json:"quantity,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
