package seller

import (
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// Application is a user's request to sell on the marketplace. Data holds
// optional extra info such as bank details or documents.
type Application struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Data        json.RawMessage   `json:"data,omitempty"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
	ReviewerID  *int64            `json:"reviewer_id,omitempty"`
}
