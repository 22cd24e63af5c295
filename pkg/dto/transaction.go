package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRead is the read-optimized projection of a transaction.
type TransactionRead struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	AccountID       uuid.UUID  `json:"account_id"`
	RecipientNumber string     `json:"recipient_account_number,omitempty"`
	RecipientName   string     `json:"recipient_name,omitempty"`
	Amount          float64    `json:"amount"`
	Direction       string     `json:"transaction_type"`
	Status          string     `json:"status"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	Fee             float64    `json:"fee_amount"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TransactionUpdate carries a partial update; nil fields are left untouched.
type TransactionUpdate struct {
	Status        *string
	FailureReason *string
	ProcessedAt   *time.Time
}

// TransactionLogRead is the projection of one audit log entry.
type TransactionLogRead struct {
	ID             uuid.UUID `json:"id"`
	TransactionID  uuid.UUID `json:"transaction_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status"`
	Message        string    `json:"message"`
	ProcessedBy    string    `json:"processed_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
