package dto

import (
	"time"

	"github.com/google/uuid"
)

// RecurringRead is the read-optimized projection of a recurring definition.
type RecurringRead struct {
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	Amount          float64    `json:"amount"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	RecipientNumber string     `json:"recipient_account_number,omitempty"`
	RecipientName   string     `json:"recipient_name,omitempty"`
	Frequency       string     `json:"frequency"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	NextExecution   time.Time  `json:"next_execution_date"`
	ExecutionCount  int        `json:"execution_count"`
	MaxExecutions   *int       `json:"max_executions,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RecurringUpdate carries a partial update; nil fields are left untouched.
type RecurringUpdate struct {
	Amount         *int64
	Description    *string
	Frequency      *string
	NextExecution  *time.Time
	ExecutionCount *int
	MaxExecutions  *int
	EndDate        *time.Time
	Status         *string
}

// SweepResult summarizes one scheduler pass over due recurring definitions.
type SweepResult struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
