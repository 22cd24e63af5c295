package transaction

import (
	"errors"
	"time"

	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/google/uuid"
)

// ErrRecurringNotFound is returned when a recurring definition cannot be found.
var ErrRecurringNotFound = errors.New("recurring transaction not found")

// Frequency is the firing cadence of a recurring definition.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Advance returns the next execution time one interval after t.
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// RecurringStatus is the lifecycle state of a recurring definition.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "active"
	RecurringPaused    RecurringStatus = "paused"
	RecurringCancelled RecurringStatus = "cancelled"
	RecurringCompleted RecurringStatus = "completed"
)

// RecurringTransaction is a template that the scheduler materializes into
// concrete transactions on a cadence.
type RecurringTransaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Amount          money.Money
	Description     string
	Category        Category
	RecipientNumber string
	RecipientName   string
	Frequency       Frequency
	StartDate       time.Time
	EndDate         *time.Time
	NextExecution   time.Time
	ExecutionCount  int
	MaxExecutions   *int
	Status          RecurringStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanExecute reports whether the definition is due and allowed to fire at now.
func (r *RecurringTransaction) CanExecute(now time.Time) bool {
	if r.Status != RecurringActive {
		return false
	}
	if r.NextExecution.After(now) {
		return false
	}
	if r.MaxExecutions != nil && r.ExecutionCount >= *r.MaxExecutions {
		return false
	}
	if r.EndDate != nil && now.After(*r.EndDate) {
		return false
	}
	return true
}

// MarkExecuted records one successful firing: bumps the execution count,
// advances the next execution by one interval, and completes the definition
// when the execution limit is reached.
func (r *RecurringTransaction) MarkExecuted() {
	r.ExecutionCount++
	r.NextExecution = r.Frequency.Advance(r.NextExecution)
	if r.MaxExecutions != nil && r.ExecutionCount >= *r.MaxExecutions {
		r.Status = RecurringCompleted
	}
}
