package transaction

import (
	"errors"
	"time"

	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidState is returned when an operation is illegal for the
	// transaction's current status, e.g. cancelling a completed transaction.
	ErrInvalidState = errors.New("invalid transaction state")
	// ErrAmountMustBePositive is returned when a transaction amount is not positive.
	ErrAmountMustBePositive = errors.New("transaction amount must be positive")
)

// Direction tells whether money moves out of (debit) or into (credit) the
// source account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Status is the processing state of a transaction.
//
// The machine is monotonic: pending → processing → {completed, failed},
// pending → cancelled. Completed and cancelled are immutable; failed may be
// re-entered into processing by the scheduled retry pass.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		// Retry pass only.
		return next == StatusProcessing
	default:
		return false
	}
}

// IsTerminal reports whether s is an immutable end state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Category classifies a transaction for reporting and fee calculation.
type Category string

const (
	CategoryTransfer   Category = "transfer"
	CategoryPayment    Category = "payment"
	CategoryDeposit    Category = "deposit"
	CategoryWithdrawal Category = "withdrawal"
	CategoryShopping   Category = "shopping"
	CategoryBills      Category = "bills"
	CategoryIncome     Category = "income"
	CategoryInvestment Category = "investment"
	CategoryOther      Category = "other"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTransfer, CategoryPayment, CategoryDeposit, CategoryWithdrawal,
		CategoryShopping, CategoryBills, CategoryIncome, CategoryInvestment,
		CategoryOther:
		return true
	}
	return false
}

// Transaction is a single money movement against an account. It references
// its account weakly: closing an account never deletes its history.
type Transaction struct {
	ID              uuid.UUID
	Reference       string
	AccountID       uuid.UUID
	RecipientNumber string
	RecipientName   string
	Amount          money.Money
	Direction       Direction
	Status          Status
	Category        Category
	Description     string
	Fee             money.Money
	FailureReason   string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanCancel reports whether a user-initiated cancellation is still legal.
// Only pending transactions can be cancelled.
func (t *Transaction) CanCancel() bool {
	return t.Status == StatusPending
}

// NetAmount is the amount the ledger settles: debits pay the fee on top,
// credits receive the amount less the fee.
func (t *Transaction) NetAmount() (money.Money, error) {
	if t.Direction == DirectionDebit {
		return t.Amount.Add(t.Fee)
	}
	return t.Amount.Subtract(t.Fee)
}

// Log is an append-only audit entry recording one status transition.
type Log struct {
	ID             uuid.UUID
	TransactionID  uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	Message        string
	ProcessedBy    string
	CreatedAt      time.Time
}
