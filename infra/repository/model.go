package repository

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Number    string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Type      string    `gorm:"type:varchar(10);not null;default:'checking'"`
	Balance   int64     `gorm:"not null;default:0"`
	Available int64     `gorm:"not null;default:0"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status    string    `gorm:"type:varchar(10);not null;default:'active';index"`
	IsPrimary bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string { return "accounts" }

// Transaction represents a persisted financial transaction.
type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	Reference       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	AccountID       uuid.UUID `gorm:"type:uuid;index:idx_transactions_account_created"`
	RecipientNumber string    `gorm:"type:varchar(20)"`
	RecipientName   string    `gorm:"type:varchar(100)"`
	Amount          int64     `gorm:"not null"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Direction       string    `gorm:"type:varchar(6);not null;index"`
	Status          string    `gorm:"type:varchar(10);not null;default:'pending';index"`
	Category        string    `gorm:"type:varchar(20);not null"`
	Description     string    `gorm:"type:varchar(200)"`
	Fee             int64     `gorm:"not null;default:0"`
	// BalanceApplied guards ledger commits: set exactly once, so replays are no-ops.
	BalanceApplied bool   `gorm:"not null;default:false"`
	FailureReason  string `gorm:"type:text"`
	ProcessedAt    *time.Time
	CreatedAt      time.Time `gorm:"index:idx_transactions_account_created,sort:desc"`
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// RecurringTransaction represents a persisted recurring definition.
type RecurringTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID       uuid.UUID `gorm:"type:uuid;index"`
	Amount          int64     `gorm:"not null"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Description     string    `gorm:"type:varchar(200)"`
	Category        string    `gorm:"type:varchar(20);not null"`
	RecipientNumber string    `gorm:"type:varchar(20)"`
	RecipientName   string    `gorm:"type:varchar(100)"`
	Frequency       string    `gorm:"type:varchar(10);not null"`
	StartDate       time.Time
	EndDate         *time.Time
	NextExecution   time.Time `gorm:"index"`
	ExecutionCount  int       `gorm:"not null;default:0"`
	MaxExecutions   *int
	Status          string `gorm:"type:varchar(10);not null;default:'active';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the RecurringTransaction model.
func (RecurringTransaction) TableName() string { return "recurring_transactions" }

// TransactionLog represents one append-only audit entry.
type TransactionLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	TransactionID  uuid.UUID `gorm:"type:uuid;index"`
	PreviousStatus string    `gorm:"type:varchar(10)"`
	NewStatus      string    `gorm:"type:varchar(10);not null"`
	Message        string    `gorm:"type:text"`
	ProcessedBy    string    `gorm:"type:varchar(100)"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName specifies the table name for the TransactionLog model.
func (TransactionLog) TableName() string { return "transaction_logs" }

// User represents a user record in the database.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	FirstName      string    `gorm:"type:varchar(100)"`
	LastName       string    `gorm:"type:varchar(100)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }
