// Package repository defines the data-access contracts the services depend
// on. Two implementations exist: the GORM-backed one in infra/repository and
// the in-memory one in infra/memory used by tests and database-less runs.
package repository

import (
	"context"
	"time"

	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/google/uuid"
)

// AccountRepository owns account records. Implementations return
// domain.ErrNotFound (wrapped) for missing rows.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetForUpdate loads the account under the per-account mutual-exclusion
	// scope of the enclosing unit of work (a row lock on SQL backends).
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByNumber(ctx context.Context, number string) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error
}

// TransactionRepository owns transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, t *transaction.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*transaction.Transaction, error)
	// ListFailedSince returns failed transactions created at or after since
	// whose failure reason contains reasonContains, newest first, bounded.
	ListFailedSince(ctx context.Context, since time.Time, reasonContains string, limit int) ([]*transaction.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error
	// UpdateStatus moves the transaction from one status to another, applying
	// update in the same write. The move happens only if the row still holds
	// from; the return reports whether it did. Terminal states can never be
	// overwritten by a caller holding a stale copy.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status, update dto.TransactionUpdate) (bool, error)
	// MarkApplied flips the balance-applied flag. Returns false when the flag
	// was already set, which makes ledger commits idempotent per transaction.
	MarkApplied(ctx context.Context, id uuid.UUID) (bool, error)
}

// RecurringRepository owns recurring-transaction definitions.
type RecurringRepository interface {
	Create(ctx context.Context, r *transaction.RecurringTransaction) error
	Get(ctx context.Context, id uuid.UUID) (*transaction.RecurringTransaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.RecurringTransaction, error)
	// ListDue returns active definitions whose next execution is at or before
	// now, oldest first, bounded.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*transaction.RecurringTransaction, error)
	Update(ctx context.Context, id uuid.UUID, update dto.RecurringUpdate) error
}

// TransactionLogRepository owns the append-only audit log.
type TransactionLogRepository interface {
	Append(ctx context.Context, l *transaction.Log) error
	ListByTransaction(ctx context.Context, txID uuid.UUID) ([]*transaction.Log, error)
	// DeleteOlderThan removes entries created before cutoff and reports how
	// many were removed. Only the retention-cleanup job calls this.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserRepository owns user records.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}
