package repository

import (
	"context"

	repo "github.com/finvault/finvault/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. All repositories returned by a UoW passed into Do share the
// transaction session, so a failing closure rolls everything back.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn inside a database transaction, handing it a UoW bound to that
// transaction. Nested calls reuse the enclosing transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// Accounts returns an account repository bound to the current session.
func (u *UoW) Accounts() repo.AccountRepository {
	return NewAccountRepository(u.session())
}

// Transactions returns a transaction repository bound to the current session.
func (u *UoW) Transactions() repo.TransactionRepository {
	return NewTransactionRepository(u.session())
}

// Recurring returns a recurring-transaction repository bound to the current session.
func (u *UoW) Recurring() repo.RecurringRepository {
	return NewRecurringRepository(u.session())
}

// TransactionLogs returns an audit-log repository bound to the current session.
func (u *UoW) TransactionLogs() repo.TransactionLogRepository {
	return NewTransactionLogRepository(u.session())
}

// Users returns a user repository bound to the current session.
func (u *UoW) Users() repo.UserRepository {
	return NewUserRepository(u.session())
}
