package repository

import "context"

// UnitOfWork provides a transaction boundary and repository access in one
// abstraction. All repositories obtained from the UnitOfWork passed to Do use
// the same session, so everything inside fn is atomic: if fn returns an
// error, the whole unit is rolled back.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. fn receives a UnitOfWork
	// bound to that transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
	Recurring() RecurringRepository
	TransactionLogs() TransactionLogRepository
	Users() UserRepository
}
