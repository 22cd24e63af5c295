// Package memory implements the repository contracts over in-process maps.
// It backs tests and database-less development runs. The UoW serializes every
// Do body with one store-wide lock, which gives the same per-account
// mutual-exclusion guarantee the SQL implementation gets from row locks, and
// restores a pre-Do snapshot when the body fails, matching the rollback the
// SQL implementation gets from its transaction.
package memory

import (
	"context"
	"sync"

	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/domain/user"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
)

type store struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]*account.Account
	txns       map[uuid.UUID]*transaction.Transaction
	applied    map[uuid.UUID]bool
	recurring  map[uuid.UUID]*transaction.RecurringTransaction
	logs       []*transaction.Log
	users      map[uuid.UUID]*user.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	byNumber   map[string]uuid.UUID
}

// UoW is the in-memory unit of work. The zero value is not usable; construct
// with NewUoW.
type UoW struct {
	store *store
	inTx  bool
}

// NewUoW creates an empty in-memory unit of work.
func NewUoW() *UoW {
	return &UoW{store: &store{
		accounts:   make(map[uuid.UUID]*account.Account),
		txns:       make(map[uuid.UUID]*transaction.Transaction),
		applied:    make(map[uuid.UUID]bool),
		recurring:  make(map[uuid.UUID]*transaction.RecurringTransaction),
		users:      make(map[uuid.UUID]*user.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
		byNumber:   make(map[string]uuid.UUID),
	}}
}

// Do serializes fn against every other Do on the same store. Nested calls
// reuse the held lock. When fn returns an error every write it made is rolled
// back by restoring the snapshot taken on entry.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	snap := u.store.snapshot()
	if err := fn(&UoW{store: u.store, inTx: true}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// locked runs fn under the store lock unless the caller already holds it
// through Do.
func (u *UoW) locked(fn func() error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn()
}

// Accounts returns the in-memory account repository.
func (u *UoW) Accounts() repo.AccountRepository { return &accountRepo{u} }

// Transactions returns the in-memory transaction repository.
func (u *UoW) Transactions() repo.TransactionRepository { return &transactionRepo{u} }

// Recurring returns the in-memory recurring-transaction repository.
func (u *UoW) Recurring() repo.RecurringRepository { return &recurringRepo{u} }

// TransactionLogs returns the in-memory audit-log repository.
func (u *UoW) TransactionLogs() repo.TransactionLogRepository { return &logRepo{u} }

// Users returns the in-memory user repository.
func (u *UoW) Users() repo.UserRepository { return &userRepo{u} }

// snapshot deep-copies every record. Callers must hold the store lock.
func (s *store) snapshot() *store {
	snap := &store{
		accounts:   make(map[uuid.UUID]*account.Account, len(s.accounts)),
		txns:       make(map[uuid.UUID]*transaction.Transaction, len(s.txns)),
		applied:    make(map[uuid.UUID]bool, len(s.applied)),
		recurring:  make(map[uuid.UUID]*transaction.RecurringTransaction, len(s.recurring)),
		logs:       make([]*transaction.Log, len(s.logs)),
		users:      make(map[uuid.UUID]*user.User, len(s.users)),
		byEmail:    make(map[string]uuid.UUID, len(s.byEmail)),
		byUsername: make(map[string]uuid.UUID, len(s.byUsername)),
		byNumber:   make(map[string]uuid.UUID, len(s.byNumber)),
	}
	for id, a := range s.accounts {
		snap.accounts[id] = cloneAccount(a)
	}
	for id, t := range s.txns {
		snap.txns[id] = cloneTransaction(t)
	}
	for id, v := range s.applied {
		snap.applied[id] = v
	}
	for id, r := range s.recurring {
		snap.recurring[id] = cloneRecurring(r)
	}
	for i, l := range s.logs {
		c := *l
		snap.logs[i] = &c
	}
	for id, us := range s.users {
		snap.users[id] = cloneUser(us)
	}
	for k, v := range s.byEmail {
		snap.byEmail[k] = v
	}
	for k, v := range s.byUsername {
		snap.byUsername[k] = v
	}
	for k, v := range s.byNumber {
		snap.byNumber[k] = v
	}
	return snap
}

// restore swaps the live records for the snapshot's. Callers must hold the
// store lock.
func (s *store) restore(snap *store) {
	s.accounts = snap.accounts
	s.txns = snap.txns
	s.applied = snap.applied
	s.recurring = snap.recurring
	s.logs = snap.logs
	s.users = snap.users
	s.byEmail = snap.byEmail
	s.byUsername = snap.byUsername
	s.byNumber = snap.byNumber
}

func moneyFrom(amount int64, currency string) money.Money {
	return money.NewFromData(amount, currency)
}

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	return &c
}

func cloneTransaction(t *transaction.Transaction) *transaction.Transaction {
	c := *t
	if t.ProcessedAt != nil {
		at := *t.ProcessedAt
		c.ProcessedAt = &at
	}
	return &c
}

func cloneRecurring(r *transaction.RecurringTransaction) *transaction.RecurringTransaction {
	c := *r
	if r.EndDate != nil {
		d := *r.EndDate
		c.EndDate = &d
	}
	if r.MaxExecutions != nil {
		n := *r.MaxExecutions
		c.MaxExecutions = &n
	}
	return &c
}

func cloneUser(us *user.User) *user.User {
	c := *us
	return &c
}
