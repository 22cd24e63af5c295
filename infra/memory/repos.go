package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/google/uuid"
)

type accountRepo struct{ uow *UoW }

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	return r.uow.locked(func() error {
		s := r.uow.store
		if _, ok := s.accounts[a.ID]; ok {
			return domain.ErrAlreadyExists
		}
		s.accounts[a.ID] = cloneAccount(a)
		s.byNumber[a.Number] = a.ID
		return nil
	})
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (a *account.Account, err error) {
	err = r.uow.locked(func() error {
		stored, ok := r.uow.store.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		a = cloneAccount(stored)
		return nil
	})
	return
}

// GetForUpdate is identical to Get here: the Do lock already serializes the
// whole unit of work.
func (r *accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepo) GetByNumber(ctx context.Context, number string) (a *account.Account, err error) {
	err = r.uow.locked(func() error {
		id, ok := r.uow.store.byNumber[number]
		if !ok {
			return domain.ErrNotFound
		}
		a = cloneAccount(r.uow.store.accounts[id])
		return nil
	})
	return
}

func (r *accountRepo) ListByUser(ctx context.Context, userID uuid.UUID) (result []*account.Account, err error) {
	err = r.uow.locked(func() error {
		for _, a := range r.uow.store.accounts {
			if a.UserID == userID {
				result = append(result, cloneAccount(a))
			}
		}
		sort.Slice(result, func(i, j int) bool {
			if result[i].IsPrimary != result[j].IsPrimary {
				return result[i].IsPrimary
			}
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
		return nil
	})
	return
}

func (r *accountRepo) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	return r.uow.locked(func() error {
		a, ok := r.uow.store.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		currency := string(a.Currency())
		if update.Balance != nil {
			a.Balance = moneyFrom(*update.Balance, currency)
		}
		if update.Available != nil {
			a.Available = moneyFrom(*update.Available, currency)
		}
		if update.Status != nil {
			a.Status = account.Status(*update.Status)
		}
		a.UpdatedAt = time.Now()
		return nil
	})
}

type transactionRepo struct{ uow *UoW }

func (r *transactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.uow.locked(func() error {
		s := r.uow.store
		if _, ok := s.txns[t.ID]; ok {
			return domain.ErrAlreadyExists
		}
		s.txns[t.ID] = cloneTransaction(t)
		return nil
	})
}

func (r *transactionRepo) Get(ctx context.Context, id uuid.UUID) (t *transaction.Transaction, err error) {
	err = r.uow.locked(func() error {
		stored, ok := r.uow.store.txns[id]
		if !ok {
			return domain.ErrNotFound
		}
		t = cloneTransaction(stored)
		return nil
	})
	return
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) (result []*transaction.Transaction, err error) {
	err = r.uow.locked(func() error {
		for _, t := range r.uow.store.txns {
			if t.AccountID == accountID {
				result = append(result, cloneTransaction(t))
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
		if limit > 0 && len(result) > limit {
			result = result[:limit]
		}
		return nil
	})
	return
}

func (r *transactionRepo) ListFailedSince(ctx context.Context, since time.Time, reasonContains string, limit int) (result []*transaction.Transaction, err error) {
	needle := strings.ToLower(reasonContains)
	err = r.uow.locked(func() error {
		for _, t := range r.uow.store.txns {
			if t.Status != transaction.StatusFailed || t.CreatedAt.Before(since) {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(t.FailureReason), needle) {
				continue
			}
			result = append(result, cloneTransaction(t))
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
		if limit > 0 && len(result) > limit {
			result = result[:limit]
		}
		return nil
	})
	return
}

func (r *transactionRepo) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	return r.uow.locked(func() error {
		t, ok := r.uow.store.txns[id]
		if !ok {
			return domain.ErrNotFound
		}
		if update.Status != nil {
			t.Status = transaction.Status(*update.Status)
		}
		if update.FailureReason != nil {
			t.FailureReason = *update.FailureReason
		}
		if update.ProcessedAt != nil {
			at := *update.ProcessedAt
			t.ProcessedAt = &at
		}
		t.UpdatedAt = time.Now()
		return nil
	})
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status, update dto.TransactionUpdate) (moved bool, err error) {
	err = r.uow.locked(func() error {
		t, ok := r.uow.store.txns[id]
		if !ok {
			return domain.ErrNotFound
		}
		if t.Status != from {
			return nil
		}
		t.Status = to
		if update.FailureReason != nil {
			t.FailureReason = *update.FailureReason
		}
		if update.ProcessedAt != nil {
			at := *update.ProcessedAt
			t.ProcessedAt = &at
		}
		t.UpdatedAt = time.Now()
		moved = true
		return nil
	})
	return
}

func (r *transactionRepo) MarkApplied(ctx context.Context, id uuid.UUID) (applied bool, err error) {
	err = r.uow.locked(func() error {
		s := r.uow.store
		if _, ok := s.txns[id]; !ok {
			return domain.ErrNotFound
		}
		if s.applied[id] {
			return nil
		}
		s.applied[id] = true
		applied = true
		return nil
	})
	return
}

type recurringRepo struct{ uow *UoW }

func (r *recurringRepo) Create(ctx context.Context, rt *transaction.RecurringTransaction) error {
	return r.uow.locked(func() error {
		s := r.uow.store
		if _, ok := s.recurring[rt.ID]; ok {
			return domain.ErrAlreadyExists
		}
		s.recurring[rt.ID] = cloneRecurring(rt)
		return nil
	})
}

func (r *recurringRepo) Get(ctx context.Context, id uuid.UUID) (rt *transaction.RecurringTransaction, err error) {
	err = r.uow.locked(func() error {
		stored, ok := r.uow.store.recurring[id]
		if !ok {
			return domain.ErrNotFound
		}
		rt = cloneRecurring(stored)
		return nil
	})
	return
}

func (r *recurringRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) (result []*transaction.RecurringTransaction, err error) {
	err = r.uow.locked(func() error {
		for _, rt := range r.uow.store.recurring {
			if rt.AccountID == accountID {
				result = append(result, cloneRecurring(rt))
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
		return nil
	})
	return
}

func (r *recurringRepo) ListDue(ctx context.Context, now time.Time, limit int) (result []*transaction.RecurringTransaction, err error) {
	err = r.uow.locked(func() error {
		for _, rt := range r.uow.store.recurring {
			if rt.Status == transaction.RecurringActive && !rt.NextExecution.After(now) {
				result = append(result, cloneRecurring(rt))
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].NextExecution.Before(result[j].NextExecution)
		})
		if limit > 0 && len(result) > limit {
			result = result[:limit]
		}
		return nil
	})
	return
}

func (r *recurringRepo) Update(ctx context.Context, id uuid.UUID, update dto.RecurringUpdate) error {
	return r.uow.locked(func() error {
		rt, ok := r.uow.store.recurring[id]
		if !ok {
			return domain.ErrNotFound
		}
		if update.Amount != nil {
			rt.Amount = moneyFrom(*update.Amount, string(rt.Amount.Currency()))
		}
		if update.Description != nil {
			rt.Description = *update.Description
		}
		if update.Frequency != nil {
			rt.Frequency = transaction.Frequency(*update.Frequency)
		}
		if update.NextExecution != nil {
			rt.NextExecution = *update.NextExecution
		}
		if update.ExecutionCount != nil {
			rt.ExecutionCount = *update.ExecutionCount
		}
		if update.MaxExecutions != nil {
			n := *update.MaxExecutions
			rt.MaxExecutions = &n
		}
		if update.EndDate != nil {
			d := *update.EndDate
			rt.EndDate = &d
		}
		if update.Status != nil {
			rt.Status = transaction.RecurringStatus(*update.Status)
		}
		rt.UpdatedAt = time.Now()
		return nil
	})
}

type logRepo struct{ uow *UoW }

func (r *logRepo) Append(ctx context.Context, l *transaction.Log) error {
	return r.uow.locked(func() error {
		c := *l
		r.uow.store.logs = append(r.uow.store.logs, &c)
		return nil
	})
}

func (r *logRepo) ListByTransaction(ctx context.Context, txID uuid.UUID) (result []*transaction.Log, err error) {
	err = r.uow.locked(func() error {
		for _, l := range r.uow.store.logs {
			if l.TransactionID == txID {
				c := *l
				result = append(result, &c)
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
		return nil
	})
	return
}

func (r *logRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	err = r.uow.locked(func() error {
		kept := r.uow.store.logs[:0]
		for _, l := range r.uow.store.logs {
			if l.CreatedAt.Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, l)
		}
		r.uow.store.logs = kept
		return nil
	})
	return
}

type userRepo struct{ uow *UoW }

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	return r.uow.locked(func() error {
		s := r.uow.store
		if _, ok := s.byEmail[u.Email]; ok {
			return domain.ErrAlreadyExists
		}
		if _, ok := s.byUsername[u.Username]; ok {
			return domain.ErrAlreadyExists
		}
		s.users[u.ID] = cloneUser(u)
		s.byEmail[u.Email] = u.ID
		s.byUsername[u.Username] = u.ID
		return nil
	})
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (u *user.User, err error) {
	err = r.uow.locked(func() error {
		stored, ok := r.uow.store.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u = cloneUser(stored)
		return nil
	})
	return
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (u *user.User, err error) {
	err = r.uow.locked(func() error {
		id, ok := r.uow.store.byEmail[email]
		if !ok {
			return domain.ErrNotFound
		}
		u = cloneUser(r.uow.store.users[id])
		return nil
	})
	return
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (u *user.User, err error) {
	err = r.uow.locked(func() error {
		id, ok := r.uow.store.byUsername[username]
		if !ok {
			return domain.ErrNotFound
		}
		u = cloneUser(r.uow.store.users[id])
		return nil
	})
	return
}
