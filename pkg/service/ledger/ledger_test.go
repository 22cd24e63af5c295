package ledger

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/finvault/finvault/infra/memory"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := memory.NewUoW()
	return New(uow, slog.New(slog.DiscardHandler)), uow
}

func seedAccount(t *testing.T, uow repository.UnitOfWork, balanceCents int64) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithNumber("ACC11112222").
		WithBalance(balanceCents).
		WithAvailable(balanceCents).
		Build()
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().Create(context.Background(), acc))
	return acc
}

func seedTransaction(t *testing.T, uow repository.UnitOfWork, accountID uuid.UUID) uuid.UUID {
	t.Helper()
	tx := &transaction.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    usd(t, 10),
		Direction: transaction.DirectionDebit,
		Status:    transaction.StatusProcessing,
	}
	require.NoError(t, uow.Transactions().Create(context.Background(), tx))
	return tx.ID
}

func usd(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, money.USD)
	require.NoError(t, err)
	return m
}

func TestGetBalance(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	balance, err := svc.GetBalance(context.Background(), acc.UserID, acc.ID)
	require.NoError(t, err)
	assert.Equal(100.0, balance.Balance)
	assert.Equal(100.0, balance.Available)
	assert.Equal("****2222", balance.MaskedNumber, "account number must be masked")
}

func TestGetBalanceEnforcesOwnership(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	_, err := svc.GetBalance(context.Background(), uuid.New(), acc.ID)
	assert.ErrorIs(err, account.ErrNotOwner)
}

func TestGetBalanceUnknownAccount(t *testing.T) {
	assert := assert.New(t)
	svc, _ := newTestService(t)

	_, err := svc.GetBalance(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(err, account.ErrAccountNotFound)
}

func TestReserveLowersAvailableOnly(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	require.NoError(t, svc.Reserve(context.Background(), acc.ID, usd(t, 60)))

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(10000), got.Balance.Amount())
	assert.Equal(int64(4000), got.Available.Amount())
}

func TestReserveInsufficientFundsLeavesBalanceUntouched(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	err := svc.Reserve(context.Background(), acc.ID, usd(t, 100.01))
	assert.ErrorIs(err, account.ErrInsufficientFunds)

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(10000), got.Balance.Amount())
	assert.Equal(int64(10000), got.Available.Amount())
}

func TestReleaseRestoresAvailable(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	require.NoError(t, svc.Reserve(context.Background(), acc.ID, usd(t, 60)))
	require.NoError(t, svc.Release(context.Background(), acc.ID, usd(t, 60)))

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(10000), got.Available.Amount())
}

func TestCommitDebitSettlesBalance(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)
	txID := seedTransaction(t, uow, acc.ID)

	require.NoError(t, svc.Reserve(context.Background(), acc.ID, usd(t, 60)))
	require.NoError(t, svc.Commit(context.Background(), txID, acc.ID, usd(t, 60), transaction.DirectionDebit))

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(4000), got.Balance.Amount())
	assert.Equal(int64(4000), got.Available.Amount())
}

func TestCommitIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)
	txID := seedTransaction(t, uow, acc.ID)

	require.NoError(t, svc.Reserve(context.Background(), acc.ID, usd(t, 60)))
	require.NoError(t, svc.Commit(context.Background(), txID, acc.ID, usd(t, 60), transaction.DirectionDebit))

	// Replaying the same commit must change nothing.
	require.NoError(t, svc.Commit(context.Background(), txID, acc.ID, usd(t, 60), transaction.DirectionDebit))

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(4000), got.Balance.Amount(), "second commit must not settle twice")
	assert.Equal(int64(4000), got.Available.Amount())
}

func TestCommitCreditRaisesBothBalances(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)
	txID := seedTransaction(t, uow, acc.ID)

	require.NoError(t, svc.Commit(context.Background(), txID, acc.ID, usd(t, 25), transaction.DirectionCredit))

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(12500), got.Balance.Amount())
	assert.Equal(int64(12500), got.Available.Amount())
}

// Two concurrent 60.00 debits against a 100.00 balance: exactly one reserve
// succeeds and the final balance is 40.00.
func TestConcurrentDebits(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	txIDs := []uuid.UUID{seedTransaction(t, uow, acc.ID), seedTransaction(t, uow, acc.ID)}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := svc.Reserve(context.Background(), acc.ID, usd(t, 60)); err != nil {
				errs[i] = err
				return
			}
			errs[i] = svc.Commit(context.Background(), txIDs[i], acc.ID, usd(t, 60), transaction.DirectionDebit)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(err, account.ErrInsufficientFunds)
			failures++
		}
	}
	assert.Equal(1, failures, "exactly one of the two debits must fail")

	got, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(4000), got.Balance.Amount(), "final balance should be 40.00")
	assert.Equal(int64(4000), got.Available.Amount())
}
