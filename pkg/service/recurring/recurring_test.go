package recurring

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/finvault/finvault/infra/memory"
	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/service/ledger"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := memory.NewUoW()
	logger := slog.New(slog.DiscardHandler)
	proc := processor.New(uow, ledger.New(uow, logger), logger)
	return New(uow, proc, logger), uow
}

func seedAccount(t *testing.T, uow repository.UnitOfWork, balanceCents int64) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithNumber(utils.GenerateAccountNumber()).
		WithBalance(balanceCents).
		WithAvailable(balanceCents).
		Build()
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().Create(context.Background(), acc))
	return acc
}

func billsRequest(acc *account.Account, amount float64, start time.Time) CreateRequest {
	return CreateRequest{
		AccountID: acc.ID,
		Amount:    amount,
		Category:  transaction.CategoryBills,
		Frequency: transaction.FrequencyMonthly,
		StartDate: start,
	}
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)
	start := time.Now().AddDate(0, 0, 1)

	rt, err := svc.Create(context.Background(), acc.UserID, billsRequest(acc, 20, start))
	require.NoError(t, err)
	assert.Equal("active", rt.Status)
	assert.Equal(0, rt.ExecutionCount)
	assert.Equal(start, rt.NextExecution, "first run is due at the start date")
}

func TestCreateValidation(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)
	start := time.Now()

	req := billsRequest(acc, 20, start)
	req.Frequency = "fortnightly"
	_, err := svc.Create(context.Background(), acc.UserID, req)
	assert.ErrorIs(err, domain.ErrValidation)

	req = billsRequest(acc, -1, start)
	_, err = svc.Create(context.Background(), acc.UserID, req)
	assert.ErrorIs(err, domain.ErrValidation)

	req = billsRequest(acc, 20, start)
	bad := 0
	req.MaxExecutions = &bad
	_, err = svc.Create(context.Background(), acc.UserID, req)
	assert.ErrorIs(err, domain.ErrValidation)

	req = billsRequest(acc, 20, start)
	before := start.AddDate(0, 0, -1)
	req.EndDate = &before
	_, err = svc.Create(context.Background(), acc.UserID, req)
	assert.ErrorIs(err, domain.ErrValidation, "end date before start date")

	_, err = svc.Create(context.Background(), uuid.New(), billsRequest(acc, 20, start))
	assert.ErrorIs(err, account.ErrNotOwner)
}

func TestPauseResumeCancel(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	rt, err := svc.Create(context.Background(), acc.UserID, billsRequest(acc, 20, time.Now()))
	require.NoError(t, err)

	paused, err := svc.Pause(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)
	assert.Equal("paused", paused.Status)

	_, err = svc.Pause(context.Background(), acc.UserID, rt.ID)
	assert.ErrorIs(err, transaction.ErrInvalidState, "pausing twice is illegal")

	resumed, err := svc.Resume(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)
	assert.Equal("active", resumed.Status)

	cancelled, err := svc.Cancel(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)
	assert.Equal("cancelled", cancelled.Status)

	_, err = svc.Resume(context.Background(), acc.UserID, rt.ID)
	assert.ErrorIs(err, transaction.ErrInvalidState, "cancelled definitions stay cancelled")
	_, err = svc.Update(context.Background(), acc.UserID, rt.ID, UpdateRequest{})
	assert.ErrorIs(err, transaction.ErrInvalidState, "cancelled definitions are immutable")
}

func TestUpdate(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 10000)

	rt, err := svc.Create(context.Background(), acc.UserID, billsRequest(acc, 20, time.Now()))
	require.NoError(t, err)

	amount := 35.0
	desc := "electricity"
	weekly := transaction.FrequencyWeekly
	updated, err := svc.Update(context.Background(), acc.UserID, rt.ID, UpdateRequest{
		Amount:      &amount,
		Description: &desc,
		Frequency:   &weekly,
	})
	require.NoError(t, err)
	assert.Equal(35.0, updated.Amount)
	assert.Equal("electricity", updated.Description)
	assert.Equal("weekly", updated.Frequency)
}

func TestExecuteDue(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 100000)
	start := time.Now().Add(-time.Hour)

	req := billsRequest(acc, 20, start)
	req.Description = "electricity"
	rt, err := svc.Create(context.Background(), acc.UserID, req)
	require.NoError(t, err)

	result, err := svc.ExecuteDue(context.Background(), time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(1, result.Total)
	assert.Equal(1, result.Processed)
	assert.Equal(0, result.Failed)

	txs, err := uow.Transactions().ListByAccount(context.Background(), acc.ID, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal("Recurring: electricity", txs[0].Description,
		"materialized transactions are marked in the audit trail")

	got, err := svc.Get(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)
	assert.Equal(1, got.ExecutionCount)
	assert.Equal(start.AddDate(0, 1, 0), got.NextExecution, "schedule advances one interval")

	// A settled transaction with the fee applied: 20.00 + 1.00 minimum fee.
	accAfter, err := uow.Accounts().Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(int64(97900), accAfter.Balance.Amount())
}

func TestExecuteDueStopsAtMaxExecutions(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 100000)

	max := 3
	req := billsRequest(acc, 10, time.Now().AddDate(0, -6, 0))
	req.MaxExecutions = &max
	rt, err := svc.Create(context.Background(), acc.UserID, req)
	require.NoError(t, err)

	// The definition stays due after each advance, so repeated sweeps fire it
	// until the limit.
	for i := 0; i < 5; i++ {
		_, err := svc.ExecuteDue(context.Background(), time.Now(), 0)
		require.NoError(t, err)
	}

	got, err := svc.Get(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)
	assert.Equal(3, got.ExecutionCount, "maxExecutions=3 stops after three runs")
	assert.Equal("completed", got.Status)
}

func TestExecuteDueIsolatesFailures(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	broke := seedAccount(t, uow, 100)
	funded := seedAccount(t, uow, 100000)
	start := time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), broke.UserID, billsRequest(broke, 50, start))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), funded.UserID, billsRequest(funded, 50, start))
	require.NoError(t, err)

	result, err := svc.ExecuteDue(context.Background(), time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(2, result.Total)
	assert.Equal(1, result.Processed, "the funded definition still fires")
	assert.Equal(1, result.Failed, "the broke one fails without aborting the sweep")
}

func TestExecuteDueSkipsPaused(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	acc := seedAccount(t, uow, 100000)

	rt, err := svc.Create(context.Background(), acc.UserID, billsRequest(acc, 20, time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	_, err = svc.Pause(context.Background(), acc.UserID, rt.ID)
	require.NoError(t, err)

	result, err := svc.ExecuteDue(context.Background(), time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(0, result.Processed)
	assert.Equal(0, result.Failed)
}
