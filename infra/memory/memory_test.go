package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/dto"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransaction(t *testing.T, uow *UoW, accountID uuid.UUID) *transaction.Transaction {
	t.Helper()
	tx := &transaction.Transaction{
		ID:        uuid.New(),
		Reference: "TXN0000000001",
		AccountID: accountID,
		Amount:    money.NewFromData(1000, string(money.USD)),
		Fee:       money.NewFromData(0, string(money.USD)),
		Direction: transaction.DirectionCredit,
		Status:    transaction.StatusPending,
		Category:  transaction.CategoryDeposit,
	}
	require.NoError(t, uow.Transactions().Create(context.Background(), tx))
	return tx
}

func TestDoRollsBackOnError(t *testing.T) {
	assert := assert.New(t)
	uow := NewUoW()
	ctx := context.Background()

	acc, err := account.New().
		WithUserID(uuid.New()).
		WithNumber("ACC12345678").
		Build()
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().Create(ctx, acc))
	tx := seedTransaction(t, uow, acc.ID)

	boom := errors.New("boom")
	err = uow.Do(ctx, func(inner repo.UnitOfWork) error {
		applied, err := inner.Transactions().MarkApplied(ctx, tx.ID)
		require.NoError(t, err)
		require.True(t, applied)

		balance := int64(1000)
		require.NoError(t, inner.Accounts().Update(ctx, acc.ID, dto.AccountUpdate{Balance: &balance}))

		other, err := account.New().
			WithUserID(uuid.New()).
			WithNumber("ACC87654321").
			Build()
		require.NoError(t, err)
		require.NoError(t, inner.Accounts().Create(ctx, other))
		return boom
	})
	assert.ErrorIs(err, boom)

	applied, err := uow.Transactions().MarkApplied(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(applied, "the flag flip from the failed unit was undone")

	stored, err := uow.Accounts().Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(stored.Balance.IsZero(), "the balance write from the failed unit was undone")

	_, err = uow.Accounts().GetByNumber(ctx, "ACC87654321")
	assert.ErrorIs(err, domain.ErrNotFound, "the insert from the failed unit was undone")
}

func TestDoKeepsWritesOnSuccess(t *testing.T) {
	assert := assert.New(t)
	uow := NewUoW()
	ctx := context.Background()

	acc, err := account.New().
		WithUserID(uuid.New()).
		WithNumber("ACC12345678").
		Build()
	require.NoError(t, err)

	err = uow.Do(ctx, func(inner repo.UnitOfWork) error {
		return inner.Accounts().Create(ctx, acc)
	})
	require.NoError(t, err)

	stored, err := uow.Accounts().Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(acc.ID, stored.ID)
}
