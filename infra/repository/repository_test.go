package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/dto"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestMarkAppliedFlipsFlagOnce(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	r := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WithArgs(true, sqlmock.AnyArg(), id, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := r.MarkApplied(context.Background(), id)
	require.NoError(t, err)
	assert.True(applied, "first caller wins the flag")

	// The guarded WHERE matches no rows the second time.
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WithArgs(true, sqlmock.AnyArg(), id, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err = r.MarkApplied(context.Background(), id)
	require.NoError(t, err)
	assert.False(applied, "replays must report not-applied")

	assert.NoError(mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardsOnPreviousStatus(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	r := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WithArgs("processing", sqlmock.AnyArg(), id, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	moved, err := r.UpdateStatus(context.Background(), id,
		transaction.StatusPending, transaction.StatusProcessing, dto.TransactionUpdate{})
	require.NoError(t, err)
	assert.True(moved, "the row still held the expected status")

	// A row that moved on concurrently no longer matches the WHERE clause.
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WithArgs("processing", sqlmock.AnyArg(), id, "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err = r.UpdateStatus(context.Background(), id,
		transaction.StatusPending, transaction.StatusProcessing, dto.TransactionUpdate{})
	require.NoError(t, err)
	assert.False(moved, "a stale caller must lose the move")

	assert.NoError(mock.ExpectationsWereMet())
}

func TestGetTranslatesNotFound(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	r := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.Get(context.Background(), id)
	assert.ErrorIs(err, domain.ErrNotFound)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUoWDoCommitsOnSuccess(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(repo.UnitOfWork) error { return nil })
	assert.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUoWDoRollsBackOnError(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(repo.UnitOfWork) error { return boom })
	assert.ErrorIs(err, boom)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUoWNestedDoReusesTransaction(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	// One Begin and one Commit for the whole nesting.
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(outer repo.UnitOfWork) error {
		return outer.Do(context.Background(), func(repo.UnitOfWork) error { return nil })
	})
	assert.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}
