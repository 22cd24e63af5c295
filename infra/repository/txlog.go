package repository

import (
	"context"
	"time"

	"github.com/finvault/finvault/pkg/domain/transaction"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionLogRepository struct {
	db *gorm.DB
}

// NewTransactionLogRepository creates an audit-log repository using the provided *gorm.DB.
func NewTransactionLogRepository(db *gorm.DB) repo.TransactionLogRepository {
	return &transactionLogRepository{db: db}
}

func (r *transactionLogRepository) Append(ctx context.Context, l *transaction.Log) error {
	m := logToModel(l)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionLogRepository) ListByTransaction(ctx context.Context, txID uuid.UUID) ([]*transaction.Log, error) {
	var models []TransactionLog
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", txID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	result := make([]*transaction.Log, 0, len(models))
	for i := range models {
		result = append(result, logToDomain(&models[i]))
	}
	return result, nil
}

func (r *transactionLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&TransactionLog{})
	return res.RowsAffected, res.Error
}
