package repository

import (
	"context"
	"time"

	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/dto"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository using the provided *gorm.DB.
func NewTransactionRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	m := transactionToModel(t)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return transactionToDomain(&m), nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []Transaction
	if err := q.Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	result := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		result = append(result, transactionToDomain(&models[i]))
	}
	return result, nil
}

func (r *transactionRepository) ListFailedSince(ctx context.Context, since time.Time, reasonContains string, limit int) ([]*transaction.Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", string(transaction.StatusFailed), since).
		Order("created_at desc")
	if reasonContains != "" {
		q = q.Where("failure_reason ILIKE ?", "%"+reasonContains+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []Transaction
	if err := q.Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	result := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		result = append(result, transactionToDomain(&models[i]))
	}
	return result, nil
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	updates := make(map[string]any)
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.FailureReason != nil {
		updates["failure_reason"] = *update.FailureReason
	}
	if update.ProcessedAt != nil {
		updates["processed_at"] = *update.ProcessedAt
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatus is a guarded status move: the WHERE clause matches only while
// the row still holds the status the caller validated the transition against,
// so a concurrent writer who got there first wins and the loser sees false.
func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status, update dto.TransactionUpdate) (bool, error) {
	updates := map[string]any{"status": string(to)}
	if update.FailureReason != nil {
		updates["failure_reason"] = *update.FailureReason
	}
	if update.ProcessedAt != nil {
		updates["processed_at"] = *update.ProcessedAt
	}
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkApplied is a guarded flag flip: the WHERE clause loses the race for any
// second caller, making ledger commits idempotent per transaction id.
func (r *transactionRepository) MarkApplied(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND balance_applied = ?", id, false).
		Update("balance_applied", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
