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

type recurringRepository struct {
	db *gorm.DB
}

// NewRecurringRepository creates a recurring-transaction repository using the provided *gorm.DB.
func NewRecurringRepository(db *gorm.DB) repo.RecurringRepository {
	return &recurringRepository{db: db}
}

func (r *recurringRepository) Create(ctx context.Context, rt *transaction.RecurringTransaction) error {
	m := recurringToModel(rt)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *recurringRepository) Get(ctx context.Context, id uuid.UUID) (*transaction.RecurringTransaction, error) {
	var m RecurringTransaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return recurringToDomain(&m), nil
}

func (r *recurringRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.RecurringTransaction, error) {
	var models []RecurringTransaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	result := make([]*transaction.RecurringTransaction, 0, len(models))
	for i := range models {
		result = append(result, recurringToDomain(&models[i]))
	}
	return result, nil
}

func (r *recurringRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*transaction.RecurringTransaction, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND next_execution <= ?", string(transaction.RecurringActive), now).
		Order("next_execution asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []RecurringTransaction
	if err := q.Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	result := make([]*transaction.RecurringTransaction, 0, len(models))
	for i := range models {
		result = append(result, recurringToDomain(&models[i]))
	}
	return result, nil
}

func (r *recurringRepository) Update(ctx context.Context, id uuid.UUID, update dto.RecurringUpdate) error {
	updates := make(map[string]any)
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Frequency != nil {
		updates["frequency"] = *update.Frequency
	}
	if update.NextExecution != nil {
		updates["next_execution"] = *update.NextExecution
	}
	if update.ExecutionCount != nil {
		updates["execution_count"] = *update.ExecutionCount
	}
	if update.MaxExecutions != nil {
		updates["max_executions"] = *update.MaxExecutions
	}
	if update.EndDate != nil {
		updates["end_date"] = *update.EndDate
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&RecurringTransaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}
