package repository

import (
	"context"

	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/dto"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository using the provided *gorm.DB.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return accountToDomain(&m)
}

// GetForUpdate takes a row lock on the account so concurrent balance
// mutations on the same account serialize. Must run inside a UnitOfWork Do.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return accountToDomain(&m)
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "number = ?", number).Error; err != nil {
		return nil, translateErr(err)
	}
	return accountToDomain(&m)
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary desc, created_at desc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		a, err := accountToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := make(map[string]any)
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.Available != nil {
		updates["available"] = *update.Available
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(updates).Error
}
