package repository

import (
	"context"

	"github.com/finvault/finvault/pkg/domain/user"
	repo "github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository using the provided *gorm.DB.
func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := userToModel(u)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, translateErr(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "username = ?", username).Error; err != nil {
		return nil, translateErr(err)
	}
	return userToDomain(&m), nil
}
