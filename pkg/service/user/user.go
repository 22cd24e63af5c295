// Package user handles registration and user lookups. Registration opens the
// user's primary checking account in the same unit of work.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/google/uuid"
)

// RegisterRequest carries a validated registration into the service.
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Service manages users.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a user and their primary checking account atomically.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*dto.UserRead, error) {
	if !utils.IsEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("%w: username or email already taken", domain.ErrValidation)
			}
			return err
		}
		acc, err := account.New().
			WithUserID(u.ID).
			WithNumber(utils.GenerateAccountNumber()).
			WithPrimary(true).
			Build()
		if err != nil {
			return err
		}
		return uow.Accounts().Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	read := toRead(u)
	return &read, nil
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	u, err := s.uow.Users().Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	read := toRead(u)
	return &read, nil
}

func toRead(u *user.User) dto.UserRead {
	return dto.UserRead{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		CreatedAt:      u.CreatedAt,
		HashedPassword: u.HashedPassword,
	}
}
