// Package account manages account lifecycle: opening, listing, and status
// changes. Balance mutation lives in the ledger, not here.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finvault/finvault/pkg/domain"
	acc "github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/google/uuid"
)

// Service manages accounts.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an account service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create opens an additional account for the user. The first account is
// opened at registration; extra accounts are never primary.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, accType acc.Type) (*dto.AccountRead, error) {
	if !accType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrValidation, accType)
	}
	created, err := acc.New().
		WithUserID(userID).
		WithNumber(utils.GenerateAccountNumber()).
		WithType(accType).
		Build()
	if err != nil {
		return nil, err
	}
	if err := s.uow.Accounts().Create(ctx, created); err != nil {
		return nil, err
	}
	s.logger.Info("account opened",
		"account_id", created.ID, "user_id", userID, "type", accType)
	read := toRead(created)
	return &read, nil
}

// Get returns one account owned by userID.
func (s *Service) Get(ctx context.Context, userID, accountID uuid.UUID) (*dto.AccountRead, error) {
	a, err := s.uow.Accounts().Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, acc.ErrAccountNotFound
		}
		return nil, err
	}
	if err := a.ValidateOwner(userID); err != nil {
		return nil, err
	}
	read := toRead(a)
	return &read, nil
}

// ListByUser returns the user's accounts, primary first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AccountRead, error) {
	accounts, err := s.uow.Accounts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reads := make([]dto.AccountRead, 0, len(accounts))
	for _, a := range accounts {
		reads = append(reads, toRead(a))
	}
	return reads, nil
}

func toRead(a *acc.Account) dto.AccountRead {
	return dto.AccountRead{
		ID:        a.ID,
		UserID:    a.UserID,
		Number:    a.Number,
		Type:      string(a.Type),
		Balance:   a.Balance.AmountFloat(),
		Available: a.Available.AmountFloat(),
		Currency:  string(a.Currency()),
		Status:    string(a.Status),
		IsPrimary: a.IsPrimary,
		CreatedAt: a.CreatedAt,
	}
}
