// Package ledger owns authoritative account balances. All mutations run
// inside a unit of work that serializes per-account access, and commits are
// idempotent per transaction id so the processor can retry safely.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/google/uuid"
)

// Service exposes balance queries and the reserve/commit/release cycle.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a ledger service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// GetBalance returns the balance view of an account owned by userID.
func (s *Service) GetBalance(ctx context.Context, userID, accountID uuid.UUID) (*dto.BalanceRead, error) {
	acc, err := s.uow.Accounts().Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	if err := acc.ValidateOwner(userID); err != nil {
		return nil, err
	}
	return &dto.BalanceRead{
		AccountID:    acc.ID,
		MaskedNumber: acc.MaskedNumber(),
		Type:         string(acc.Type),
		Balance:      acc.Balance.AmountFloat(),
		Available:    acc.Available.AmountFloat(),
		Currency:     string(acc.Currency()),
		Status:       string(acc.Status),
	}, nil
}

// Reserve earmarks amount against the account's available balance. Fails with
// account.ErrInsufficientFunds when the available balance cannot cover it.
func (s *Service) Reserve(ctx context.Context, accountID uuid.UUID, amount money.Money) error {
	log := s.logger.With("operation", "reserve", "account_id", accountID, "amount", amount.String())
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := s.getForUpdate(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if err := acc.Reserve(amount); err != nil {
			return err
		}
		return s.writeBalances(ctx, uow, acc)
	})
	if err != nil {
		log.Warn("reserve failed", "error", err)
		return err
	}
	log.Debug("reserved")
	return nil
}

// Release returns a previously reserved amount to the available balance.
func (s *Service) Release(ctx context.Context, accountID uuid.UUID, amount money.Money) error {
	log := s.logger.With("operation", "release", "account_id", accountID, "amount", amount.String())
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := s.getForUpdate(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if err := acc.Release(amount); err != nil {
			return err
		}
		return s.writeBalances(ctx, uow, acc)
	})
	if err != nil {
		log.Warn("release failed", "error", err)
		return err
	}
	log.Debug("released")
	return nil
}

// Commit settles the balance change for txID. Replaying a commit for an
// already-applied transaction id is a no-op: the applied flag is flipped
// exactly once inside the same unit of work as the balance write.
func (s *Service) Commit(ctx context.Context, txID, accountID uuid.UUID, amount money.Money, direction transaction.Direction) error {
	log := s.logger.With(
		"operation", "commit",
		"transaction_id", txID,
		"account_id", accountID,
		"amount", amount.String(),
		"direction", direction,
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		applied, err := uow.Transactions().MarkApplied(ctx, txID)
		if err != nil {
			return fmt.Errorf("mark applied: %w", err)
		}
		if !applied {
			log.Debug("commit replay ignored")
			return nil
		}
		acc, err := s.getForUpdate(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if direction == transaction.DirectionDebit {
			err = acc.CommitDebit(amount)
		} else {
			err = acc.CommitCredit(amount)
		}
		if err != nil {
			return err
		}
		return s.writeBalances(ctx, uow, acc)
	})
	if err != nil {
		log.Warn("commit failed", "error", err)
		return err
	}
	log.Debug("committed")
	return nil
}

func (s *Service) getForUpdate(ctx context.Context, uow repository.UnitOfWork, accountID uuid.UUID) (*account.Account, error) {
	acc, err := uow.Accounts().GetForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (s *Service) writeBalances(ctx context.Context, uow repository.UnitOfWork, acc *account.Account) error {
	balance := acc.Balance.Amount()
	available := acc.Available.Amount()
	return uow.Accounts().Update(ctx, acc.ID, dto.AccountUpdate{
		Balance:   &balance,
		Available: &available,
	})
}
