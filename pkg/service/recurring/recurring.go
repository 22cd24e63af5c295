// Package recurring manages standing transaction definitions and the sweep
// that materializes them into concrete transactions when they fall due.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/dto"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/google/uuid"
)

// CreateRequest carries a validated recurring definition into the service.
type CreateRequest struct {
	AccountID       uuid.UUID
	Amount          float64
	Description     string
	Category        transaction.Category
	RecipientNumber string
	RecipientName   string
	Frequency       transaction.Frequency
	StartDate       time.Time
	EndDate         *time.Time
	MaxExecutions   *int
}

// UpdateRequest carries a partial edit of a recurring definition.
type UpdateRequest struct {
	Amount        *float64
	Description   *string
	Frequency     *transaction.Frequency
	EndDate       *time.Time
	MaxExecutions *int
}

// Service manages recurring transaction definitions.
type Service struct {
	uow       repository.UnitOfWork
	processor *processor.Service
	logger    *slog.Logger
}

// New creates a recurring-transaction service.
func New(uow repository.UnitOfWork, proc *processor.Service, logger *slog.Logger) *Service {
	return &Service{uow: uow, processor: proc, logger: logger}
}

// Create registers a new recurring definition. The first execution is due at
// the start date.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*dto.RecurringRead, error) {
	if !req.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", domain.ErrValidation, req.Frequency)
	}
	if req.Category == "" || !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, req.Category)
	}
	if req.MaxExecutions != nil && *req.MaxExecutions <= 0 {
		return nil, fmt.Errorf("%w: max executions must be positive", domain.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", domain.ErrValidation)
	}

	var created *transaction.RecurringTransaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := s.ownedAccount(ctx, uow, req.AccountID, userID)
		if err != nil {
			return err
		}
		if acc.Status != account.StatusActive {
			return account.ErrAccountNotActive
		}
		amount, err := money.New(req.Amount, acc.Currency())
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %v", domain.ErrValidation, transaction.ErrAmountMustBePositive)
		}
		now := time.Now()
		created = &transaction.RecurringTransaction{
			ID:              uuid.New(),
			AccountID:       acc.ID,
			Amount:          amount,
			Description:     req.Description,
			Category:        req.Category,
			RecipientNumber: req.RecipientNumber,
			RecipientName:   req.RecipientName,
			Frequency:       req.Frequency,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			NextExecution:   req.StartDate,
			Status:          transaction.RecurringActive,
			MaxExecutions:   req.MaxExecutions,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return uow.Recurring().Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("recurring transaction created",
		"recurring_id", created.ID,
		"account_id", created.AccountID,
		"frequency", created.Frequency,
	)
	read := toRead(created)
	return &read, nil
}

// Get returns one recurring definition owned by userID.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*dto.RecurringRead, error) {
	rt, err := s.owned(ctx, s.uow, id, userID)
	if err != nil {
		return nil, err
	}
	read := toRead(rt)
	return &read, nil
}

// ListByAccount returns the account's recurring definitions, newest first.
func (s *Service) ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]dto.RecurringRead, error) {
	if _, err := s.ownedAccount(ctx, s.uow, accountID, userID); err != nil {
		return nil, err
	}
	rts, err := s.uow.Recurring().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	reads := make([]dto.RecurringRead, 0, len(rts))
	for _, rt := range rts {
		reads = append(reads, toRead(rt))
	}
	return reads, nil
}

// ListByUser returns every recurring definition across the user's accounts.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.RecurringRead, error) {
	accounts, err := s.uow.Accounts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var reads []dto.RecurringRead
	for _, acc := range accounts {
		rts, err := s.uow.Recurring().ListByAccount(ctx, acc.ID)
		if err != nil {
			return nil, err
		}
		for _, rt := range rts {
			reads = append(reads, toRead(rt))
		}
	}
	return reads, nil
}

// Update edits a recurring definition. Cancelled and completed definitions
// are immutable.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*dto.RecurringRead, error) {
	if req.Frequency != nil && !req.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", domain.ErrValidation, *req.Frequency)
	}
	var updated *transaction.RecurringTransaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		rt, err := s.owned(ctx, uow, id, userID)
		if err != nil {
			return err
		}
		if rt.Status == transaction.RecurringCancelled || rt.Status == transaction.RecurringCompleted {
			return transaction.ErrInvalidState
		}
		update := dto.RecurringUpdate{
			Description:   req.Description,
			EndDate:       req.EndDate,
			MaxExecutions: req.MaxExecutions,
		}
		if req.Amount != nil {
			amount, err := money.New(*req.Amount, rt.Amount.Currency())
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			if !amount.IsPositive() {
				return fmt.Errorf("%w: %v", domain.ErrValidation, transaction.ErrAmountMustBePositive)
			}
			minor := amount.Amount()
			update.Amount = &minor
			rt.Amount = amount
		}
		if req.Frequency != nil {
			freq := string(*req.Frequency)
			update.Frequency = &freq
			rt.Frequency = *req.Frequency
		}
		if req.Description != nil {
			rt.Description = *req.Description
		}
		if req.EndDate != nil {
			rt.EndDate = req.EndDate
		}
		if req.MaxExecutions != nil {
			rt.MaxExecutions = req.MaxExecutions
		}
		updated = rt
		return uow.Recurring().Update(ctx, id, update)
	})
	if err != nil {
		return nil, err
	}
	read := toRead(updated)
	return &read, nil
}

// Pause suspends an active definition.
func (s *Service) Pause(ctx context.Context, userID, id uuid.UUID) (*dto.RecurringRead, error) {
	return s.setStatus(ctx, userID, id, transaction.RecurringActive, transaction.RecurringPaused)
}

// Resume reactivates a paused definition.
func (s *Service) Resume(ctx context.Context, userID, id uuid.UUID) (*dto.RecurringRead, error) {
	return s.setStatus(ctx, userID, id, transaction.RecurringPaused, transaction.RecurringActive)
}

// Cancel permanently stops a definition. Already finished definitions cannot
// be cancelled.
func (s *Service) Cancel(ctx context.Context, userID, id uuid.UUID) (*dto.RecurringRead, error) {
	var cancelled *transaction.RecurringTransaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		rt, err := s.owned(ctx, uow, id, userID)
		if err != nil {
			return err
		}
		if rt.Status == transaction.RecurringCancelled || rt.Status == transaction.RecurringCompleted {
			return transaction.ErrInvalidState
		}
		status := string(transaction.RecurringCancelled)
		rt.Status = transaction.RecurringCancelled
		cancelled = rt
		return uow.Recurring().Update(ctx, id, dto.RecurringUpdate{Status: &status})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("recurring transaction cancelled", "recurring_id", id, "user_id", userID)
	read := toRead(cancelled)
	return &read, nil
}

// ExecuteDue materializes every due definition into a concrete transaction
// and processes it. Each definition is isolated: one failure never aborts the
// sweep, and the schedule only advances after a successful execution.
func (s *Service) ExecuteDue(ctx context.Context, now time.Time, limit int) (dto.SweepResult, error) {
	due, err := s.uow.Recurring().ListDue(ctx, now, limit)
	if err != nil {
		return dto.SweepResult{}, err
	}
	result := dto.SweepResult{Total: len(due)}
	for _, rt := range due {
		if !rt.CanExecute(now) {
			continue
		}
		if err := s.executeOne(ctx, rt); err != nil {
			result.Failed++
			s.logger.Warn("recurring execution failed",
				"recurring_id", rt.ID, "account_id", rt.AccountID, "error", err)
			continue
		}
		result.Processed++
	}
	if result.Total > 0 {
		s.logger.Info("recurring sweep finished",
			"total", result.Total, "processed", result.Processed, "failed", result.Failed)
	}
	return result, nil
}

func (s *Service) executeOne(ctx context.Context, rt *transaction.RecurringTransaction) error {
	acc, err := s.uow.Accounts().Get(ctx, rt.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return account.ErrAccountNotFound
		}
		return err
	}
	created, err := s.processor.Create(ctx, acc.UserID, processor.CreateRequest{
		AccountID:       rt.AccountID,
		Amount:          rt.Amount.AmountFloat(),
		Direction:       transaction.DirectionDebit,
		Category:        rt.Category,
		Description:     "Recurring: " + rt.Description,
		RecipientNumber: rt.RecipientNumber,
		RecipientName:   rt.RecipientName,
	})
	if err != nil {
		return err
	}
	if _, err := s.processor.Process(ctx, created.ID); err != nil {
		return err
	}

	rt.MarkExecuted()
	status := string(rt.Status)
	return s.uow.Recurring().Update(ctx, rt.ID, dto.RecurringUpdate{
		NextExecution:  &rt.NextExecution,
		ExecutionCount: &rt.ExecutionCount,
		Status:         &status,
	})
}

func (s *Service) setStatus(ctx context.Context, userID, id uuid.UUID, from, to transaction.RecurringStatus) (*dto.RecurringRead, error) {
	var updated *transaction.RecurringTransaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		rt, err := s.owned(ctx, uow, id, userID)
		if err != nil {
			return err
		}
		if rt.Status != from {
			return transaction.ErrInvalidState
		}
		status := string(to)
		rt.Status = to
		updated = rt
		return uow.Recurring().Update(ctx, id, dto.RecurringUpdate{Status: &status})
	})
	if err != nil {
		return nil, err
	}
	read := toRead(updated)
	return &read, nil
}

func (s *Service) owned(ctx context.Context, uow repository.UnitOfWork, id, userID uuid.UUID) (*transaction.RecurringTransaction, error) {
	rt, err := uow.Recurring().Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, transaction.ErrRecurringNotFound
		}
		return nil, err
	}
	if _, err := s.ownedAccount(ctx, uow, rt.AccountID, userID); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ownedAccount(ctx context.Context, uow repository.UnitOfWork, accountID, userID uuid.UUID) (*account.Account, error) {
	acc, err := uow.Accounts().Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	if err := acc.ValidateOwner(userID); err != nil {
		return nil, err
	}
	return acc, nil
}

func toRead(rt *transaction.RecurringTransaction) dto.RecurringRead {
	return dto.RecurringRead{
		ID:              rt.ID,
		AccountID:       rt.AccountID,
		Amount:          rt.Amount.AmountFloat(),
		Description:     rt.Description,
		Category:        string(rt.Category),
		RecipientNumber: rt.RecipientNumber,
		RecipientName:   rt.RecipientName,
		Frequency:       string(rt.Frequency),
		StartDate:       rt.StartDate,
		EndDate:         rt.EndDate,
		NextExecution:   rt.NextExecution,
		ExecutionCount:  rt.ExecutionCount,
		MaxExecutions:   rt.MaxExecutions,
		Status:          string(rt.Status),
		CreatedAt:       rt.CreatedAt,
	}
}
