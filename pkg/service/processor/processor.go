// Package processor validates and applies money-movement requests against the
// ledger, tracking each transaction through its status machine and appending
// an audit log entry on every transition.
package processor

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
	"github.com/finvault/finvault/pkg/service/ledger"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/google/uuid"
)

const systemActor = "system"

// CreateRequest carries a validated money-movement request into the processor.
type CreateRequest struct {
	AccountID       uuid.UUID
	Amount          float64
	Direction       transaction.Direction
	Category        transaction.Category
	Description     string
	RecipientNumber string
	RecipientName   string
}

// Service is the transaction processor.
type Service struct {
	uow    repository.UnitOfWork
	ledger *ledger.Service
	logger *slog.Logger
}

// New creates a transaction processor.
func New(uow repository.UnitOfWork, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{uow: uow, ledger: ledgerSvc, logger: logger}
}

// Create validates the request and inserts a pending transaction. Processing
// is a separate step so a pending transaction can still be cancelled.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*dto.TransactionRead, error) {
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, req.Direction)
	}
	if req.Category == "" || !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, req.Category)
	}

	var created *transaction.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := uow.Accounts().Get(ctx, req.AccountID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return account.ErrAccountNotFound
			}
			return err
		}
		if err := acc.ValidateOwner(userID); err != nil {
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

		if req.RecipientNumber != "" {
			if !utils.ValidAccountNumber(req.RecipientNumber) {
				return fmt.Errorf("%w: malformed recipient account number", domain.ErrValidation)
			}
			recipient, err := uow.Accounts().GetByNumber(ctx, req.RecipientNumber)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: recipient account does not exist", domain.ErrValidation)
				}
				return err
			}
			if recipient.Status != account.StatusActive {
				return fmt.Errorf("%w: recipient account is not active", domain.ErrValidation)
			}
		} else if req.Category == transaction.CategoryTransfer {
			return fmt.Errorf("%w: transfer requires a recipient account number", domain.ErrValidation)
		}

		now := time.Now()
		created = &transaction.Transaction{
			ID:              uuid.New(),
			Reference:       utils.GenerateTransactionReference(),
			AccountID:       acc.ID,
			RecipientNumber: req.RecipientNumber,
			RecipientName:   req.RecipientName,
			Amount:          amount,
			Direction:       req.Direction,
			Status:          transaction.StatusPending,
			Category:        req.Category,
			Description:     req.Description,
			Fee:             transaction.CalculateFee(amount, req.Category),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uow.Transactions().Create(ctx, created); err != nil {
			return err
		}
		return uow.TransactionLogs().Append(ctx, &transaction.Log{
			ID:            uuid.New(),
			TransactionID: created.ID,
			NewStatus:     transaction.StatusPending,
			Message:       "Transaction created",
			ProcessedBy:   systemActor,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transaction created",
		"transaction_id", created.ID,
		"reference", created.Reference,
		"account_id", created.AccountID,
		"amount", created.Amount.String(),
	)
	read := toRead(created)
	return &read, nil
}

// Process drives a transaction through processing to a terminal state:
// reserve then commit on the ledger, completed on success. Any ledger failure
// terminates the transaction as failed rather than leaving it processing.
func (s *Service) Process(ctx context.Context, txID uuid.UUID) (*dto.TransactionRead, error) {
	tx, err := s.get(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !tx.Status.CanTransitionTo(transaction.StatusProcessing) {
		return nil, transaction.ErrInvalidState
	}
	if err := s.transition(ctx, tx, transaction.StatusProcessing, "Transaction processing started", nil); err != nil {
		return nil, err
	}

	net, err := tx.NetAmount()
	if err != nil {
		s.fail(ctx, tx, err.Error())
		return nil, err
	}

	if tx.Direction == transaction.DirectionDebit {
		if err := s.ledger.Reserve(ctx, tx.AccountID, net); err != nil {
			s.fail(ctx, tx, failureReason(err))
			return nil, err
		}
	}
	if err := s.ledger.Commit(ctx, tx.ID, tx.AccountID, net, tx.Direction); err != nil {
		if tx.Direction == transaction.DirectionDebit {
			if relErr := s.ledger.Release(ctx, tx.AccountID, net); relErr != nil {
				s.logger.Error("failed to release reservation",
					"transaction_id", tx.ID, "error", relErr)
			}
		}
		s.fail(ctx, tx, failureReason(err))
		return nil, err
	}

	now := time.Now()
	if err := s.transition(ctx, tx, transaction.StatusCompleted, "Transaction completed successfully", &now); err != nil {
		return nil, err
	}
	s.logger.Info("transaction completed", "transaction_id", tx.ID, "reference", tx.Reference)
	read := toRead(tx)
	return &read, nil
}

// Cancel aborts a transaction on the user's request. Legal only while the
// transaction is still pending.
func (s *Service) Cancel(ctx context.Context, userID, txID uuid.UUID) (*dto.TransactionRead, error) {
	var cancelled *transaction.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err := uow.Transactions().Get(ctx, txID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return transaction.ErrTransactionNotFound
			}
			return err
		}
		if err := s.checkOwner(ctx, uow, tx, userID); err != nil {
			return err
		}
		if !tx.CanCancel() {
			return transaction.ErrInvalidState
		}
		previous := tx.Status
		tx.Status = transaction.StatusCancelled
		tx.FailureReason = "Cancelled by user"
		moved, err := uow.Transactions().UpdateStatus(ctx, tx.ID, previous, transaction.StatusCancelled, dto.TransactionUpdate{
			FailureReason: &tx.FailureReason,
		})
		if err != nil {
			return err
		}
		if !moved {
			return transaction.ErrInvalidState
		}
		cancelled = tx
		return uow.TransactionLogs().Append(ctx, &transaction.Log{
			ID:             uuid.New(),
			TransactionID:  tx.ID,
			PreviousStatus: previous,
			NewStatus:      transaction.StatusCancelled,
			Message:        "Cancelled by user",
			ProcessedBy:    userID.String(),
			CreatedAt:      time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transaction cancelled", "transaction_id", txID, "user_id", userID)
	read := toRead(cancelled)
	return &read, nil
}

// Get returns one transaction owned by userID.
func (s *Service) Get(ctx context.Context, userID, txID uuid.UUID) (*dto.TransactionRead, error) {
	tx, err := s.get(ctx, txID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, s.uow, tx, userID); err != nil {
		return nil, err
	}
	read := toRead(tx)
	return &read, nil
}

// ListByAccount returns the account's transactions, newest first.
func (s *Service) ListByAccount(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]dto.TransactionRead, error) {
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
	txs, err := s.uow.Transactions().ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	reads := make([]dto.TransactionRead, 0, len(txs))
	for _, tx := range txs {
		reads = append(reads, toRead(tx))
	}
	return reads, nil
}

// Logs returns the audit trail of one transaction owned by userID.
func (s *Service) Logs(ctx context.Context, userID, txID uuid.UUID) ([]dto.TransactionLogRead, error) {
	tx, err := s.get(ctx, txID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, s.uow, tx, userID); err != nil {
		return nil, err
	}
	logs, err := s.uow.TransactionLogs().ListByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	reads := make([]dto.TransactionLogRead, 0, len(logs))
	for _, l := range logs {
		reads = append(reads, dto.TransactionLogRead{
			ID:             l.ID,
			TransactionID:  l.TransactionID,
			PreviousStatus: string(l.PreviousStatus),
			NewStatus:      string(l.NewStatus),
			Message:        l.Message,
			ProcessedBy:    l.ProcessedBy,
			CreatedAt:      l.CreatedAt,
		})
	}
	return reads, nil
}

// RetryFailed re-processes recently failed transactions whose failure was
// marked transient. Bounded per pass; each item is isolated so one bad
// transaction cannot abort the sweep.
func (s *Service) RetryFailed(ctx context.Context, since time.Time, limit int) (retried int, err error) {
	failed, err := s.uow.Transactions().ListFailedSince(ctx, since, "temporary", limit)
	if err != nil {
		return 0, err
	}
	for _, tx := range failed {
		if _, err := s.Process(ctx, tx.ID); err != nil {
			s.logger.Warn("retry failed", "transaction_id", tx.ID, "error", err)
			continue
		}
		retried++
	}
	if len(failed) > 0 {
		s.logger.Info("retry pass finished", "candidates", len(failed), "retried", retried)
	}
	return retried, nil
}

func (s *Service) get(ctx context.Context, txID uuid.UUID) (*transaction.Transaction, error) {
	tx, err := s.uow.Transactions().Get(ctx, txID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *Service) checkOwner(ctx context.Context, uow repository.UnitOfWork, tx *transaction.Transaction, userID uuid.UUID) error {
	acc, err := uow.Accounts().Get(ctx, tx.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return account.ErrAccountNotFound
		}
		return err
	}
	return acc.ValidateOwner(userID)
}

// transition moves tx to next, persists it, and appends the audit entry, all
// in one unit of work. The status write is guarded on the status the caller
// validated against, so a concurrent move (a cancel racing background
// processing) makes this transition lose with ErrInvalidState instead of
// overwriting a terminal state.
func (s *Service) transition(ctx context.Context, tx *transaction.Transaction, next transaction.Status, message string, processedAt *time.Time) error {
	previous := tx.Status
	if !previous.CanTransitionTo(next) {
		return transaction.ErrInvalidState
	}
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		update := dto.TransactionUpdate{}
		if processedAt != nil {
			update.ProcessedAt = processedAt
		}
		moved, err := uow.Transactions().UpdateStatus(ctx, tx.ID, previous, next, update)
		if err != nil {
			return err
		}
		if !moved {
			return transaction.ErrInvalidState
		}
		tx.Status = next
		if processedAt != nil {
			tx.ProcessedAt = processedAt
		}
		return uow.TransactionLogs().Append(ctx, &transaction.Log{
			ID:             uuid.New(),
			TransactionID:  tx.ID,
			PreviousStatus: previous,
			NewStatus:      next,
			Message:        message,
			ProcessedBy:    systemActor,
			CreatedAt:      time.Now(),
		})
	})
}

// fail terminates tx as failed with the given reason. Errors here are logged
// only: the caller is already propagating the original failure.
func (s *Service) fail(ctx context.Context, tx *transaction.Transaction, reason string) {
	previous := tx.Status
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		moved, err := uow.Transactions().UpdateStatus(ctx, tx.ID, previous, transaction.StatusFailed, dto.TransactionUpdate{
			FailureReason: &reason,
		})
		if err != nil {
			return err
		}
		if !moved {
			return transaction.ErrInvalidState
		}
		tx.Status = transaction.StatusFailed
		tx.FailureReason = reason
		return uow.TransactionLogs().Append(ctx, &transaction.Log{
			ID:             uuid.New(),
			TransactionID:  tx.ID,
			PreviousStatus: previous,
			NewStatus:      transaction.StatusFailed,
			Message:        "Transaction failed: " + reason,
			ProcessedBy:    systemActor,
			CreatedAt:      time.Now(),
		})
	})
	if err != nil {
		s.logger.Error("failed to mark transaction failed", "transaction_id", tx.ID, "error", err)
	}
}

func failureReason(err error) string {
	if errors.Is(err, account.ErrInsufficientFunds) {
		return "Insufficient funds"
	}
	return err.Error()
}

func toRead(t *transaction.Transaction) dto.TransactionRead {
	return dto.TransactionRead{
		ID:              t.ID,
		Reference:       t.Reference,
		AccountID:       t.AccountID,
		RecipientNumber: t.RecipientNumber,
		RecipientName:   t.RecipientName,
		Amount:          t.Amount.AmountFloat(),
		Direction:       string(t.Direction),
		Status:          string(t.Status),
		Category:        string(t.Category),
		Description:     t.Description,
		Fee:             t.Fee.AmountFloat(),
		FailureReason:   t.FailureReason,
		ProcessedAt:     t.ProcessedAt,
		CreatedAt:       t.CreatedAt,
	}
}
