package repository

import (
	"errors"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/domain/user"
	"gorm.io/gorm"
)

func moneyCode(currency string) money.Code {
	return money.Code(currency)
}

func moneyFromModel(amount int64, currency string) money.Money {
	return money.NewFromData(amount, currency)
}

// translateErr maps GORM errors onto domain error kinds so callers never see
// driver-level errors.
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func accountToModel(a *account.Account) Account {
	return Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Number:    a.Number,
		Type:      string(a.Type),
		Balance:   a.Balance.Amount(),
		Available: a.Available.Amount(),
		Currency:  string(a.Currency()),
		Status:    string(a.Status),
		IsPrimary: a.IsPrimary,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func accountToDomain(m *Account) (*account.Account, error) {
	return account.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithNumber(m.Number).
		WithType(account.Type(m.Type)).
		WithCurrency(moneyCode(m.Currency)).
		WithBalance(m.Balance).
		WithAvailable(m.Available).
		WithStatus(account.Status(m.Status)).
		WithPrimary(m.IsPrimary).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}

func transactionToModel(t *transaction.Transaction) Transaction {
	return Transaction{
		ID:              t.ID,
		Reference:       t.Reference,
		AccountID:       t.AccountID,
		RecipientNumber: t.RecipientNumber,
		RecipientName:   t.RecipientName,
		Amount:          t.Amount.Amount(),
		Currency:        string(t.Amount.Currency()),
		Direction:       string(t.Direction),
		Status:          string(t.Status),
		Category:        string(t.Category),
		Description:     t.Description,
		Fee:             t.Fee.Amount(),
		FailureReason:   t.FailureReason,
		ProcessedAt:     t.ProcessedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func transactionToDomain(m *Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:              m.ID,
		Reference:       m.Reference,
		AccountID:       m.AccountID,
		RecipientNumber: m.RecipientNumber,
		RecipientName:   m.RecipientName,
		Amount:          moneyFromModel(m.Amount, m.Currency),
		Direction:       transaction.Direction(m.Direction),
		Status:          transaction.Status(m.Status),
		Category:        transaction.Category(m.Category),
		Description:     m.Description,
		Fee:             moneyFromModel(m.Fee, m.Currency),
		FailureReason:   m.FailureReason,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func recurringToModel(r *transaction.RecurringTransaction) RecurringTransaction {
	return RecurringTransaction{
		ID:              r.ID,
		AccountID:       r.AccountID,
		Amount:          r.Amount.Amount(),
		Currency:        string(r.Amount.Currency()),
		Description:     r.Description,
		Category:        string(r.Category),
		RecipientNumber: r.RecipientNumber,
		RecipientName:   r.RecipientName,
		Frequency:       string(r.Frequency),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		NextExecution:   r.NextExecution,
		ExecutionCount:  r.ExecutionCount,
		MaxExecutions:   r.MaxExecutions,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func recurringToDomain(m *RecurringTransaction) *transaction.RecurringTransaction {
	return &transaction.RecurringTransaction{
		ID:              m.ID,
		AccountID:       m.AccountID,
		Amount:          moneyFromModel(m.Amount, m.Currency),
		Description:     m.Description,
		Category:        transaction.Category(m.Category),
		RecipientNumber: m.RecipientNumber,
		RecipientName:   m.RecipientName,
		Frequency:       transaction.Frequency(m.Frequency),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		NextExecution:   m.NextExecution,
		ExecutionCount:  m.ExecutionCount,
		MaxExecutions:   m.MaxExecutions,
		Status:          transaction.RecurringStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func logToModel(l *transaction.Log) TransactionLog {
	return TransactionLog{
		ID:             l.ID,
		TransactionID:  l.TransactionID,
		PreviousStatus: string(l.PreviousStatus),
		NewStatus:      string(l.NewStatus),
		Message:        l.Message,
		ProcessedBy:    l.ProcessedBy,
		CreatedAt:      l.CreatedAt,
	}
}

func logToDomain(m *TransactionLog) *transaction.Log {
	return &transaction.Log{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		PreviousStatus: transaction.Status(m.PreviousStatus),
		NewStatus:      transaction.Status(m.NewStatus),
		Message:        m.Message,
		ProcessedBy:    m.ProcessedBy,
		CreatedAt:      m.CreatedAt,
	}
}

func userToModel(u *user.User) User {
	return User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userToDomain(m *User) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
