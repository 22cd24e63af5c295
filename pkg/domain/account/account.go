package account

import (
	"errors"
	"time"

	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrInsufficientFunds is returned when an account's available balance
	// cannot cover a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNotActive is returned when an operation targets a frozen or
	// closed account.
	ErrAccountNotActive = errors.New("account is not active")
	// ErrNotOwner is returned when a user acts on an account they do not own.
	ErrNotOwner = errors.New("not owner")
	// ErrAmountMustBePositive is returned when a balance operation receives a
	// non-positive amount.
	ErrAmountMustBePositive = errors.New("amount must be positive")
	// ErrCurrencyMismatch is returned when an amount's currency does not match
	// the account's currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Type classifies an account.
type Type string

const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
	TypeBusiness Type = "business"
)

// IsValid reports whether t is a known account type.
func (t Type) IsValid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeBusiness:
		return true
	}
	return false
}

// Status is the lifecycle state of an account. Accounts are never deleted,
// only closed.
type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
	StatusClosed Status = "closed"
)

// Account is the aggregate owning authoritative balances for one user account.
//
// Invariants:
//   - Available never exceeds Balance.
//   - Balance never goes negative.
//   - Only the ledger mutates balances, inside a per-account critical section.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Number    string
	Type      Type
	Balance   money.Money
	Available money.Money
	Status    Status
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	userID    uuid.UUID
	number    string
	accType   Type
	balance   int64
	available int64
	currency  money.Code
	status    Status
	isPrimary bool
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with sensible defaults: fresh UUID, checking type,
// active status, default currency, zero balances.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		accType:   TypeChecking,
		currency:  money.DefaultCurrency,
		status:    StatusActive,
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithNumber sets the external account number.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accType = t
	return b
}

// WithCurrency sets the balance currency.
func (b *Builder) WithCurrency(c money.Code) *Builder {
	b.currency = c
	return b
}

// WithBalance sets the balance in minor units. For hydration and test setup.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithAvailable sets the available balance in minor units. For hydration and
// test setup; defaults to the balance when left unset.
func (b *Builder) WithAvailable(available int64) *Builder {
	b.available = available
	return b
}

// WithStatus sets the lifecycle status.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithPrimary marks the account as the user's primary account.
func (b *Builder) WithPrimary(primary bool) *Builder {
	b.isPrimary = primary
	return b
}

// WithCreatedAt sets the creation timestamp. For hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. For hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if !b.accType.IsValid() {
		return nil, errors.New("invalid account type")
	}
	if b.available > b.balance {
		return nil, errors.New("available balance exceeds balance")
	}
	bal, err := money.NewFromSmallestUnit(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	avail, err := money.NewFromSmallestUnit(b.available, b.currency)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:        b.id,
		UserID:    b.userID,
		Number:    b.number,
		Type:      b.accType,
		Balance:   bal,
		Available: avail,
		Status:    b.status,
		IsPrimary: b.isPrimary,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// Currency returns the account's balance currency.
func (a *Account) Currency() money.Code {
	return a.Balance.Currency()
}

// MaskedNumber returns the account number with all but the last four digits
// hidden, for display.
func (a *Account) MaskedNumber() string {
	if len(a.Number) > 4 {
		return "****" + a.Number[len(a.Number)-4:]
	}
	return a.Number
}

// ValidateOwner checks the account belongs to userID.
func (a *Account) ValidateOwner(userID uuid.UUID) error {
	if a.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

func (a *Account) validateAmount(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	return nil
}

// CanDebit reports whether the account can cover a debit of amount from its
// available balance.
func (a *Account) CanDebit(amount money.Money) bool {
	if a.Status != StatusActive {
		return false
	}
	less, err := a.Available.LessThan(amount)
	if err != nil {
		return false
	}
	return !less
}

// Reserve earmarks amount against the available balance ahead of a debit
// commit. Fails with ErrInsufficientFunds when available < amount.
func (a *Account) Reserve(amount money.Money) error {
	if a.Status != StatusActive {
		return ErrAccountNotActive
	}
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	less, err := a.Available.LessThan(amount)
	if err != nil {
		return err
	}
	if less {
		return ErrInsufficientFunds
	}
	a.Available, err = a.Available.Subtract(amount)
	return err
}

// Release returns a previously reserved amount to the available balance,
// capped so available never exceeds balance.
func (a *Account) Release(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	avail, err := a.Available.Add(amount)
	if err != nil {
		return err
	}
	if over, _ := avail.GreaterThan(a.Balance); over {
		avail = a.Balance
	}
	a.Available = avail
	return nil
}

// CommitDebit settles a reserved debit against the balance. The available
// balance was already reduced by Reserve.
func (a *Account) CommitDebit(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	bal, err := a.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	if bal.IsNegative() {
		return ErrInsufficientFunds
	}
	a.Balance = bal
	return nil
}

// CommitCredit settles a credit, raising both balance and available balance.
func (a *Account) CommitCredit(amount money.Money) error {
	if a.Status != StatusActive {
		return ErrAccountNotActive
	}
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	bal, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	avail, err := a.Available.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = bal
	a.Available = avail
	return nil
}
