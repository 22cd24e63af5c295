package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
)

var (
	// ErrInvalidCurrencyCode is returned when a currency code is not three uppercase letters.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	// ErrCurrencyMismatch is returned when arithmetic mixes currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Code is an ISO 4217 currency code.
type Code string

// USD is the default currency for new accounts.
const USD Code = "USD"

// DefaultCurrency is used whenever a caller leaves the currency empty.
const DefaultCurrency = USD

// decimals is the minor-unit precision for the currencies this system
// supports. All of them are two-decimal currencies.
const decimals = 2

var codeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidCode reports whether s has the shape of an ISO 4217 code.
func IsValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// Amount is a monetary amount in the smallest currency unit (cents for USD).
type Amount = int64

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit.
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
type Money struct {
	amount   Amount
	currency Code
}

// New creates a Money value from a main-unit amount (e.g. dollars).
// The amount must not carry more decimal places than the currency allows.
func New(amount float64, currencyCode Code) (Money, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	if !IsValidCode(string(currencyCode)) {
		return Money{}, ErrInvalidCurrencyCode
	}
	smallest, err := toSmallestUnit(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: currencyCode}, nil
}

// NewFromSmallestUnit creates a Money value directly from minor units.
// Used when hydrating from a data store.
func NewFromSmallestUnit(amount int64, currencyCode Code) (Money, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	if !IsValidCode(string(currencyCode)) {
		return Money{}, ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: currencyCode}, nil
}

// NewFromData hydrates a Money value without validation. Only for use with
// values that were validated on the way into the store.
func NewFromData(amount int64, currencyCode string) Money {
	return Money{amount: amount, currency: Code(currencyCode)}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount { return m.amount }

// AmountFloat returns the amount in the main currency unit.
func (m Money) AmountFloat() float64 {
	return float64(m.amount) / math.Pow10(decimals)
}

// Currency returns the currency code.
func (m Money) Currency() Code { return m.currency }

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// GreaterThan reports whether m exceeds other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.amount > other.amount, nil
}

// LessThan reports whether m is below other.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.amount < other.amount, nil
}

// Equals reports whether two Money values are identical.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// IsSameCurrency reports whether both values share a currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// Negate returns the value with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Multiply scales the amount by a factor, rounding to the nearest minor unit.
func (m Money) Multiply(factor float64) (Money, error) {
	result := float64(m.amount) * factor
	if result > float64(math.MaxInt64) || result < float64(math.MinInt64) {
		return Money{}, fmt.Errorf("multiplication result would overflow")
	}
	return Money{amount: Amount(math.Round(result)), currency: m.currency}, nil
}

// String renders the value as "12.34 USD".
func (m Money) String() string {
	return fmt.Sprintf("%.*f %s", decimals, m.AmountFloat(), m.currency)
}

// toSmallestUnit converts a main-unit float to minor units using exact
// rational arithmetic, rejecting sub-cent precision.
func toSmallestUnit(amount float64) (int64, error) {
	amountStr := fmt.Sprintf("%.*f", decimals+1, amount)
	amountRat, ok := new(big.Rat).SetString(amountStr)
	if !ok {
		return 0, fmt.Errorf("invalid amount format: %f", amount)
	}
	scaled := new(big.Rat).Mul(amountRat, big.NewRat(int64(math.Pow10(decimals)), 1))
	if !scaled.IsInt() {
		return 0, fmt.Errorf("amount has more than %d decimal places", decimals)
	}
	num := scaled.Num()
	if !num.IsInt64() {
		return 0, fmt.Errorf("amount exceeds maximum safe integer value")
	}
	return num.Int64(), nil
}
