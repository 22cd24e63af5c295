package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	m, err := New(100.50, USD)
	require.NoError(t, err)
	assert.Equal(int64(10050), m.Amount(), "amount should be stored in cents")
	assert.Equal(USD, m.Currency())
}

func TestNewDefaultsCurrency(t *testing.T) {
	assert := assert.New(t)

	m, err := New(1, "")
	require.NoError(t, err)
	assert.Equal(DefaultCurrency, m.Currency(), "empty code should fall back to the default currency")
}

func TestNewRejectsInvalidCode(t *testing.T) {
	assert := assert.New(t)

	_, err := New(1, "usd")
	assert.ErrorIs(err, ErrInvalidCurrencyCode)
	_, err = New(1, "DOLLARS")
	assert.ErrorIs(err, ErrInvalidCurrencyCode)
}

func TestNewRejectsSubCentPrecision(t *testing.T) {
	assert := assert.New(t)

	_, err := New(10.001, USD)
	assert.Error(err, "sub-cent amounts must be rejected")
}

func TestAddSubtract(t *testing.T) {
	assert := assert.New(t)

	a, _ := New(60, USD)
	b, _ := New(40, USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(int64(10000), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(int64(2000), diff.Amount())
}

func TestArithmeticRejectsCurrencyMismatch(t *testing.T) {
	assert := assert.New(t)

	usd, _ := New(1, USD)
	eur, _ := New(1, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(err, ErrCurrencyMismatch)
	_, err = usd.Subtract(eur)
	assert.ErrorIs(err, ErrCurrencyMismatch)
	_, err = usd.GreaterThan(eur)
	assert.ErrorIs(err, ErrCurrencyMismatch)
}

func TestComparisons(t *testing.T) {
	assert := assert.New(t)

	big, _ := New(100, USD)
	small, _ := New(40, USD)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(greater)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(less)

	assert.True(big.Equals(big))
	assert.False(big.Equals(small))
}

func TestSignPredicates(t *testing.T) {
	assert := assert.New(t)

	pos, _ := New(1, USD)
	zero, _ := New(0, USD)

	assert.True(pos.IsPositive())
	assert.True(zero.IsZero())
	assert.True(pos.Negate().IsNegative())
}

func TestMultiplyRounds(t *testing.T) {
	assert := assert.New(t)

	m, _ := New(100.50, USD)
	fee, err := m.Multiply(0.005)
	require.NoError(t, err)
	assert.Equal(int64(50), fee.Amount(), "0.5% of 100.50 should round to 50 cents")
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	m, _ := New(12.34, USD)
	assert.Equal("12.34 USD", m.String())
}
