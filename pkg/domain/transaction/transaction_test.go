package transaction

import (
	"testing"
	"time"

	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, money.USD)
	require.NoError(t, err)
	return m
}

func TestStatusTransitions(t *testing.T) {
	assert := assert.New(t)

	assert.True(StatusPending.CanTransitionTo(StatusProcessing))
	assert.True(StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(StatusProcessing.CanTransitionTo(StatusCompleted))
	assert.True(StatusProcessing.CanTransitionTo(StatusFailed))
	assert.True(StatusFailed.CanTransitionTo(StatusProcessing), "retry pass re-enters processing")

	assert.False(StatusPending.CanTransitionTo(StatusCompleted), "pending cannot skip processing")
	assert.False(StatusCompleted.CanTransitionTo(StatusProcessing), "completed is immutable")
	assert.False(StatusCancelled.CanTransitionTo(StatusProcessing), "cancelled is immutable")
	assert.False(StatusFailed.CanTransitionTo(StatusCompleted))
}

func TestIsTerminal(t *testing.T) {
	assert := assert.New(t)

	assert.True(StatusCompleted.IsTerminal())
	assert.True(StatusCancelled.IsTerminal())
	assert.False(StatusFailed.IsTerminal(), "failed transactions may still be retried")
	assert.False(StatusPending.IsTerminal())
}

func TestCanCancel(t *testing.T) {
	assert := assert.New(t)

	tx := &Transaction{Status: StatusPending}
	assert.True(tx.CanCancel())

	for _, s := range []Status{StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled} {
		tx.Status = s
		assert.False(tx.CanCancel(), "only pending transactions can be cancelled")
	}
}

func TestNetAmount(t *testing.T) {
	assert := assert.New(t)

	debit := &Transaction{Direction: DirectionDebit, Amount: usd(t, 100), Fee: usd(t, 1)}
	net, err := debit.NetAmount()
	require.NoError(t, err)
	assert.Equal(int64(10100), net.Amount(), "debits pay the fee on top")

	credit := &Transaction{Direction: DirectionCredit, Amount: usd(t, 100), Fee: usd(t, 1)}
	net, err = credit.NetAmount()
	require.NoError(t, err)
	assert.Equal(int64(9900), net.Amount(), "credits receive the amount less the fee")
}

func TestCalculateFee(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(200), CalculateFee(usd(t, 200), CategoryTransfer).Amount(), "transfers pay 1%")
	assert.Equal(int64(150), CalculateFee(usd(t, 300), CategoryPayment).Amount(), "payments pay 0.5%")
	assert.Equal(int64(400), CalculateFee(usd(t, 200), CategoryWithdrawal).Amount(), "withdrawals pay 2%")
	assert.Equal(int64(0), CalculateFee(usd(t, 1000), CategoryDeposit).Amount(), "deposits are free")
	assert.Equal(int64(0), CalculateFee(usd(t, 1000), CategoryIncome).Amount(), "income is free")
}

func TestCalculateFeeMinimum(t *testing.T) {
	assert := assert.New(t)

	fee := CalculateFee(usd(t, 5), CategoryTransfer)
	assert.Equal(int64(100), fee.Amount(), "fee never drops below 1.00")
}

func TestFrequencyAdvance(t *testing.T) {
	assert := assert.New(t)

	base := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(base.AddDate(0, 0, 1), FrequencyDaily.Advance(base))
	assert.Equal(base.AddDate(0, 0, 7), FrequencyWeekly.Advance(base))
	assert.Equal(base.AddDate(0, 1, 0), FrequencyMonthly.Advance(base))
	assert.Equal(base.AddDate(0, 3, 0), FrequencyQuarterly.Advance(base))
	assert.Equal(base.AddDate(1, 0, 0), FrequencyYearly.Advance(base))
}

func TestRecurringCanExecute(t *testing.T) {
	assert := assert.New(t)

	now := time.Now()
	rt := &RecurringTransaction{
		Status:        RecurringActive,
		NextExecution: now.Add(-time.Hour),
	}
	assert.True(rt.CanExecute(now))

	rt.Status = RecurringPaused
	assert.False(rt.CanExecute(now), "paused definitions never fire")

	rt.Status = RecurringActive
	rt.NextExecution = now.Add(time.Hour)
	assert.False(rt.CanExecute(now), "not yet due")

	rt.NextExecution = now.Add(-time.Hour)
	past := now.Add(-time.Minute)
	rt.EndDate = &past
	assert.False(rt.CanExecute(now), "past the end date")
}

func TestRecurringMaxExecutions(t *testing.T) {
	assert := assert.New(t)

	max := 3
	rt := &RecurringTransaction{
		Status:        RecurringActive,
		Frequency:     FrequencyMonthly,
		NextExecution: time.Now().Add(-time.Hour),
		MaxExecutions: &max,
	}

	for i := 0; i < 3; i++ {
		assert.True(rt.CanExecute(time.Now().AddDate(0, i, 0)), "execution %d should be allowed", i+1)
		rt.MarkExecuted()
	}

	assert.Equal(3, rt.ExecutionCount)
	assert.Equal(RecurringCompleted, rt.Status, "definition completes at max executions")
	assert.False(rt.CanExecute(time.Now().AddDate(1, 0, 0)), "no fourth execution")
}

func TestMarkExecutedAdvancesSchedule(t *testing.T) {
	assert := assert.New(t)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	rt := &RecurringTransaction{
		Status:        RecurringActive,
		Frequency:     FrequencyMonthly,
		NextExecution: start,
	}
	rt.MarkExecuted()
	assert.Equal(1, rt.ExecutionCount)
	assert.Equal(start.AddDate(0, 1, 0), rt.NextExecution)
	assert.Equal(RecurringActive, rt.Status, "unbounded definitions stay active")
}
