package transaction

import "github.com/finvault/finvault/pkg/domain/money"

// Fee rates by category, as fractions of the transaction amount.
var feeRates = map[Category]float64{
	CategoryTransfer:   0.01,
	CategoryPayment:    0.005,
	CategoryWithdrawal: 0.02,
}

// minimumFee is charged whenever a category carries a fee at all, in minor units.
const minimumFee = 100

// CalculateFee returns the fee for a transaction of the given amount and
// category. Categories without a configured rate (deposits in particular) are
// free; everything else pays the percentage with a 1.00 floor.
func CalculateFee(amount money.Money, category Category) money.Money {
	rate, ok := feeRates[category]
	if !ok {
		if category == CategoryDeposit || category == CategoryIncome {
			return money.NewFromData(0, string(amount.Currency()))
		}
		rate = 0.01
	}
	fee, err := amount.Multiply(rate)
	if err != nil {
		return money.NewFromData(minimumFee, string(amount.Currency()))
	}
	if fee.Amount() < minimumFee {
		return money.NewFromData(minimumFee, string(amount.Currency()))
	}
	return fee
}
