package settlement

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// Fee arithmetic errors
var (
	// ErrNegativeFeePercent is returned when the platform fee percent is negative
	ErrNegativeFeePercent = errors.New("fee: fee percent cannot be negative")
	// ErrNegativeAmount is returned when a monetary input is negative
	ErrNegativeAmount = errors.New("fee: amount cannot be negative")
	// ErrAmountInvariant indicates a computed split violated the reconciliation
	// invariant. It signals a data-integrity bug upstream and must never be
	// silently corrected.
	ErrAmountInvariant = errors.New("fee: computed amounts violate reconciliation invariant")
)

var oneHundred = decimal.NewFromInt(100)

// SplitAdditive decomposes a total charged to the buyer into the seller's base
// amount and the platform fee, under the additive fee model: the fee was added
// on top of the seller's asking price, so base + fee reconciles to the total
// exactly at two decimal places.
//
// All rounding uses banker's rounding (round half to even) to two places.
// The fee is derived by subtraction from the rounded total, so the round-trip
// property holds by construction.
func SplitAdditive(totalCharged valueobject.Money, feePercent decimal.Decimal) (base, fee valueobject.Money, err error) {
	if feePercent.IsNegative() {
		return valueobject.Money{}, valueobject.Money{}, ErrNegativeFeePercent
	}
	if totalCharged.IsNegative() {
		return valueobject.Money{}, valueobject.Money{}, ErrNegativeAmount
	}

	divisor := decimal.NewFromInt(1).Add(feePercent.Div(oneHundred))
	raw, err := totalCharged.Divide(divisor)
	if err != nil {
		return valueobject.Money{}, valueobject.Money{}, err
	}

	base = raw.RoundBank(2)
	fee, err = totalCharged.RoundBank(2).Subtract(base)
	if err != nil {
		return valueobject.Money{}, valueobject.Money{}, err
	}

	if base.IsNegative() || fee.IsNegative() {
		return valueobject.Money{}, valueobject.Money{}, ErrAmountInvariant
	}
	return base, fee, nil
}

// ApplyAdditive is the inverse of SplitAdditive: it computes the total to
// charge the buyer for a given seller base amount, with the platform fee added
// on top. The result is rounded to two places with banker's rounding.
func ApplyAdditive(base valueobject.Money, feePercent decimal.Decimal) (valueobject.Money, error) {
	if feePercent.IsNegative() {
		return valueobject.Money{}, ErrNegativeFeePercent
	}
	if base.IsNegative() {
		return valueobject.Money{}, ErrNegativeAmount
	}

	factor := decimal.NewFromInt(1).Add(feePercent.Div(oneHundred))
	return base.Multiply(factor).RoundBank(2), nil
}
