package satoshi

import (
	"fmt"
	"math/big"

	fixed "github.com/govalues/decimal"
	"github.com/shopspring/decimal"
)

// NewAmountFromFixed converts a [fixed.Decimal], expressed in the source unit
// of the options, to an amount.
// Trailing zeros of the decimal do not count as fractional digits, so
// 0.123456780 BTC is accepted.
// See also method [Amount.Fixed].
//
// NewAmountFromFixed returns an error for the same reasons as [NewAmount].
func NewAmountFromFixed(amount fixed.Decimal, opts Options) (Amount, error) {
	coef := new(big.Int).SetUint64(amount.Coef())
	d := decimal.NewFromBigInt(coef, -int32(amount.Scale()))
	if amount.IsNeg() {
		d = d.Neg()
	}
	a, err := NewAmount(d, opts)
	if err != nil {
		return Amount{}, fmt.Errorf("converting %T: %w", amount, err)
	}
	return a, nil
}

// Fixed returns the value of the amount in the given unit as a [fixed.Decimal]
// with trailing zeros removed.
// Any amount within [MaxSatoshis] fits into a fixed decimal.
//
// Fixed returns an error if the unit is unknown.
func (a Amount) Fixed(unit Unit) (fixed.Decimal, error) {
	q, err := a.ToUnit(unit)
	if err != nil {
		return fixed.Decimal{}, err
	}
	coef := q.Coefficient()
	if !coef.IsInt64() {
		return fixed.Decimal{}, fmt.Errorf("converting %v to %T: coefficient overflow", a, fixed.Decimal{})
	}
	d, err := fixed.New(coef.Int64(), int(-q.Exponent()))
	if err != nil {
		return fixed.Decimal{}, fmt.Errorf("converting %v to %T: %w", a, d, err)
	}
	return d, nil
}
