package number

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var errNegativeAmount = errors.New("negative amount")

// Decimal parse decimal string, invalid input yields zero
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// FromMantissa m / 10^decimals as decimal
func FromMantissa(m uint256.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(m.ToBig(), -decimals)
}

// ToUint converts a decimal amount expressed in whole units into its base units
// with the given decimals, truncating the rest
func ToUint(d decimal.Decimal, decimals int32) (uint256.Int, error) {
	if d.IsNegative() {
		return uint256.Int{}, errNegativeAmount
	}

	v, overflow := uint256.FromBig(d.Shift(decimals).BigInt())
	if overflow {
		return uint256.Int{}, ErrOverflow
	}

	return *v, nil
}
