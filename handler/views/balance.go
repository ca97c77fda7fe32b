package views

import (
	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Balance position of an account in one market
type Balance struct {
	Asset         string          `json:"asset"`
	Side          string          `json:"side"`
	Principal     decimal.Decimal `json:"principal"`
	InterestIndex decimal.Decimal `json:"interest_index"`
	// principal with interest accrued up to the current block
	Current decimal.Decimal `json:"current"`
}

// BalanceView view of b, current is the accrued balance
func BalanceView(b *core.Balance, current uint256.Int) *Balance {
	return &Balance{
		Asset:         b.Asset,
		Side:          b.Side.String(),
		Principal:     number.FromMantissa(b.Principal, 0),
		InterestIndex: b.InterestIndex.Decimal(),
		Current:       number.FromMantissa(current, 0),
	}
}
