package views

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// Liquidity account liquidity in oracle units
type Liquidity struct {
	Account     string          `json:"account"`
	Liquidity   decimal.Decimal `json:"liquidity"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	SupplyValue decimal.Decimal `json:"supply_value"`
	BorrowValue decimal.Decimal `json:"borrow_value"`
}

func LiquidityView(l *core.Liquidity) *Liquidity {
	return &Liquidity{
		Account:     l.Account,
		Liquidity:   l.Liquidity.Decimal(),
		Shortfall:   l.Shortfall.Decimal(),
		SupplyValue: l.SupplyValue.Decimal(),
		BorrowValue: l.BorrowValue.Decimal(),
	}
}
