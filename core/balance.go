package core

import (
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// Side supply or borrow
type Side int

const (
	// SideSupply supply balance
	SideSupply Side = iota + 1
	// SideBorrow borrow balance
	SideBorrow
)

func (s Side) String() string {
	switch s {
	case SideSupply:
		return "supply"
	case SideBorrow:
		return "borrow"
	default:
		return "unknown"
	}
}

// Balance checkpoint of an account's position in one market.
// Principal and InterestIndex are always written together
type Balance struct {
	Account       string      `json:"account"`
	Asset         string      `json:"asset"`
	Side          Side        `json:"side"`
	Principal     uint256.Int `json:"principal"`
	InterestIndex number.Exp  `json:"interest_index"`
}

// Clone copy of the balance
func (b *Balance) Clone() *Balance {
	c := *b
	return &c
}

// Checkpoint state committed atomically by one operation
type Checkpoint struct {
	Markets    []*Market
	Balances   []*Balance
	Parameters *RiskParameters
}

// Liquidity account liquidity in oracle units, only one of Liquidity and Shortfall is non zero
type Liquidity struct {
	Account     string     `json:"account"`
	Liquidity   number.Exp `json:"liquidity"`
	Shortfall   number.Exp `json:"shortfall"`
	SupplyValue number.Exp `json:"supply_value"`
	// already multiplied by the collateral ratio
	BorrowValue number.Exp `json:"borrow_value"`
}
