package core

import (
	"context"

	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// Market market info, keyed by asset
type Market struct {
	Asset       string `json:"asset"`
	IsSupported bool   `json:"is_supported"`
	// suspended markets only allow withdraw, repay and liquidate
	Suspended        bool        `json:"suspended"`
	LastAccrualBlock int64       `json:"last_accrual_block"`
	RateModel        string      `json:"rate_model"`
	TotalSupply      uint256.Int `json:"total_supply"`
	TotalBorrows     uint256.Int `json:"total_borrows"`
	// per block
	SupplyRate  number.Exp `json:"supply_rate"`
	BorrowRate  number.Exp `json:"borrow_rate"`
	SupplyIndex number.Exp `json:"supply_index"`
	BorrowIndex number.Exp `json:"borrow_index"`
}

// Listed the market has been supported at least once
func (m *Market) Listed() bool {
	return !m.SupplyIndex.IsZero()
}

// Clone copy of the market
func (m *Market) Clone() *Market {
	c := *m
	return &c
}

// InterestRateModel maps cash, borrows and reserves of an asset to a per block rate
type InterestRateModel interface {
	BorrowRate(ctx context.Context, asset string, cash, borrows, reserves uint256.Int) (number.Exp, error)
	SupplyRate(ctx context.Context, asset string, cash, borrows uint256.Int) (number.Exp, error)
}

// RateModels rate models by name
type RateModels map[string]InterestRateModel
