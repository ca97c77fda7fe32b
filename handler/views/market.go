package views

import (
	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/service/ratemodel"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Market market view, amounts in base units and rates as decimals
type Market struct {
	Asset            string          `json:"asset"`
	IsSupported      bool            `json:"is_supported"`
	Suspended        bool            `json:"suspended"`
	RateModel        string          `json:"rate_model"`
	LastAccrualBlock int64           `json:"last_accrual_block"`
	Cash             decimal.Decimal `json:"cash"`
	TotalSupply      decimal.Decimal `json:"total_supply"`
	TotalBorrows     decimal.Decimal `json:"total_borrows"`
	Price            decimal.Decimal `json:"price"`
	UtilizationRate  decimal.Decimal `json:"utilization_rate"`
	SupplyRate       decimal.Decimal `json:"supply_rate"`
	BorrowRate       decimal.Decimal `json:"borrow_rate"`
	SupplyAPY        decimal.Decimal `json:"supply_apy"`
	BorrowAPY        decimal.Decimal `json:"borrow_apy"`
	SupplyIndex      decimal.Decimal `json:"supply_index"`
	BorrowIndex      decimal.Decimal `json:"borrow_index"`
}

// MarketView view of m holding cash, price is zero when the oracle has none
func MarketView(m *core.Market, cash uint256.Int, price number.Exp) *Market {
	// reserves are whatever the suppliers are not owed
	reserves, err := number.AddThenSub(cash, m.TotalBorrows, m.TotalSupply)
	if err != nil {
		reserves = uint256.Int{}
	}

	utilizationRate, err := ratemodel.UtilizationRate(cash, m.TotalBorrows, reserves)
	if err != nil {
		utilizationRate = number.Exp{}
	}

	blocksPerYear := number.FromMantissa(ratemodel.BlocksPerYear, 0)

	return &Market{
		Asset:            m.Asset,
		IsSupported:      m.IsSupported,
		Suspended:        m.Suspended,
		RateModel:        m.RateModel,
		LastAccrualBlock: m.LastAccrualBlock,
		Cash:             number.FromMantissa(cash, 0),
		TotalSupply:      number.FromMantissa(m.TotalSupply, 0),
		TotalBorrows:     number.FromMantissa(m.TotalBorrows, 0),
		Price:            price.Decimal(),
		UtilizationRate:  utilizationRate.Decimal(),
		SupplyRate:       m.SupplyRate.Decimal(),
		BorrowRate:       m.BorrowRate.Decimal(),
		SupplyAPY:        m.SupplyRate.Decimal().Mul(blocksPerYear),
		BorrowAPY:        m.BorrowRate.Decimal().Mul(blocksPerYear),
		SupplyIndex:      m.SupplyIndex.Decimal(),
		BorrowIndex:      m.BorrowIndex.Decimal(),
	}
}
