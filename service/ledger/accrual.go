package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/compound"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// accrue copy of the market with both indices brought up to block.
// Totals and rates are left as they are
func accrue(m *core.Market, block int64) (*core.Market, error) {
	supplyIndex, err := compound.CalculateInterestIndex(m.SupplyIndex, m.SupplyRate, m.LastAccrualBlock, block)
	if err != nil {
		return nil, err
	}

	borrowIndex, err := compound.CalculateInterestIndex(m.BorrowIndex, m.BorrowRate, m.LastAccrualBlock, block)
	if err != nil {
		return nil, err
	}

	next := m.Clone()
	next.SupplyIndex = supplyIndex
	next.BorrowIndex = borrowIndex
	next.LastAccrualBlock = block
	return next, nil
}

func indexOf(m *core.Market, side core.Side) number.Exp {
	if side == core.SideBorrow {
		return m.BorrowIndex
	}

	return m.SupplyIndex
}

// current balance accrued to the index of an accrued market
func current(b *core.Balance, accrued *core.Market) (uint256.Int, error) {
	return compound.CalculateBalance(b.Principal, b.InterestIndex, indexOf(accrued, b.Side))
}

// checkpoint copy of b holding principal at the market's current index
func checkpoint(b *core.Balance, principal uint256.Int, accrued *core.Market) *core.Balance {
	next := b.Clone()
	next.Principal = principal
	next.InterestIndex = indexOf(accrued, b.Side)
	return next
}

// equity cash + borrows - supply, zero when negative
func equity(cash, borrows, supply uint256.Int) uint256.Int {
	v, err := number.AddThenSub(cash, borrows, supply)
	if err != nil {
		return uint256.Int{}
	}

	return v
}

// updateRates sets supply and borrow rates of m from cash and m's totals
func (s *service) updateRates(ctx context.Context, m *core.Market, cash uint256.Int) error {
	model, err := s.rateModel(m.RateModel)
	if err != nil {
		return err
	}

	supplyRate, err := model.SupplyRate(ctx, m.Asset, cash, m.TotalBorrows)
	if err != nil {
		return err
	}

	borrowRate, err := model.BorrowRate(ctx, m.Asset, cash, m.TotalBorrows, equity(cash, m.TotalBorrows, m.TotalSupply))
	if err != nil {
		return err
	}

	m.SupplyRate = supplyRate
	m.BorrowRate = borrowRate
	return nil
}
