package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// valueOf price * amount, still scaled
func (s *service) valueOf(ctx context.Context, p *core.RiskParameters, asset string, amount uint256.Int) (number.Exp, error) {
	price, err := s.priceOf(ctx, p, asset)
	if err != nil {
		return number.Exp{}, err
	}

	return number.MulScalar(price, amount)
}

// valueWithCollateralRatio (collateral_ratio * price) * amount
func (s *service) valueWithCollateralRatio(ctx context.Context, p *core.RiskParameters, asset string, amount uint256.Int) (number.Exp, error) {
	price, err := s.priceOf(ctx, p, asset)
	if err != nil {
		return number.Exp{}, err
	}

	scaledPrice, err := number.MulExp(p.CollateralRatio, price)
	if err != nil {
		return number.Exp{}, err
	}

	return number.MulScalar(scaledPrice, amount)
}

// amountForValue value / price truncated
func (s *service) amountForValue(ctx context.Context, p *core.RiskParameters, asset string, value number.Exp) (uint256.Int, error) {
	price, err := s.priceOf(ctx, p, asset)
	if err != nil {
		return uint256.Int{}, err
	}

	amount, err := number.DivExp(value, price)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Truncate(amount), nil
}

// accountValues sums of supply and borrow values over the collateral markets,
// summed apart so no intermediate result goes negative
func (s *service) accountValues(ctx context.Context, p *core.RiskParameters, account string, block int64) (supplies, borrows number.Exp, err error) {
	for _, asset := range p.CollateralMarkets {
		market, err := s.findMarket(ctx, asset)
		if err != nil {
			return number.Exp{}, number.Exp{}, err
		}

		accrued, err := accrue(market, block)
		if err != nil {
			return number.Exp{}, number.Exp{}, err
		}

		for _, side := range []core.Side{core.SideSupply, core.SideBorrow} {
			balance, err := s.findBalance(ctx, account, asset, side)
			if err != nil {
				return number.Exp{}, number.Exp{}, err
			}

			if balance.Principal.IsZero() {
				continue
			}

			amount, err := current(balance, accrued)
			if err != nil {
				return number.Exp{}, number.Exp{}, err
			}

			value, err := s.valueOf(ctx, p, asset, amount)
			if err != nil {
				return number.Exp{}, number.Exp{}, err
			}

			if side == core.SideSupply {
				supplies, err = number.AddExp(value, supplies)
			} else {
				borrows, err = number.AddExp(value, borrows)
			}

			if err != nil {
				return number.Exp{}, number.Exp{}, err
			}
		}
	}

	return supplies, borrows, nil
}

func (s *service) accountLiquidity(ctx context.Context, p *core.RiskParameters, account string, block int64) (*core.Liquidity, error) {
	supplies, borrows, err := s.accountValues(ctx, p, account, block)
	if err != nil {
		return nil, err
	}

	borrowsScaled, err := number.MulExp(p.CollateralRatio, borrows)
	if err != nil {
		return nil, err
	}

	l := &core.Liquidity{
		Account:     account,
		SupplyValue: supplies,
		BorrowValue: borrowsScaled,
	}

	if supplies.LessThan(borrowsScaled) {
		l.Shortfall, err = number.SubExp(borrowsScaled, supplies)
	} else {
		l.Liquidity, err = number.SubExp(supplies, borrowsScaled)
	}

	if err != nil {
		return nil, err
	}

	return l, nil
}

// AccountLiquidity liquidity or shortfall of account at the current block
func (s *service) AccountLiquidity(ctx context.Context, account string) (*core.Liquidity, error) {
	p, err := s.params(ctx)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	return s.accountLiquidity(ctx, p, account, block)
}

func (s *service) SupplyBalance(ctx context.Context, account, asset string) (uint256.Int, error) {
	return s.balanceOf(ctx, account, asset, core.SideSupply)
}

func (s *service) BorrowBalance(ctx context.Context, account, asset string) (uint256.Int, error) {
	return s.balanceOf(ctx, account, asset, core.SideBorrow)
}

// balanceOf accrued balance, nothing is written
func (s *service) balanceOf(ctx context.Context, account, asset string, side core.Side) (uint256.Int, error) {
	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return uint256.Int{}, err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return uint256.Int{}, err
	}

	accrued, err := accrue(market, block)
	if err != nil {
		return uint256.Int{}, err
	}

	balance, err := s.findBalance(ctx, account, asset, side)
	if err != nil {
		return uint256.Int{}, err
	}

	return current(balance, accrued)
}
