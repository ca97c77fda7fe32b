package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// borrowAmountWithFee amount * (1 + origination_fee) truncated, no fee math at fee 0
func borrowAmountWithFee(p *core.RiskParameters, amount uint256.Int) (uint256.Int, error) {
	if p.OriginationFee.IsZero() {
		return amount, nil
	}

	originationFeeFactor, err := number.AddExp(p.OriginationFee, number.One)
	if err != nil {
		return uint256.Int{}, err
	}

	amountWithFee, err := number.MulScalar(originationFeeFactor, amount)
	if err != nil {
		return uint256.Int{}, err
	}

	return number.Truncate(amountWithFee), nil
}

// Borrow transfers amount out to account, its borrow balance grows by amount plus fee
func (s *service) Borrow(ctx context.Context, account, asset string, amount uint256.Int) (*core.Event, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()

	p, err := s.requireActive(ctx)
	if err != nil {
		return nil, err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return nil, err
	}

	if !market.IsSupported {
		return nil, core.ErrMarketNotSupported
	}

	balance, err := s.findBalance(ctx, account, asset, core.SideBorrow)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	next, err := accrue(market, block)
	if err != nil {
		return nil, err
	}

	userBorrowCurrent, err := current(balance, next)
	if err != nil {
		return nil, err
	}

	amountWithFee, err := borrowAmountWithFee(p, amount)
	if err != nil {
		return nil, err
	}

	userBorrowUpdated, err := number.Add(userBorrowCurrent, amountWithFee)
	if err != nil {
		return nil, err
	}

	if next.TotalBorrows, err = number.AddThenSub(market.TotalBorrows, userBorrowUpdated, balance.Principal); err != nil {
		return nil, err
	}

	liquidity, err := s.accountLiquidity(ctx, p, account, block)
	if err != nil {
		return nil, err
	}

	if !liquidity.Shortfall.IsZero() {
		return nil, core.ErrInsufficientLiquidity
	}

	valueOfBorrowAmountWithFee, err := s.valueWithCollateralRatio(ctx, p, asset, amountWithFee)
	if err != nil {
		return nil, err
	}

	if liquidity.Liquidity.LessThan(valueOfBorrowAmountWithFee) {
		return nil, core.ErrInsufficientLiquidity
	}

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return nil, err
	}

	// the fee is accounted, never disbursed
	updatedCash, err := number.Sub(cash, amount)
	if err != nil {
		return nil, core.ErrTokenInsufficientCash
	}

	if err := s.updateRates(ctx, next, updatedCash); err != nil {
		return nil, err
	}

	before := &core.Checkpoint{Markets: []*core.Market{market}, Balances: []*core.Balance{balance}}
	after := &core.Checkpoint{Markets: []*core.Market{next}, Balances: []*core.Balance{checkpoint(balance, userBorrowUpdated, next)}}
	if err := s.apply(ctx, before, after, func() error {
		return s.tokens.TransferOut(ctx, asset, account, amount)
	}); err != nil {
		return nil, err
	}

	event := newEvent(core.ActionBorrow, account, asset, block)
	event.Amount = amount
	event.StartingBalance = balance.Principal
	event.BorrowAmountWithFee = amountWithFee
	event.NewBalance = userBorrowUpdated
	s.emit(ctx, event)
	return event, nil
}

// RepayBorrow transfers amount in from account against its borrow balance,
// All repays as much as account holds up to the balance
func (s *service) RepayBorrow(ctx context.Context, account, asset string, amount core.Amount) (*core.Event, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()

	if _, err := s.requireActive(ctx); err != nil {
		return nil, err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return nil, err
	}

	balance, err := s.findBalance(ctx, account, asset, core.SideBorrow)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	next, err := accrue(market, block)
	if err != nil {
		return nil, err
	}

	userBorrowCurrent, err := current(balance, next)
	if err != nil {
		return nil, err
	}

	repayAmount := amount.Value()
	if amount.IsAll() {
		held, err := s.tokens.BalanceOf(ctx, asset, account)
		if err != nil {
			return nil, err
		}

		repayAmount = number.Min(held, userBorrowCurrent)
	}

	userBorrowUpdated, err := number.Sub(userBorrowCurrent, repayAmount)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CheckTransferIn(ctx, asset, account, repayAmount); err != nil {
		return nil, err
	}

	if next.TotalBorrows, err = number.AddThenSub(market.TotalBorrows, userBorrowUpdated, balance.Principal); err != nil {
		return nil, err
	}

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return nil, err
	}

	updatedCash, err := number.Add(cash, repayAmount)
	if err != nil {
		return nil, err
	}

	if err := s.updateRates(ctx, next, updatedCash); err != nil {
		return nil, err
	}

	before := &core.Checkpoint{Markets: []*core.Market{market}, Balances: []*core.Balance{balance}}
	after := &core.Checkpoint{Markets: []*core.Market{next}, Balances: []*core.Balance{checkpoint(balance, userBorrowUpdated, next)}}
	if err := s.apply(ctx, before, after, func() error {
		return s.tokens.TransferIn(ctx, asset, account, repayAmount)
	}); err != nil {
		return nil, err
	}

	event := newEvent(core.ActionRepayBorrow, account, asset, block)
	event.Amount = repayAmount
	event.StartingBalance = balance.Principal
	event.NewBalance = userBorrowUpdated
	s.emit(ctx, event)
	return event, nil
}
