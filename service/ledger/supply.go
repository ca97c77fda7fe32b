package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// Supply transfers amount in from account and adds it to its supply balance
func (s *service) Supply(ctx context.Context, account, asset string, amount uint256.Int) (*core.Event, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()

	log := logger.FromContext(ctx).WithField("action", core.ActionSupply).WithField("asset", asset)

	if _, err := s.requireActive(ctx); err != nil {
		return nil, err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return nil, err
	}

	if !market.IsSupported {
		return nil, core.ErrMarketNotSupported
	}

	balance, err := s.findBalance(ctx, account, asset, core.SideSupply)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CheckTransferIn(ctx, asset, account, amount); err != nil {
		log.WithError(err).Infoln("skip: check transfer in")
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

	userSupplyCurrent, err := current(balance, next)
	if err != nil {
		return nil, err
	}

	userSupplyUpdated, err := number.Add(userSupplyCurrent, amount)
	if err != nil {
		return nil, err
	}

	if next.TotalSupply, err = number.AddThenSub(market.TotalSupply, userSupplyUpdated, balance.Principal); err != nil {
		return nil, err
	}

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return nil, err
	}

	updatedCash, err := number.Add(cash, amount)
	if err != nil {
		return nil, err
	}

	if err := s.updateRates(ctx, next, updatedCash); err != nil {
		return nil, err
	}

	before := &core.Checkpoint{Markets: []*core.Market{market}, Balances: []*core.Balance{balance}}
	after := &core.Checkpoint{Markets: []*core.Market{next}, Balances: []*core.Balance{checkpoint(balance, userSupplyUpdated, next)}}
	if err := s.apply(ctx, before, after, func() error {
		return s.tokens.TransferIn(ctx, asset, account, amount)
	}); err != nil {
		return nil, err
	}

	event := newEvent(core.ActionSupply, account, asset, block)
	event.Amount = amount
	event.StartingBalance = balance.Principal
	event.NewBalance = userSupplyUpdated
	s.emit(ctx, event)
	return event, nil
}

// Withdraw transfers amount of account's supply balance out, All withdraws as much
// as the account's liquidity allows
func (s *service) Withdraw(ctx context.Context, account, asset string, amount core.Amount) (*core.Event, error) {
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

	balance, err := s.findBalance(ctx, account, asset, core.SideSupply)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	liquidity, err := s.accountLiquidity(ctx, p, account, block)
	if err != nil {
		return nil, err
	}

	next, err := accrue(market, block)
	if err != nil {
		return nil, err
	}

	userSupplyCurrent, err := current(balance, next)
	if err != nil {
		return nil, err
	}

	withdrawAmount := amount.Value()
	if amount.IsAll() {
		withdrawCapacity, err := s.amountForValue(ctx, p, asset, liquidity.Liquidity)
		if err != nil {
			return nil, err
		}

		withdrawAmount = number.Min(withdrawCapacity, userSupplyCurrent)
	}

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return nil, err
	}

	updatedCash, err := number.Sub(cash, withdrawAmount)
	if err != nil {
		return nil, core.ErrTokenInsufficientCash
	}

	userSupplyUpdated, err := number.Sub(userSupplyCurrent, withdrawAmount)
	if err != nil {
		return nil, core.ErrInsufficientBalance
	}

	if !liquidity.Shortfall.IsZero() {
		return nil, core.ErrInsufficientLiquidity
	}

	valueOfWithdrawal, err := s.valueOf(ctx, p, asset, withdrawAmount)
	if err != nil {
		return nil, err
	}

	if liquidity.Liquidity.LessThan(valueOfWithdrawal) {
		return nil, core.ErrInsufficientLiquidity
	}

	if next.TotalSupply, err = number.AddThenSub(market.TotalSupply, userSupplyUpdated, balance.Principal); err != nil {
		return nil, err
	}

	if err := s.updateRates(ctx, next, updatedCash); err != nil {
		return nil, err
	}

	before := &core.Checkpoint{Markets: []*core.Market{market}, Balances: []*core.Balance{balance}}
	after := &core.Checkpoint{Markets: []*core.Market{next}, Balances: []*core.Balance{checkpoint(balance, userSupplyUpdated, next)}}
	if err := s.apply(ctx, before, after, func() error {
		return s.tokens.TransferOut(ctx, asset, account, withdrawAmount)
	}); err != nil {
		return nil, err
	}

	event := newEvent(core.ActionWithdraw, account, asset, block)
	event.Amount = withdrawAmount
	event.StartingBalance = balance.Principal
	event.NewBalance = userSupplyUpdated
	s.emit(ctx, event)
	return event, nil
}
