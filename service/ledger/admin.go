package ledger

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// requireAdmin parameters when caller is the admin
func (s *service) requireAdmin(ctx context.Context, caller string) (*core.RiskParameters, error) {
	p, err := s.params(ctx)
	if err != nil {
		return nil, err
	}

	if caller == "" || caller != p.Admin {
		logger.FromContext(ctx).Infoln("skip: not admin", caller)
		return nil, core.ErrUnauthorized
	}

	return p, nil
}

// commitParameters stores p and records the admin event
func (s *service) commitParameters(ctx context.Context, caller string, action core.Action, p *core.RiskParameters, extra interface{}) error {
	if err := s.store.Commit(ctx, &core.Checkpoint{Parameters: p}); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.Commit")
		return err
	}

	event := newEvent(action, caller, "", 0)
	event.SetExtraData(extra)
	s.emit(ctx, event)
	return nil
}

// SupportMarket lists asset, or re-lists it with a new rate model.
// The asset must be priced and suspended markets stay suspended
func (s *service) SupportMarket(ctx context.Context, caller, asset, rateModel string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	if _, err := s.rateModel(rateModel); err != nil {
		return err
	}

	if _, err := s.priceOf(ctx, p, asset); err != nil {
		if err == core.ErrMissingAssetPrice {
			return core.ErrAssetNotPriced
		}

		return err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return err
	}

	if market.Suspended {
		return core.ErrMarketSuspended
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	next := market.Clone()
	if market.Listed() {
		if next, err = accrue(market, block); err != nil {
			return err
		}
	} else {
		next.SupplyIndex = number.One
		next.BorrowIndex = number.One
		next.LastAccrualBlock = block
	}

	next.IsSupported = true
	next.RateModel = rateModel

	cp := &core.Checkpoint{Markets: []*core.Market{next}}
	if !p.IsCollateralMarket(asset) {
		p.CollateralMarkets = append(p.CollateralMarkets, asset)
		cp.Parameters = p
	}

	if err := s.store.Commit(ctx, cp); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.Commit")
		return err
	}

	event := newEvent(core.ActionSupportMarket, caller, asset, block)
	event.SetExtraData(map[string]string{"rate_model": rateModel})
	s.emit(ctx, event)
	return nil
}

// SuspendMarket stops supply and borrow of asset, the market keeps counting as collateral
func (s *service) SuspendMarket(ctx context.Context, caller, asset string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	if _, err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return err
	}

	if !market.IsSupported {
		return nil
	}

	next := market.Clone()
	next.IsSupported = false
	next.Suspended = true

	if err := s.store.Commit(ctx, &core.Checkpoint{Markets: []*core.Market{next}}); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.Commit")
		return err
	}

	s.emit(ctx, newEvent(core.ActionSuspendMarket, caller, asset, market.LastAccrualBlock))
	return nil
}

// SetMarketRateModel accrues the market at the old rates, then switches models
func (s *service) SetMarketRateModel(ctx context.Context, caller, asset, rateModel string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	if _, err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	if _, err := s.rateModel(rateModel); err != nil {
		return err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return err
	}

	if !market.Listed() {
		return core.ErrMarketNotSupported
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	next, err := accrue(market, block)
	if err != nil {
		return err
	}

	next.RateModel = rateModel

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return err
	}

	if err := s.updateRates(ctx, next, cash); err != nil {
		return err
	}

	if err := s.store.Commit(ctx, &core.Checkpoint{Markets: []*core.Market{next}}); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.Commit")
		return err
	}

	event := newEvent(core.ActionSetMarketRateModel, caller, asset, block)
	event.SetExtraData(map[string]string{"rate_model": rateModel})
	s.emit(ctx, event)
	return nil
}

// SetRiskParameters collateral_ratio >= 1.1, liquidation_discount <= 0.1 and
// collateral_ratio > liquidation_discount + 1
func (s *service) SetRiskParameters(ctx context.Context, caller string, collateralRatio, liquidationDiscount number.Exp) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	if err := core.ValidateRiskParameters(collateralRatio, liquidationDiscount); err != nil {
		return err
	}

	p.CollateralRatio = collateralRatio
	p.LiquidationDiscount = liquidationDiscount
	return s.commitParameters(ctx, caller, core.ActionSetRiskParameters, p, map[string]string{
		"collateral_ratio":     collateralRatio.String(),
		"liquidation_discount": liquidationDiscount.String(),
	})
}

func (s *service) SetOriginationFee(ctx context.Context, caller string, fee number.Exp) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	p.OriginationFee = fee
	return s.commitParameters(ctx, caller, core.ActionSetOriginationFee, p, map[string]string{
		"origination_fee": fee.String(),
	})
}

func (s *service) SetOracle(ctx context.Context, caller, oracle string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	if _, ok := s.oracles[oracle]; !ok {
		return core.ErrUnknownOracle
	}

	p.Oracle = oracle
	return s.commitParameters(ctx, caller, core.ActionSetOracle, p, map[string]string{
		"oracle": oracle,
	})
}

func (s *service) SetPaused(ctx context.Context, caller string, paused bool) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	p.Paused = paused
	return s.commitParameters(ctx, caller, core.ActionSetPaused, p, map[string]bool{
		"paused": paused,
	})
}

func (s *service) SetPendingAdmin(ctx context.Context, caller, pendingAdmin string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	p.PendingAdmin = pendingAdmin
	return s.commitParameters(ctx, caller, core.ActionSetPendingAdmin, p, map[string]string{
		"pending_admin": pendingAdmin,
	})
}

// AcceptAdmin caller must be the pending admin
func (s *service) AcceptAdmin(ctx context.Context, caller string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.params(ctx)
	if err != nil {
		return err
	}

	if caller == "" || caller != p.PendingAdmin {
		return core.ErrUnauthorized
	}

	oldAdmin := p.Admin
	p.Admin = p.PendingAdmin
	p.PendingAdmin = ""
	return s.commitParameters(ctx, caller, core.ActionAcceptAdmin, p, map[string]string{
		"old_admin": oldAdmin,
	})
}

// WithdrawEquity equity = cash + borrows - supply
func (s *service) WithdrawEquity(ctx context.Context, caller, asset string, amount uint256.Int) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	p, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	market, err := s.findMarket(ctx, asset)
	if err != nil {
		return err
	}

	cash, err := s.cash(ctx, asset)
	if err != nil {
		return err
	}

	available, err := number.AddThenSub(cash, market.TotalBorrows, market.TotalSupply)
	if err != nil {
		return err
	}

	if amount.Gt(&available) {
		return core.ErrEquityInsufficientBalance
	}

	if err := s.tokens.TransferOut(ctx, asset, p.Admin, amount); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("tokens.TransferOut", asset)
		return transferError(err)
	}

	event := newEvent(core.ActionWithdrawEquity, caller, asset, market.LastAccrualBlock)
	event.Amount = amount
	s.emit(ctx, event)
	return nil
}
