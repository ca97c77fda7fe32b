package ledger

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/id"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type service struct {
	store      core.LedgerStore
	events     core.EventStore
	tokens     core.TokenAdapter
	oracles    core.PriceOracles
	rateModels core.RateModels
	blocks     core.BlockService
	defaults   *core.RiskParameters

	entered atomic.Bool
}

// New new ledger service, defaults are used until risk parameters are committed
func New(
	store core.LedgerStore,
	events core.EventStore,
	tokens core.TokenAdapter,
	oracles core.PriceOracles,
	rateModels core.RateModels,
	blocks core.BlockService,
	defaults *core.RiskParameters,
) core.Ledger {
	return &service{
		store:      store,
		events:     events,
		tokens:     tokens,
		oracles:    oracles,
		rateModels: rateModels,
		blocks:     blocks,
		defaults:   defaults,
	}
}

// enter fails with ErrReentered while another operation holds the guard
func (s *service) enter() error {
	if !s.entered.CompareAndSwap(false, true) {
		return core.ErrReentered
	}

	return nil
}

func (s *service) exit() {
	s.entered.Store(false)
}

func (s *service) Parameters(ctx context.Context) (*core.RiskParameters, error) {
	return s.params(ctx)
}

func (s *service) params(ctx context.Context) (*core.RiskParameters, error) {
	p, err := s.store.FindParameters(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.FindParameters")
		return nil, err
	}

	if p == nil {
		p = s.defaults
	}

	return p.Clone(), nil
}

func (s *service) requireActive(ctx context.Context) (*core.RiskParameters, error) {
	p, err := s.params(ctx)
	if err != nil {
		return nil, err
	}

	if p.Paused {
		return nil, core.ErrContractPaused
	}

	return p, nil
}

func (s *service) findMarket(ctx context.Context, asset string) (*core.Market, error) {
	m, err := s.store.FindMarket(ctx, asset)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.FindMarket")
		return nil, err
	}

	m.Asset = asset
	return m, nil
}

func (s *service) findBalance(ctx context.Context, account, asset string, side core.Side) (*core.Balance, error) {
	b, err := s.store.FindBalance(ctx, account, asset, side)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("ledger.FindBalance")
		return nil, err
	}

	b.Account, b.Asset, b.Side = account, asset, side
	return b, nil
}

// priceOf zero price fails with ErrMissingAssetPrice
func (s *service) priceOf(ctx context.Context, p *core.RiskParameters, asset string) (number.Exp, error) {
	oracle, ok := s.oracles[p.Oracle]
	if !ok {
		return number.Exp{}, core.ErrUnknownOracle
	}

	price, err := oracle.PriceOf(ctx, asset)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle.PriceOf", asset)
		return number.Exp{}, err
	}

	if price.IsZero() {
		return number.Exp{}, core.ErrMissingAssetPrice
	}

	return price, nil
}

func (s *service) cash(ctx context.Context, asset string) (uint256.Int, error) {
	cash, err := s.tokens.BalanceHeld(ctx, asset)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("tokens.BalanceHeld", asset)
		return uint256.Int{}, err
	}

	return cash, nil
}

func (s *service) rateModel(name string) (core.InterestRateModel, error) {
	model, ok := s.rateModels[name]
	if !ok {
		return nil, core.ErrUnknownRateModel
	}

	return model, nil
}

// apply commits after, then runs the token interaction.
// When the interaction fails before is committed back
func (s *service) apply(ctx context.Context, before, after *core.Checkpoint, interact func() error) error {
	log := logger.FromContext(ctx)

	if err := s.store.Commit(ctx, after); err != nil {
		log.WithError(err).Errorln("ledger.Commit")
		return err
	}

	if interact == nil {
		return nil
	}

	if err := interact(); err != nil {
		log.WithError(err).Infoln("token interaction failed, rollback")

		if rerr := s.store.Commit(ctx, before); rerr != nil {
			log.WithError(rerr).Errorln("ledger.Rollback")
			return rerr
		}

		return transferError(err)
	}

	return nil
}

func transferError(err error) error {
	var code core.ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return core.ErrTokenTransferFailed
}

func newEvent(action core.Action, account, asset string, block int64) *core.Event {
	return &core.Event{
		TraceID:   id.GenTraceID(),
		Action:    action,
		Account:   account,
		Asset:     asset,
		Block:     block,
		Data:      []byte("{}"),
		CreatedAt: time.Now(),
	}
}

// emit stores the audit event, a failure here does not undo the operation
func (s *service) emit(ctx context.Context, event *core.Event) {
	if err := s.events.Create(ctx, event); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("events.Create", event.TraceID)
	}
}
