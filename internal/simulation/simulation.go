// Package simulation replays a liquidation on in memory stores
package simulation

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/handler/views"
	"moneymarket/pkg/number"
	"moneymarket/service/block"
	"moneymarket/service/ledger"
	"moneymarket/service/oracle"
	"moneymarket/service/ratemodel"
	"moneymarket/service/token"
	"moneymarket/store/memory"

	"github.com/fox-one/pkg/logger"
)

const (
	admin      = "admin"
	collateral = "usd"
	borrowed   = "eur"
)

// Options of a run
type Options struct {
	// blocks passing between the borrow and the price drop
	Blocks int64
	// collateral price after the drop, like "0.9"
	CollateralPrice string
	// rate model of both markets, a jump rate model with base rate 0.05 when nil
	RateModel *core.RateModelConfig
}

// Step result of one step, the event or the liquidity it produced
type Step struct {
	Name      string           `json:"name"`
	Event     *views.Event     `json:"event,omitempty"`
	Liquidity *views.Liquidity `json:"liquidity,omitempty"`
}

type simulation struct {
	ledger core.Ledger
	vault  *token.Vault
	oracle *oracle.StaticOracle
	blocks *block.Manual
	steps  []*Step
}

// Run alice borrows eur against usd, the usd price drops and carol liquidates alice
func Run(ctx context.Context, opt Options) ([]*Step, error) {
	price, err := number.ParseExp(opt.CollateralPrice)
	if err != nil {
		return nil, fmt.Errorf("parse collateral price: %w", err)
	}

	cfg := core.RateModelConfig{
		Name:          "jump",
		BaseRate:      "0.05",
		Multiplier:    "0.2",
		ReserveFactor: "0.1",
	}
	if opt.RateModel != nil {
		cfg = *opt.RateModel
	}

	model, err := ratemodel.New(cfg)
	if err != nil {
		return nil, err
	}

	s := &simulation{
		vault:  token.NewVault("ledger"),
		oracle: oracle.NewStatic(nil),
		blocks: block.NewManual(1),
	}

	s.ledger = ledger.New(
		memory.NewLedgerStore(),
		memory.NewEventStore(),
		s.vault,
		core.PriceOracles{"static": s.oracle},
		core.RateModels{cfg.Name: model},
		s.blocks,
		core.DefaultRiskParameters(admin, "static"),
	)

	log := logger.FromContext(ctx).WithField("simulation", "liquidation")

	for _, asset := range []string{collateral, borrowed} {
		s.oracle.SetPrice(asset, number.One)
		if err := s.ledger.SupportMarket(ctx, admin, asset, cfg.Name); err != nil {
			return nil, fmt.Errorf("support %s: %w", asset, err)
		}
	}

	if err := s.do(ctx, "alice supplies usd", func() (*core.Event, error) {
		if err := s.fund("alice", collateral, 1000); err != nil {
			return nil, err
		}

		return s.ledger.Supply(ctx, "alice", collateral, number.Uint(1000))
	}); err != nil {
		return nil, err
	}

	if err := s.do(ctx, "bob supplies eur", func() (*core.Event, error) {
		if err := s.fund("bob", borrowed, 1000); err != nil {
			return nil, err
		}

		return s.ledger.Supply(ctx, "bob", borrowed, number.Uint(1000))
	}); err != nil {
		return nil, err
	}

	if err := s.do(ctx, "alice borrows eur", func() (*core.Event, error) {
		return s.ledger.Borrow(ctx, "alice", borrowed, number.Uint(500))
	}); err != nil {
		return nil, err
	}

	current := s.blocks.Advance(opt.Blocks)
	s.oracle.SetPrice(collateral, price)
	log.Debugln("usd price dropped to", price, "at block", current)

	if err := s.liquidity(ctx, "alice after the price drop", "alice"); err != nil {
		return nil, err
	}

	if err := s.do(ctx, "carol liquidates alice", func() (*core.Event, error) {
		if err := s.fund("carol", borrowed, 1000); err != nil {
			return nil, err
		}

		return s.ledger.LiquidateBorrow(ctx, "carol", "alice", borrowed, collateral, core.All())
	}); err != nil {
		return nil, err
	}

	if err := s.liquidity(ctx, "alice after the liquidation", "alice"); err != nil {
		return nil, err
	}

	return s.steps, nil
}

func (s *simulation) fund(account, asset string, amount uint64) error {
	if err := s.vault.Mint(asset, account, number.Uint(amount)); err != nil {
		return err
	}

	s.vault.Approve(asset, account, number.MaxUint)
	return nil
}

func (s *simulation) do(ctx context.Context, name string, fn func() (*core.Event, error)) error {
	event, err := fn()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	logger.FromContext(ctx).Debugln(name, event.Amount.Dec())
	s.steps = append(s.steps, &Step{Name: name, Event: views.EventView(event)})
	return nil
}

func (s *simulation) liquidity(ctx context.Context, name, account string) error {
	l, err := s.ledger.AccountLiquidity(ctx, account)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s.steps = append(s.steps, &Step{Name: name, Liquidity: views.LiquidityView(l)})
	return nil
}
