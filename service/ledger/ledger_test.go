package ledger

import (
	"context"
	"errors"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/service/block"
	"moneymarket/service/oracle"
	"moneymarket/service/ratemodel"
	"moneymarket/service/token"
	"moneymarket/store/memory"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin  = "admin"
	holder = "ledger"
)

type testLedger struct {
	core.Ledger
	t      *testing.T
	store  core.LedgerStore
	events core.EventStore
	vault  *token.Vault
	oracle *oracle.StaticOracle
	blocks *block.Manual
	fixed  *fixedRateModel
}

type zeroRateModel struct{}

func (zeroRateModel) BorrowRate(context.Context, string, uint256.Int, uint256.Int, uint256.Int) (number.Exp, error) {
	return number.Exp{}, nil
}

func (zeroRateModel) SupplyRate(context.Context, string, uint256.Int, uint256.Int) (number.Exp, error) {
	return number.Exp{}, nil
}

// fixedRateModel constant rates, remembers the reserves of the last borrow rate query
type fixedRateModel struct {
	borrow, supply number.Exp
	reserves       uint256.Int
}

func (m *fixedRateModel) BorrowRate(_ context.Context, _ string, _, _, reserves uint256.Int) (number.Exp, error) {
	m.reserves = reserves
	return m.borrow, nil
}

func (m *fixedRateModel) SupplyRate(context.Context, string, uint256.Int, uint256.Int) (number.Exp, error) {
	return m.supply, nil
}

func newTestLedger(t *testing.T, wrap func(*token.Vault) core.TokenAdapter) *testLedger {
	jump, err := ratemodel.New(core.RateModelConfig{
		Name:           "jump",
		BaseRate:       "0.21024",
		Multiplier:     "2.1024",
		JumpMultiplier: "21.024",
		Kink:           "0.8",
		ReserveFactor:  "0.1",
	})
	require.NoError(t, err)

	l := &testLedger{
		t:      t,
		store:  memory.NewLedgerStore(),
		events: memory.NewEventStore(),
		vault:  token.NewVault(holder),
		oracle: oracle.NewStatic(nil),
		blocks: block.NewManual(100),
		fixed:  &fixedRateModel{
			borrow: number.MustParseExp("0.001"),
			supply: number.MustParseExp("0.0002"),
		},
	}

	var tokens core.TokenAdapter = l.vault
	if wrap != nil {
		tokens = wrap(l.vault)
	}

	l.Ledger = New(
		l.store,
		l.events,
		tokens,
		core.PriceOracles{"static": l.oracle},
		core.RateModels{"zero": zeroRateModel{}, "jump": jump, "fixed": l.fixed},
		l.blocks,
		core.DefaultRiskParameters(admin, "static"),
	)

	return l
}

func (l *testLedger) list(asset, price, model string) {
	l.oracle.SetPrice(asset, number.MustParseExp(price))
	require.NoError(l.t, l.SupportMarket(context.Background(), admin, asset, model))
}

func (l *testLedger) fund(account, asset string, amount uint64) {
	require.NoError(l.t, l.vault.Mint(asset, account, number.Uint(amount)))
	l.vault.Approve(asset, account, number.MaxUint)
}

func (l *testLedger) supply(account, asset string, amount uint64) {
	l.fund(account, asset, amount)
	_, err := l.Supply(context.Background(), account, asset, number.Uint(amount))
	require.NoError(l.t, err)
}

func (l *testLedger) principal(account, asset string, side core.Side) uint256.Int {
	b, err := l.store.FindBalance(context.Background(), account, asset, side)
	require.NoError(l.t, err)
	return b.Principal
}

func (l *testLedger) market(asset string) *core.Market {
	m, err := l.store.FindMarket(context.Background(), asset)
	require.NoError(l.t, err)
	return m
}

func TestSupplyFreshMarket(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("btc", "1", "zero")
	l.fund("alice", "btc", 1000)

	event, err := l.Supply(ctx, "alice", "btc", number.Uint(1000))
	require.NoError(t, err)
	assert.Equal(t, core.ActionSupply, event.Action)
	assert.True(t, event.StartingBalance.IsZero())
	assert.Equal(t, number.Uint(1000), event.NewBalance)

	b, err := l.store.FindBalance(ctx, "alice", "btc", core.SideSupply)
	require.NoError(t, err)
	assert.Equal(t, number.Uint(1000), b.Principal)
	assert.True(t, b.InterestIndex.Equal(number.One))

	m := l.market("btc")
	assert.Equal(t, number.Uint(1000), m.TotalSupply)
	assert.True(t, m.SupplyIndex.Equal(number.One))

	held, _ := l.vault.BalanceHeld(ctx, "btc")
	assert.Equal(t, number.Uint(1000), held)

	events, err := l.events.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, core.ActionSupply, events[len(events)-1].Action)
}

func TestSupplyRejections(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)

	_, err := l.Supply(ctx, "alice", "btc", number.Uint(1))
	assert.Equal(t, core.ErrMarketNotSupported, err)

	l.list("btc", "1", "zero")
	_, err = l.Supply(ctx, "alice", "btc", number.Uint(1))
	assert.Equal(t, core.ErrTokenInsufficientBalance, err)

	require.NoError(t, l.vault.Mint("btc", "alice", number.Uint(10)))
	_, err = l.Supply(ctx, "alice", "btc", number.Uint(1))
	assert.Equal(t, core.ErrTokenInsufficientAllowance, err)

	assert.True(t, l.market("btc").TotalSupply.IsZero())
}

func TestWithdrawAllCappedByLiquidity(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")

	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 700)
	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(200))
	require.NoError(t, err)

	liquidity, err := l.AccountLiquidity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "300", liquidity.Liquidity.String())
	assert.True(t, liquidity.Shortfall.IsZero())

	event, err := l.Withdraw(ctx, "alice", "usd", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(300), event.Amount)
	assert.Equal(t, number.Uint(400), l.principal("alice", "usd", core.SideSupply))

	alice, _ := l.vault.BalanceOf(ctx, "usd", "alice")
	assert.Equal(t, number.Uint(300), alice)
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("alice", "usd", 700)

	_, err := l.Withdraw(ctx, "alice", "usd", core.Exact(number.Uint(701)))
	assert.Equal(t, core.ErrTokenInsufficientCash, err)

	l.supply("bob", "usd", 100)
	_, err = l.Withdraw(ctx, "alice", "usd", core.Exact(number.Uint(701)))
	assert.Equal(t, core.ErrInsufficientBalance, err)

	l.supply("lender", "eur", 1000)
	_, err = l.Borrow(ctx, "alice", "eur", number.Uint(300))
	require.NoError(t, err)

	_, err = l.Withdraw(ctx, "alice", "usd", core.Exact(number.Uint(101)))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	event, err := l.Withdraw(ctx, "alice", "usd", core.Exact(number.Uint(100)))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(600), event.NewBalance)
	assert.Equal(t, number.Uint(700), l.market("usd").TotalSupply)
}

func TestBorrowAtExactLiquidity(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 1000)

	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(501))
	assert.Equal(t, core.ErrInsufficientLiquidity, err, "one unit over")

	event, err := l.Borrow(ctx, "alice", "eur", number.Uint(500))
	require.NoError(t, err, "value times collateral ratio equals liquidity")
	assert.Equal(t, number.Uint(500), event.NewBalance)

	liquidity, err := l.AccountLiquidity(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, liquidity.Liquidity.IsZero())
	assert.True(t, liquidity.Shortfall.IsZero())

	_, err = l.Borrow(ctx, "alice", "eur", number.Uint(1))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestBorrowWithOriginationFee(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 1000)
	require.NoError(t, l.SetOriginationFee(ctx, admin, number.MustParseExp("0.01")))

	event, err := l.Borrow(ctx, "alice", "eur", number.Uint(100))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(101), event.BorrowAmountWithFee)
	assert.Equal(t, number.Uint(101), l.principal("alice", "eur", core.SideBorrow))
	assert.Equal(t, number.Uint(101), l.market("eur").TotalBorrows)

	alice, _ := l.vault.BalanceOf(ctx, "eur", "alice")
	assert.Equal(t, number.Uint(100), alice, "the fee is not disbursed")

	// equity = 900 + 101 - 1000
	assert.Equal(t, core.ErrEquityInsufficientBalance, l.WithdrawEquity(ctx, admin, "eur", number.Uint(2)))
	require.NoError(t, l.WithdrawEquity(ctx, admin, "eur", number.Uint(1)))
	paid, _ := l.vault.BalanceOf(ctx, "eur", admin)
	assert.Equal(t, number.Uint(1), paid)
}

func TestBorrowInsufficientCash(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 10)
	l.supply("alice", "usd", 1000)

	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(11))
	assert.Equal(t, core.ErrTokenInsufficientCash, err)
}

func TestRepayBorrow(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 1000)

	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(300))
	require.NoError(t, err)
	l.vault.Approve("eur", "alice", number.MaxUint)

	_, err = l.RepayBorrow(ctx, "alice", "eur", core.Exact(number.Uint(301)))
	assert.Equal(t, number.ErrUnderflow, err)

	event, err := l.RepayBorrow(ctx, "alice", "eur", core.Exact(number.Uint(100)))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(200), event.NewBalance)

	// alice holds 200 eur, exactly what she owes
	event, err = l.RepayBorrow(ctx, "alice", "eur", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(200), event.Amount)
	assert.Equal(t, number.Uint(0), l.principal("alice", "eur", core.SideBorrow))
	assert.True(t, l.market("eur").TotalBorrows.IsZero())
}

func TestRepayAllCappedByTokenBalance(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 1000)
	require.NoError(t, l.SetOriginationFee(ctx, admin, number.MustParseExp("0.1")))

	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(100))
	require.NoError(t, err)
	l.vault.Approve("eur", "alice", number.MaxUint)

	// owes 110, holds 100
	event, err := l.RepayBorrow(ctx, "alice", "eur", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(100), event.Amount)
	assert.Equal(t, number.Uint(10), l.principal("alice", "eur", core.SideBorrow))
}

func TestLiquidateMaxCloseable(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("borrow", "1", "zero")
	l.list("collateral", "2", "zero")
	l.list("other", "1", "zero")

	l.supply("lender", "borrow", 2000)
	l.supply("target", "collateral", 1000)
	l.supply("target", "other", 700)

	_, err := l.Borrow(ctx, "target", "borrow", number.Uint(1000))
	require.NoError(t, err)

	l.oracle.SetPrice("collateral", number.MustParseExp("0.5"))

	liquidity, err := l.AccountLiquidity(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, "800", liquidity.Shortfall.String())

	l.fund("liquidator", "borrow", 1000)

	_, err = l.LiquidateBorrow(ctx, "liquidator", "target", "borrow", "collateral", core.Exact(number.Uint(501)))
	assert.Equal(t, core.ErrInvalidCloseAmountRequested, err)

	// borrow 1000, discounted collateral 500, repay to even 800
	event, err := l.LiquidateBorrow(ctx, "liquidator", "target", "borrow", "collateral", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(500), event.Amount)

	detail, err := event.UnmarshalLiquidation()
	require.NoError(t, err)
	assert.Equal(t, number.Uint(1000), detail.AmountSeized)
	assert.Equal(t, number.Uint(500), detail.BorrowBalanceAfter)
	assert.True(t, detail.CollateralBalanceAfter.IsZero())

	assert.Equal(t, number.Uint(500), l.principal("target", "borrow", core.SideBorrow))
	assert.Equal(t, number.Uint(0), l.principal("target", "collateral", core.SideSupply))
	assert.Equal(t, number.Uint(1000), l.principal("liquidator", "collateral", core.SideSupply))
	assert.Equal(t, number.Uint(500), l.market("borrow").TotalBorrows)
	assert.Equal(t, number.Uint(1000), l.market("collateral").TotalSupply)

	held, _ := l.vault.BalanceHeld(ctx, "borrow")
	assert.Equal(t, number.Uint(1500), held)
}

func TestLiquidateRejections(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("target", "usd", 1000)
	_, err := l.Borrow(ctx, "target", "eur", number.Uint(100))
	require.NoError(t, err)

	_, err = l.LiquidateBorrow(ctx, "target", "target", "eur", "usd", core.All())
	assert.Equal(t, core.ErrInvalidAccountPair, err)

	l.fund("liquidator", "eur", 100)
	_, err = l.LiquidateBorrow(ctx, "liquidator", "target", "eur", "usd", core.Exact(number.Uint(10)))
	assert.Equal(t, core.ErrInvalidCloseAmountRequested, err, "healthy account")

	l.oracle.SetPrice("usd", number.Exp{})
	_, err = l.LiquidateBorrow(ctx, "liquidator", "target", "eur", "usd", core.Exact(number.Uint(10)))
	assert.Equal(t, core.ErrMissingAssetPrice, err)
}

func TestLiquidateSuspendedMarket(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("target", "usd", 1000)
	_, err := l.Borrow(ctx, "target", "eur", number.Uint(100))
	require.NoError(t, err)

	require.NoError(t, l.SuspendMarket(ctx, admin, "eur"))

	_, err = l.Supply(ctx, "lender", "eur", number.Uint(1))
	assert.Equal(t, core.ErrMarketNotSupported, err)
	_, err = l.Borrow(ctx, "target", "eur", number.Uint(1))
	assert.Equal(t, core.ErrMarketNotSupported, err)
	assert.Equal(t, core.ErrMarketSuspended, l.SupportMarket(ctx, admin, "eur", "zero"))

	// no shortfall, the repay to even cap does not apply
	l.fund("liquidator", "eur", 100)
	event, err := l.LiquidateBorrow(ctx, "liquidator", "target", "eur", "usd", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(100), event.Amount)

	assert.Equal(t, number.Uint(0), l.principal("target", "eur", core.SideBorrow))
	assert.Equal(t, number.Uint(900), l.principal("target", "usd", core.SideSupply))
	assert.Equal(t, number.Uint(100), l.principal("liquidator", "usd", core.SideSupply))

	// withdraw and repay keep working
	_, err = l.Withdraw(ctx, "lender", "eur", core.Exact(number.Uint(10)))
	require.NoError(t, err)
}

func TestLiquidateSameAsset(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.supply("target", "usd", 1000)

	_, err := l.Borrow(ctx, "target", "usd", number.Uint(500))
	require.NoError(t, err)

	require.NoError(t, l.SetRiskParameters(ctx, admin, number.MustParseExp("4"), number.Exp{}))

	// supply 1000, borrow 500 scaled by 4: shortfall 1000, repay to even 1000 / 3
	l.fund("liquidator", "usd", 500)
	event, err := l.LiquidateBorrow(ctx, "liquidator", "target", "usd", "usd", core.All())
	require.NoError(t, err)
	assert.Equal(t, number.Uint(333), event.Amount)

	m := l.market("usd")
	assert.Equal(t, number.Uint(167), m.TotalBorrows)
	assert.Equal(t, number.Uint(1000), m.TotalSupply)
	assert.Equal(t, number.Uint(667), l.principal("target", "usd", core.SideSupply))
	assert.Equal(t, number.Uint(333), l.principal("liquidator", "usd", core.SideSupply))
}

func TestLiquidateSameAssetRatesSeeNewSupply(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "fixed")
	l.supply("target", "usd", 1000)

	_, err := l.Borrow(ctx, "target", "usd", number.Uint(500))
	require.NoError(t, err)

	// borrow accrues to 505, supply to 1002
	l.blocks.Advance(10)
	require.NoError(t, l.SetRiskParameters(ctx, admin, number.MustParseExp("4"), number.Exp{}))

	l.fund("liquidator", "usd", 600)
	_, err = l.LiquidateBorrow(ctx, "liquidator", "target", "usd", "usd", core.All())
	require.NoError(t, err)

	m := l.market("usd")
	assert.Equal(t, number.Uint(1002), m.TotalSupply)

	cash, err := l.vault.BalanceHeld(ctx, "usd")
	require.NoError(t, err)
	reserves, err := number.AddThenSub(cash, m.TotalBorrows, m.TotalSupply)
	require.NoError(t, err)
	assert.Equal(t, reserves, l.fixed.reserves)
	assert.Equal(t, number.Uint(3), reserves)
}

func TestPaused(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.fund("alice", "usd", 100)

	assert.Equal(t, core.ErrUnauthorized, l.SetPaused(ctx, "alice", true))
	require.NoError(t, l.SetPaused(ctx, admin, true))

	_, err := l.Supply(ctx, "alice", "usd", number.Uint(100))
	assert.Equal(t, core.ErrContractPaused, err)
	_, err = l.Withdraw(ctx, "alice", "usd", core.All())
	assert.Equal(t, core.ErrContractPaused, err)
	_, err = l.Borrow(ctx, "alice", "usd", number.Uint(1))
	assert.Equal(t, core.ErrContractPaused, err)
	_, err = l.RepayBorrow(ctx, "alice", "usd", core.All())
	assert.Equal(t, core.ErrContractPaused, err)
	_, err = l.LiquidateBorrow(ctx, "alice", "bob", "usd", "usd", core.All())
	assert.Equal(t, core.ErrContractPaused, err)

	assert.True(t, l.market("usd").TotalSupply.IsZero())
	held, _ := l.vault.BalanceOf(ctx, "usd", "alice")
	assert.Equal(t, number.Uint(100), held)

	require.NoError(t, l.SetPaused(ctx, admin, false))
	_, err = l.Supply(ctx, "alice", "usd", number.Uint(100))
	require.NoError(t, err)
}

type reentrantTokens struct {
	*token.Vault
	ledger   core.Ledger
	innerErr error
}

func (r *reentrantTokens) TransferIn(ctx context.Context, asset, from string, amount uint256.Int) error {
	_, r.innerErr = r.ledger.Supply(ctx, from, asset, amount)
	return r.Vault.TransferIn(ctx, asset, from, amount)
}

func TestReentrancyGuard(t *testing.T) {
	ctx := context.Background()

	var tokens *reentrantTokens
	l := newTestLedger(t, func(v *token.Vault) core.TokenAdapter {
		tokens = &reentrantTokens{Vault: v}
		return tokens
	})
	tokens.ledger = l.Ledger

	l.list("usd", "1", "zero")
	l.fund("alice", "usd", 100)

	_, err := l.Supply(ctx, "alice", "usd", number.Uint(60))
	require.NoError(t, err)
	assert.Equal(t, core.ErrReentered, tokens.innerErr)
	assert.Equal(t, number.Uint(60), l.principal("alice", "usd", core.SideSupply))

	// released after the operation
	_, err = l.Supply(ctx, "alice", "usd", number.Uint(40))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(100), l.principal("alice", "usd", core.SideSupply))
}

type panicRateModel struct{}

func (panicRateModel) BorrowRate(context.Context, string, uint256.Int, uint256.Int, uint256.Int) (number.Exp, error) {
	panic(&number.InvariantError{What: "test"})
}

func (panicRateModel) SupplyRate(context.Context, string, uint256.Int, uint256.Int) (number.Exp, error) {
	panic(&number.InvariantError{What: "test"})
}

func TestGuardReleasedOnAbort(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.fund("alice", "usd", 100)

	s := l.Ledger.(*service)
	s.rateModels["panic"] = panicRateModel{}
	l.oracle.SetPrice("bad", number.One)
	require.NoError(t, l.SupportMarket(ctx, admin, "bad", "panic"))
	l.fund("alice", "bad", 100)

	assert.Panics(t, func() {
		_, _ = l.Supply(ctx, "alice", "bad", number.Uint(10))
	})
	assert.True(t, l.market("bad").TotalSupply.IsZero())

	_, err := l.Supply(ctx, "alice", "usd", number.Uint(10))
	require.NoError(t, err)
}

type failingTokens struct {
	*token.Vault
}

func (failingTokens) TransferOut(context.Context, string, string, uint256.Int) error {
	return errors.New("custody unavailable")
}

func TestTransferFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, func(v *token.Vault) core.TokenAdapter {
		return failingTokens{Vault: v}
	})
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "eur", 1000)
	l.supply("alice", "usd", 1000)

	before := l.market("eur")

	_, err := l.Borrow(ctx, "alice", "eur", number.Uint(100))
	assert.Equal(t, core.ErrTokenTransferFailed, err)

	assert.Equal(t, before, l.market("eur"))
	assert.Equal(t, number.Uint(0), l.principal("alice", "eur", core.SideBorrow))

	_, err = l.Withdraw(ctx, "alice", "usd", core.Exact(number.Uint(10)))
	assert.Equal(t, core.ErrTokenTransferFailed, err)
	assert.Equal(t, number.Uint(1000), l.principal("alice", "usd", core.SideSupply))
}

func TestInterestAccrual(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "jump")
	l.list("eur", "1", "zero")

	l.supply("lender", "usd", 1000)
	l.supply("borrower", "eur", 1000)
	_, err := l.Borrow(ctx, "borrower", "usd", number.Uint(100))
	require.NoError(t, err)

	m := l.market("usd")
	assert.False(t, m.BorrowRate.IsZero())
	assert.False(t, m.SupplyRate.IsZero())

	l.blocks.Advance(100000)

	owed, err := l.BorrowBalance(ctx, "borrower", "usd")
	require.NoError(t, err)
	assert.True(t, owed.Gt(uint256.NewInt(100)), "borrow grows, got %s", owed.Dec())

	earned, err := l.SupplyBalance(ctx, "lender", "usd")
	require.NoError(t, err)
	assert.True(t, earned.Gt(uint256.NewInt(1000)), "supply grows, got %s", earned.Dec())

	// views do not write
	assert.Equal(t, m, l.market("usd"))

	l.fund("borrower", "usd", 50)
	event, err := l.RepayBorrow(ctx, "borrower", "usd", core.All())
	require.NoError(t, err)
	assert.Equal(t, owed, event.Amount)
	assert.Equal(t, number.Uint(0), l.principal("borrower", "usd", core.SideBorrow))

	m = l.market("usd")
	assert.EqualValues(t, 100100, m.LastAccrualBlock)
	assert.True(t, number.One.LessThan(m.BorrowIndex))
	assert.True(t, number.One.LessThan(m.SupplyIndex))
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)

	assert.Equal(t, core.ErrAssetNotPriced, l.SupportMarket(ctx, admin, "usd", "zero"))
	l.oracle.SetPrice("usd", number.One)
	assert.Equal(t, core.ErrUnknownRateModel, l.SupportMarket(ctx, admin, "usd", "nope"))
	assert.Equal(t, core.ErrUnauthorized, l.SupportMarket(ctx, "alice", "usd", "zero"))
	require.NoError(t, l.SupportMarket(ctx, admin, "usd", "zero"))

	p, err := l.Parameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"usd"}, p.CollateralMarkets)
	assert.Equal(t, "2", p.CollateralRatio.String())

	assert.Equal(t, core.ErrInvalidCollateralRatio, l.SetRiskParameters(ctx, admin, number.MustParseExp("1.05"), number.Exp{}))
	assert.Equal(t, core.ErrInvalidLiquidationDiscount, l.SetRiskParameters(ctx, admin, number.MustParseExp("2"), number.MustParseExp("0.2")))
	assert.Equal(t, core.ErrInvalidCombinedRiskParameters, l.SetRiskParameters(ctx, admin, number.MustParseExp("1.1"), number.MustParseExp("0.1")))
	require.NoError(t, l.SetRiskParameters(ctx, admin, number.MustParseExp("1.5"), number.MustParseExp("0.1")))

	assert.Equal(t, core.ErrUnknownOracle, l.SetOracle(ctx, admin, "nope"))
	require.NoError(t, l.SetOracle(ctx, admin, "static"))

	require.NoError(t, l.SetPendingAdmin(ctx, admin, "bob"))
	assert.Equal(t, core.ErrUnauthorized, l.AcceptAdmin(ctx, "alice"))
	require.NoError(t, l.AcceptAdmin(ctx, "bob"))
	assert.Equal(t, core.ErrUnauthorized, l.SetPaused(ctx, admin, true))

	p, err = l.Parameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Admin)
	assert.Empty(t, p.PendingAdmin)
	assert.Equal(t, "1.5", p.CollateralRatio.String())
}

func TestLiquidationMath(t *testing.T) {
	p := core.DefaultRiskParameters(admin, "static")
	p.LiquidationDiscount = number.MustParseExp("0.05")

	v, err := discountedBorrowDenominatedCollateral(p, number.MustParseExp("2"), number.One, number.Uint(105))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(200), v)

	v, err = discountedRepayToEvenAmount(p, number.MustParseExp("95"), number.One)
	require.NoError(t, err)
	assert.Equal(t, number.Uint(100), v)

	v, err = amountSeize(p, number.One, number.MustParseExp("2"), number.Uint(100))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(52), v)

	v, err = borrowAmountWithFee(p, number.Uint(100))
	require.NoError(t, err)
	assert.Equal(t, number.Uint(100), v)
}

func TestSetMarketRateModel(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)
	l.list("usd", "1", "zero")
	l.list("eur", "1", "zero")
	l.supply("lender", "usd", 1000)
	l.supply("borrower", "eur", 1000)
	_, err := l.Borrow(ctx, "borrower", "usd", number.Uint(100))
	require.NoError(t, err)
	assert.True(t, l.market("usd").BorrowRate.IsZero())

	assert.Equal(t, core.ErrUnknownRateModel, l.SetMarketRateModel(ctx, admin, "usd", "nope"))
	assert.Equal(t, core.ErrMarketNotSupported, l.SetMarketRateModel(ctx, admin, "btc", "jump"))

	l.blocks.Advance(10)
	require.NoError(t, l.SetMarketRateModel(ctx, admin, "usd", "jump"))

	m := l.market("usd")
	assert.Equal(t, "jump", m.RateModel)
	assert.EqualValues(t, 110, m.LastAccrualBlock)
	assert.False(t, m.BorrowRate.IsZero())
	assert.True(t, m.BorrowIndex.Equal(number.One), "accrued at the old zero rate")
}
