package core

import (
	"context"

	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// LedgerStore markets, balances and risk parameters.
// Absent markets and balances are returned zero valued
type LedgerStore interface {
	FindMarket(ctx context.Context, asset string) (*Market, error)
	ListMarkets(ctx context.Context) ([]*Market, error)
	FindBalance(ctx context.Context, account, asset string, side Side) (*Balance, error)
	ListBalances(ctx context.Context, account string) ([]*Balance, error)
	// FindParameters returns nil when never committed
	FindParameters(ctx context.Context) (*RiskParameters, error)
	// Commit writes all records of the checkpoint or none
	Commit(ctx context.Context, cp *Checkpoint) error
}

// Ledger lending ledger
type Ledger interface {
	Supply(ctx context.Context, account, asset string, amount uint256.Int) (*Event, error)
	Withdraw(ctx context.Context, account, asset string, amount Amount) (*Event, error)
	Borrow(ctx context.Context, account, asset string, amount uint256.Int) (*Event, error)
	RepayBorrow(ctx context.Context, account, asset string, amount Amount) (*Event, error)
	LiquidateBorrow(ctx context.Context, liquidator, target, assetBorrow, assetCollateral string, closeAmount Amount) (*Event, error)

	AccountLiquidity(ctx context.Context, account string) (*Liquidity, error)
	SupplyBalance(ctx context.Context, account, asset string) (uint256.Int, error)
	BorrowBalance(ctx context.Context, account, asset string) (uint256.Int, error)
	Parameters(ctx context.Context) (*RiskParameters, error)

	AdminService
}

// AdminService admin interface of the ledger, every call fails with ErrUnauthorized
// unless caller is the admin
type AdminService interface {
	SupportMarket(ctx context.Context, caller, asset, rateModel string) error
	SuspendMarket(ctx context.Context, caller, asset string) error
	SetMarketRateModel(ctx context.Context, caller, asset, rateModel string) error
	SetRiskParameters(ctx context.Context, caller string, collateralRatio, liquidationDiscount number.Exp) error
	SetOriginationFee(ctx context.Context, caller string, fee number.Exp) error
	SetOracle(ctx context.Context, caller, oracle string) error
	SetPaused(ctx context.Context, caller string, paused bool) error
	SetPendingAdmin(ctx context.Context, caller, pendingAdmin string) error
	AcceptAdmin(ctx context.Context, caller string) error
	// WithdrawEquity transfers amount of protocol equity to the admin
	WithdrawEquity(ctx context.Context, caller, asset string, amount uint256.Int) error
}
