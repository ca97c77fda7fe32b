package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/holiman/uint256"
	"github.com/jmoiron/sqlx/types"
)

// Action audit event type
type Action string

const (
	// ActionSupply supply
	ActionSupply Action = "supply"
	// ActionWithdraw withdraw
	ActionWithdraw Action = "withdraw"
	// ActionBorrow borrow
	ActionBorrow Action = "borrow"
	// ActionRepayBorrow repay borrow
	ActionRepayBorrow Action = "repay_borrow"
	// ActionLiquidateBorrow liquidate borrow
	ActionLiquidateBorrow Action = "liquidate_borrow"

	// ActionSupportMarket admin support market
	ActionSupportMarket Action = "support_market"
	// ActionSuspendMarket admin suspend market
	ActionSuspendMarket Action = "suspend_market"
	// ActionSetMarketRateModel admin set rate model
	ActionSetMarketRateModel Action = "set_market_rate_model"
	// ActionSetRiskParameters admin set collateral ratio and liquidation discount
	ActionSetRiskParameters Action = "set_risk_parameters"
	// ActionSetOriginationFee admin set origination fee
	ActionSetOriginationFee Action = "set_origination_fee"
	// ActionSetOracle admin set oracle
	ActionSetOracle Action = "set_oracle"
	// ActionSetPaused admin pause or unpause
	ActionSetPaused Action = "set_paused"
	// ActionSetPendingAdmin admin set pending admin
	ActionSetPendingAdmin Action = "set_pending_admin"
	// ActionAcceptAdmin pending admin accepted
	ActionAcceptAdmin Action = "accept_admin"
	// ActionWithdrawEquity admin withdraw equity
	ActionWithdrawEquity Action = "withdraw_equity"
)

// Event audit record of one operation
type Event struct {
	ID      int64       `json:"id,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Action  Action      `json:"action,omitempty"`
	Account string      `json:"account,omitempty"`
	Asset   string      `json:"asset,omitempty"`
	Amount  uint256.Int `json:"amount"`
	// stored principal before the operation, and the principal written by it
	StartingBalance uint256.Int `json:"starting_balance"`
	NewBalance      uint256.Int `json:"new_balance"`
	// borrow only, amount plus origination fee
	BorrowAmountWithFee uint256.Int    `json:"borrow_amount_with_fee"`
	Block               int64          `json:"block,omitempty"`
	Data                types.JSONText `json:"data,omitempty"`
	CreatedAt           time.Time      `json:"created_at,omitempty"`
}

// Liquidation details of a liquidate borrow event
type Liquidation struct {
	Target                       string      `json:"target"`
	AssetCollateral              string      `json:"asset_collateral"`
	BorrowBalanceBefore          uint256.Int `json:"borrow_balance_before"`
	BorrowBalanceAccumulated     uint256.Int `json:"borrow_balance_accumulated"`
	AmountRepaid                 uint256.Int `json:"amount_repaid"`
	BorrowBalanceAfter           uint256.Int `json:"borrow_balance_after"`
	CollateralBalanceBefore      uint256.Int `json:"collateral_balance_before"`
	CollateralBalanceAccumulated uint256.Int `json:"collateral_balance_accumulated"`
	AmountSeized                 uint256.Int `json:"amount_seized"`
	CollateralBalanceAfter       uint256.Int `json:"collateral_balance_after"`
	// liquidator's collateral balance
	LiquidatorCollateralBefore uint256.Int `json:"liquidator_collateral_before"`
	LiquidatorCollateralAfter  uint256.Int `json:"liquidator_collateral_after"`
}

// SetExtraData extra data as json, {} when nil
func (e *Event) SetExtraData(extra interface{}) {
	data := []byte("{}")
	if extra != nil {
		if bs, err := json.Marshal(extra); err == nil {
			data = bs
		}
	}

	e.Data = data
}

// UnmarshalLiquidation liquidation details of a liquidate borrow event
func (e *Event) UnmarshalLiquidation() (*Liquidation, error) {
	var l Liquidation
	if err := json.Unmarshal(e.Data, &l); err != nil {
		return nil, err
	}

	return &l, nil
}

// EventStore event store interface
type EventStore interface {
	Create(ctx context.Context, event *Event) error
	// events with id > fromID, ascending
	List(ctx context.Context, fromID int64, limit int) ([]*Event, error)
	ListByAccount(ctx context.Context, account string, fromID int64, limit int) ([]*Event, error)
}
