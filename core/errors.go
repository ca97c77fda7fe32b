package core

import (
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is not the admin
	ErrUnauthorized ErrorCode = 100001
	// ErrContractPaused ledger paused
	ErrContractPaused ErrorCode = 100002
	// ErrReentered an operation is already running
	ErrReentered ErrorCode = 100003

	// ErrMarketNotSupported market not supported
	ErrMarketNotSupported ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrMarketSuspended market suspended
	ErrMarketSuspended ErrorCode = 100102
	// ErrUnknownRateModel no rate model with the name
	ErrUnknownRateModel ErrorCode = 100103
	// ErrUnknownOracle no oracle with the name
	ErrUnknownOracle ErrorCode = 100104
	//ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrInsufficientBalance amount above the account balance
	ErrInsufficientBalance ErrorCode = 100106

	// ErrTokenInsufficientCash ledger holds too little of the asset
	ErrTokenInsufficientCash ErrorCode = 100200
	// ErrTokenInsufficientBalance account holds too little of the asset
	ErrTokenInsufficientBalance ErrorCode = 100201
	// ErrTokenInsufficientAllowance account approved too little of the asset
	ErrTokenInsufficientAllowance ErrorCode = 100202
	// ErrTokenTransferFailed transfer failed
	ErrTokenTransferFailed ErrorCode = 100203

	// ErrAssetNotPriced asset has no price yet
	ErrAssetNotPriced ErrorCode = 100300
	// ErrMissingAssetPrice price missing during a calculation
	ErrMissingAssetPrice ErrorCode = 100301

	// ErrInvalidCollateralRatio collateral ratio below minimum
	ErrInvalidCollateralRatio ErrorCode = 100400
	// ErrInvalidLiquidationDiscount liquidation discount above maximum
	ErrInvalidLiquidationDiscount ErrorCode = 100401
	// ErrInvalidCombinedRiskParameters collateral ratio not above discount + 1
	ErrInvalidCombinedRiskParameters ErrorCode = 100402
	// ErrInvalidCloseAmountRequested close amount above max closeable
	ErrInvalidCloseAmountRequested ErrorCode = 100403
	// ErrInvalidAccountPair liquidator and target are the same account
	ErrInvalidAccountPair ErrorCode = 100404
	// ErrEquityInsufficientBalance amount above protocol equity
	ErrEquityInsufficientBalance ErrorCode = 100405
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                       "unknown",
	ErrUnauthorized:                  "unauthorized",
	ErrContractPaused:                "contract paused",
	ErrReentered:                     "reentered",
	ErrMarketNotSupported:            "market not supported",
	ErrInvalidAmount:                 "invalid amount",
	ErrMarketSuspended:               "market suspended",
	ErrUnknownRateModel:              "unknown rate model",
	ErrUnknownOracle:                 "unknown oracle",
	ErrInsufficientLiquidity:         "insufficient liquidity",
	ErrInsufficientBalance:           "insufficient balance",
	ErrTokenInsufficientCash:         "token insufficient cash",
	ErrTokenInsufficientBalance:      "token insufficient balance",
	ErrTokenInsufficientAllowance:    "token insufficient allowance",
	ErrTokenTransferFailed:           "token transfer failed",
	ErrAssetNotPriced:                "asset not priced",
	ErrMissingAssetPrice:             "missing asset price",
	ErrInvalidCollateralRatio:        "invalid collateral ratio",
	ErrInvalidLiquidationDiscount:    "invalid liquidation discount",
	ErrInvalidCombinedRiskParameters: "invalid combined risk parameters",
	ErrInvalidCloseAmountRequested:   "invalid close amount requested",
	ErrInvalidAccountPair:            "invalid account pair",
	ErrEquityInsufficientBalance:     "equity insufficient balance",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// RateModelError opaque failure status reported by an interest rate model
type RateModelError struct {
	Status int
}

func (e *RateModelError) Error() string {
	return fmt.Sprintf("rate model failure: status %d", e.Status)
}
