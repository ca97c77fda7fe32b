package core

import (
	"context"

	"github.com/holiman/uint256"
)

// TokenAdapter moves assets between accounts and the ledger
type TokenAdapter interface {
	// CheckTransferIn returns ErrTokenInsufficientBalance or ErrTokenInsufficientAllowance
	// when from cannot transfer amount to the ledger
	CheckTransferIn(ctx context.Context, asset, from string, amount uint256.Int) error
	TransferIn(ctx context.Context, asset, from string, amount uint256.Int) error
	TransferOut(ctx context.Context, asset, to string, amount uint256.Int) error
	// BalanceHeld cash held by the ledger
	BalanceHeld(ctx context.Context, asset string) (uint256.Int, error)
	BalanceOf(ctx context.Context, asset, account string) (uint256.Int, error)
}
