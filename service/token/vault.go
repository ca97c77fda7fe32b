package token

import (
	"context"
	"sync"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

type key struct {
	asset   string
	account string
}

// Vault in memory token ledger with allowances towards the holder
type Vault struct {
	mux        sync.Mutex
	holder     string
	balances   map[key]uint256.Int
	allowances map[key]uint256.Int
}

var _ core.TokenAdapter = (*Vault)(nil)

// NewVault holder is the account the ledger keeps its cash in
func NewVault(holder string) *Vault {
	return &Vault{
		holder:     holder,
		balances:   make(map[key]uint256.Int),
		allowances: make(map[key]uint256.Int),
	}
}

// Mint credits amount to account
func (v *Vault) Mint(asset, account string, amount uint256.Int) error {
	v.mux.Lock()
	defer v.mux.Unlock()

	k := key{asset, account}
	balance, err := number.Add(v.balances[k], amount)
	if err != nil {
		return err
	}

	v.balances[k] = balance
	return nil
}

// Approve lets the holder pull up to amount from owner
func (v *Vault) Approve(asset, owner string, amount uint256.Int) {
	v.mux.Lock()
	defer v.mux.Unlock()

	v.allowances[key{asset, owner}] = amount
}

func (v *Vault) checkTransferIn(asset, from string, amount uint256.Int) error {
	k := key{asset, from}
	if balance := v.balances[k]; balance.Lt(&amount) {
		return core.ErrTokenInsufficientBalance
	}

	if allowance := v.allowances[k]; allowance.Lt(&amount) {
		return core.ErrTokenInsufficientAllowance
	}

	return nil
}

func (v *Vault) CheckTransferIn(_ context.Context, asset, from string, amount uint256.Int) error {
	v.mux.Lock()
	defer v.mux.Unlock()

	return v.checkTransferIn(asset, from, amount)
}

func (v *Vault) TransferIn(_ context.Context, asset, from string, amount uint256.Int) error {
	v.mux.Lock()
	defer v.mux.Unlock()

	if err := v.checkTransferIn(asset, from, amount); err != nil {
		return err
	}

	k := key{asset, from}
	allowance := v.allowances[k]
	if !allowance.Eq(&number.MaxUint) {
		v.allowances[k], _ = number.Sub(allowance, amount)
	}

	return v.move(k, key{asset, v.holder}, amount)
}

func (v *Vault) TransferOut(_ context.Context, asset, to string, amount uint256.Int) error {
	v.mux.Lock()
	defer v.mux.Unlock()

	return v.move(key{asset, v.holder}, key{asset, to}, amount)
}

func (v *Vault) move(from, to key, amount uint256.Int) error {
	fromBalance, err := number.Sub(v.balances[from], amount)
	if err != nil {
		return core.ErrTokenTransferFailed
	}

	toBalance, err := number.Add(v.balances[to], amount)
	if err != nil {
		return core.ErrTokenTransferFailed
	}

	v.balances[from] = fromBalance
	v.balances[to] = toBalance
	return nil
}

func (v *Vault) BalanceHeld(ctx context.Context, asset string) (uint256.Int, error) {
	return v.BalanceOf(ctx, asset, v.holder)
}

func (v *Vault) BalanceOf(_ context.Context, asset, account string) (uint256.Int, error) {
	v.mux.Lock()
	defer v.mux.Unlock()

	return v.balances[key{asset, account}], nil
}
