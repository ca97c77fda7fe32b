package rest

import (
	"context"
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/param"
	"moneymarket/handler/render"
	"moneymarket/handler/request"
	"moneymarket/worker/executor"
)

type actionParams struct {
	Asset string `json:"asset" valid:"required"`
	// "all" or an integer in base units
	Amount core.Amount `json:"amount"`
}

// bindAction binds the request body, the caller is the authenticated account
func bindAction(r *http.Request, v interface{}) (string, error) {
	account, _ := request.NewContext(r.Context()).GetAccount()
	return account, param.Binding(r, v)
}

// requireExact rejects "all"
func requireExact(a core.Amount) error {
	if a.IsAll() {
		return core.ErrInvalidAmount
	}

	return nil
}

func supplyHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		account, err := bindAction(r, &params)
		if err == nil {
			err = requireExact(params.Amount)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSupply, func(ctx context.Context) (*core.Event, error) {
			return ledger.Supply(ctx, account, params.Asset, params.Amount.Value())
		})
	}
}

func withdrawHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		account, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionWithdraw, func(ctx context.Context) (*core.Event, error) {
			return ledger.Withdraw(ctx, account, params.Asset, params.Amount)
		})
	}
}

func borrowHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		account, err := bindAction(r, &params)
		if err == nil {
			err = requireExact(params.Amount)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionBorrow, func(ctx context.Context) (*core.Event, error) {
			return ledger.Borrow(ctx, account, params.Asset, params.Amount.Value())
		})
	}
}

func repayHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		account, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionRepayBorrow, func(ctx context.Context) (*core.Event, error) {
			return ledger.RepayBorrow(ctx, account, params.Asset, params.Amount)
		})
	}
}

func liquidateHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Target          string      `json:"target" valid:"required"`
			AssetBorrow     string      `json:"asset_borrow" valid:"required"`
			AssetCollateral string      `json:"asset_collateral" valid:"required"`
			Amount          core.Amount `json:"amount"`
		}

		account, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionLiquidateBorrow, func(ctx context.Context) (*core.Event, error) {
			return ledger.LiquidateBorrow(ctx, account, params.Target, params.AssetBorrow, params.AssetCollateral, params.Amount)
		})
	}
}
