package rest

import (
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/render"
	"moneymarket/handler/views"

	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

// response liquidity of the account
func liquidityHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liquidity, err := ledger.AccountLiquidity(r.Context(), chi.URLParam(r, "account"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.LiquidityView(liquidity))
	}
}

// response balances of the account with interest accrued
func balancesHandler(ledger core.Ledger, store core.LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := chi.URLParam(r, "account")

		balances, err := store.ListBalances(ctx, account)
		if err != nil {
			render.Error(w, err)
			return
		}

		balanceViews := make([]*views.Balance, 0, len(balances))
		for _, b := range balances {
			var current uint256.Int
			if b.Side == core.SideBorrow {
				current, err = ledger.BorrowBalance(ctx, account, b.Asset)
			} else {
				current, err = ledger.SupplyBalance(ctx, account, b.Asset)
			}

			if err != nil {
				render.Error(w, err)
				return
			}

			balanceViews = append(balanceViews, views.BalanceView(b, current))
		}

		render.JSON(w, balanceViews)
	}
}
