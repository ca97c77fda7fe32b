package rest

import (
	"context"
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/codes"
	"moneymarket/handler/render"
	"moneymarket/pkg/number"
	"moneymarket/worker/executor"
)

// admin operations emit their events to the event store and render success
func adminFunc(fn func(ctx context.Context) error) executor.Func {
	return func(ctx context.Context) (*core.Event, error) {
		return nil, fn(ctx)
	}
}

func parseExp(s string) (number.Exp, error) {
	e, err := number.ParseExp(s)
	if err != nil {
		return e, codes.InvalidArgument(err)
	}

	return e, nil
}

type marketParams struct {
	Asset     string `json:"asset" valid:"required"`
	RateModel string `json:"rate_model"`
}

func supportMarketHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params marketParams
		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSupportMarket, adminFunc(func(ctx context.Context) error {
			return ledger.SupportMarket(ctx, caller, params.Asset, params.RateModel)
		}))
	}
}

func suspendMarketHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params marketParams
		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSuspendMarket, adminFunc(func(ctx context.Context) error {
			return ledger.SuspendMarket(ctx, caller, params.Asset)
		}))
	}
}

func setMarketRateModelHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params marketParams
		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetMarketRateModel, adminFunc(func(ctx context.Context) error {
			return ledger.SetMarketRateModel(ctx, caller, params.Asset, params.RateModel)
		}))
	}
}

func setRiskParametersHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			CollateralRatio     string `json:"collateral_ratio" valid:"float,required"`
			LiquidationDiscount string `json:"liquidation_discount" valid:"float"`
		}

		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		collateralRatio, err := parseExp(params.CollateralRatio)
		if err != nil {
			render.Error(w, err)
			return
		}

		liquidationDiscount, err := parseExp(params.LiquidationDiscount)
		if err != nil && params.LiquidationDiscount != "" {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetRiskParameters, adminFunc(func(ctx context.Context) error {
			return ledger.SetRiskParameters(ctx, caller, collateralRatio, liquidationDiscount)
		}))
	}
}

func setOriginationFeeHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			OriginationFee string `json:"origination_fee" valid:"float,required"`
		}

		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		fee, err := parseExp(params.OriginationFee)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetOriginationFee, adminFunc(func(ctx context.Context) error {
			return ledger.SetOriginationFee(ctx, caller, fee)
		}))
	}
}

func setOracleHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Oracle string `json:"oracle" valid:"required"`
		}

		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetOracle, adminFunc(func(ctx context.Context) error {
			return ledger.SetOracle(ctx, caller, params.Oracle)
		}))
	}
}

func setPausedHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Paused bool `json:"paused"`
		}

		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetPaused, adminFunc(func(ctx context.Context) error {
			return ledger.SetPaused(ctx, caller, params.Paused)
		}))
	}
}

func setPendingAdminHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			PendingAdmin string `json:"pending_admin"`
		}

		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionSetPendingAdmin, adminFunc(func(ctx context.Context) error {
			return ledger.SetPendingAdmin(ctx, caller, params.PendingAdmin)
		}))
	}
}

func acceptAdminHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct{}
		caller, err := bindAction(r, &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionAcceptAdmin, adminFunc(func(ctx context.Context) error {
			return ledger.AcceptAdmin(ctx, caller)
		}))
	}
}

func withdrawEquityHandler(ledger core.Ledger, exec *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		caller, err := bindAction(r, &params)
		if err == nil {
			err = requireExact(params.Amount)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		submit(w, r, exec, core.ActionWithdrawEquity, adminFunc(func(ctx context.Context) error {
			return ledger.WithdrawEquity(ctx, caller, params.Asset, params.Amount.Value())
		}))
	}
}
