package rest

import (
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/auth"
	"moneymarket/handler/render"
	"moneymarket/handler/views"
	"moneymarket/worker/executor"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	ledger core.Ledger,
	store core.LedgerStore,
	events core.EventStore,
	tokens core.TokenAdapter,
	oracles core.PriceOracles,
	exec *executor.Executor,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w)
	})

	router.Get("/parameters", parametersHandler(ledger))
	router.Get("/markets", marketsHandler(ledger, store, tokens, oracles))
	router.Get("/markets/{asset}", marketHandler(ledger, store, tokens, oracles))
	router.Get("/accounts/{account}/liquidity", liquidityHandler(ledger))
	router.Get("/accounts/{account}/balances", balancesHandler(ledger, store))
	router.Get("/accounts/{account}/events", accountEventsHandler(events))
	router.Get("/events", eventsHandler(events))

	router.Group(func(r chi.Router) {
		r.Use(auth.Required)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/supply", supplyHandler(ledger, exec))
			r.Post("/withdraw", withdrawHandler(ledger, exec))
			r.Post("/borrow", borrowHandler(ledger, exec))
			r.Post("/repay", repayHandler(ledger, exec))
			r.Post("/liquidate", liquidateHandler(ledger, exec))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/support-market", supportMarketHandler(ledger, exec))
			r.Post("/suspend-market", suspendMarketHandler(ledger, exec))
			r.Post("/set-market-rate-model", setMarketRateModelHandler(ledger, exec))
			r.Post("/set-risk-parameters", setRiskParametersHandler(ledger, exec))
			r.Post("/set-origination-fee", setOriginationFeeHandler(ledger, exec))
			r.Post("/set-oracle", setOracleHandler(ledger, exec))
			r.Post("/set-paused", setPausedHandler(ledger, exec))
			r.Post("/set-pending-admin", setPendingAdminHandler(ledger, exec))
			r.Post("/accept-admin", acceptAdminHandler(ledger, exec))
			r.Post("/withdraw-equity", withdrawEquityHandler(ledger, exec))
		})
	})

	return router
}

// submit runs fn on the executor and renders the event it emitted
func submit(w http.ResponseWriter, r *http.Request, exec *executor.Executor, action core.Action, fn executor.Func) {
	event, err := exec.Submit(r.Context(), action, fn)
	if err != nil {
		render.Error(w, err)
		return
	}

	if event == nil {
		render.JSON(w, views.AppliedView(action))
		return
	}

	render.JSON(w, views.EventView(event))
}
