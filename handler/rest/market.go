package rest

import (
	"context"
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/render"
	"moneymarket/handler/views"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

func parametersHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := ledger.Parameters(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.ParametersView(p))
	}
}

func marketsHandler(ledger core.Ledger, store core.LedgerStore, tokens core.TokenAdapter, oracles core.PriceOracles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, err := store.ListMarkets(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		oracle := currentOracle(ctx, ledger, oracles)

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			marketViews = append(marketViews, getMarketView(ctx, m, tokens, oracle))
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(ledger core.Ledger, store core.LedgerStore, tokens core.TokenAdapter, oracles core.PriceOracles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		market, err := store.FindMarket(ctx, chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		if !market.Listed() {
			render.NotFound(w)
			return
		}

		render.JSON(w, getMarketView(ctx, market, tokens, currentOracle(ctx, ledger, oracles)))
	}
}

// currentOracle oracle named by the risk parameters, nil when unknown
func currentOracle(ctx context.Context, ledger core.Ledger, oracles core.PriceOracles) core.PriceOracle {
	p, err := ledger.Parameters(ctx)
	if err != nil {
		return nil
	}

	return oracles[p.Oracle]
}

func getMarketView(ctx context.Context, market *core.Market, tokens core.TokenAdapter, oracle core.PriceOracle) *views.Market {
	log := logger.FromContext(ctx).WithField("asset", market.Asset)

	cash, err := tokens.BalanceHeld(ctx, market.Asset)
	if err != nil {
		log.WithError(err).Debugln("tokens.BalanceHeld")
		cash = uint256.Int{}
	}

	var price number.Exp
	if oracle != nil {
		if price, err = oracle.PriceOf(ctx, market.Asset); err != nil {
			log.WithError(err).Debugln("oracle.PriceOf")
			price = number.Exp{}
		}
	}

	return views.MarketView(market, cash, price)
}
