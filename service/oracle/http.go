package oracle

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// PriceTicker price ticker
type PriceTicker struct {
	Asset string          `json:"asset,omitempty"`
	Price decimal.Decimal `json:"price,omitempty"`
}

type httpOracle struct {
	endpoint string
}

// NewHTTP oracle pulling {endpoint}/api/tickers/{asset}
func NewHTTP(endpoint string) core.PriceOracle {
	return &httpOracle{endpoint: endpoint}
}

// PriceOf a 404 means no price
func (o *httpOracle) PriceOf(ctx context.Context, asset string) (number.Exp, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", o.endpoint, asset)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return number.Exp{}, err
	}

	var ticker PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		if resthttp.IsNotFound(err) {
			return number.Exp{}, nil
		}

		return number.Exp{}, err
	}

	if !ticker.Price.IsPositive() {
		return number.Exp{}, nil
	}

	mantissa, err := number.ToUint(ticker.Price, number.ExpDecimals)
	if err != nil {
		return number.Exp{}, err
	}

	return number.Exp{Mantissa: mantissa}, nil
}
