package oracle

import (
	"context"
	"sync"

	"moneymarket/core"
	"moneymarket/pkg/number"
)

// StaticOracle prices held in memory, set by the operator
type StaticOracle struct {
	mux    sync.RWMutex
	prices map[string]number.Exp
}

var _ core.PriceOracle = (*StaticOracle)(nil)

// NewStatic new static oracle
func NewStatic(prices map[string]number.Exp) *StaticOracle {
	o := &StaticOracle{prices: make(map[string]number.Exp, len(prices))}
	for asset, price := range prices {
		o.prices[asset] = price
	}

	return o
}

// ParseStatic static oracle from decimal prices
func ParseStatic(prices map[string]string) (*StaticOracle, error) {
	parsed := make(map[string]number.Exp, len(prices))
	for asset, v := range prices {
		price, err := number.ParseExp(v)
		if err != nil {
			return nil, err
		}

		parsed[asset] = price
	}

	return NewStatic(parsed), nil
}

// SetPrice zero removes the price
func (o *StaticOracle) SetPrice(asset string, price number.Exp) {
	o.mux.Lock()
	defer o.mux.Unlock()

	o.prices[asset] = price
}

// PriceOf zero when unknown
func (o *StaticOracle) PriceOf(_ context.Context, asset string) (number.Exp, error) {
	o.mux.RLock()
	defer o.mux.RUnlock()

	return o.prices[asset], nil
}
