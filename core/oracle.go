package core

import (
	"context"

	"moneymarket/pkg/number"
)

// PriceOracle price of an asset scaled by 1e18, zero means no price
type PriceOracle interface {
	PriceOf(ctx context.Context, asset string) (number.Exp, error)
}

// PriceOracles oracles by name
type PriceOracles map[string]PriceOracle
