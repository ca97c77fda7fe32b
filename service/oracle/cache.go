package oracle

import (
	"context"
	"fmt"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches prices of oracle for exp, concurrent misses share one request
func Cache(oracle core.PriceOracle, exp time.Duration) core.PriceOracle {
	return &cacheOracle{
		PriceOracle: oracle,
		cache:       gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheOracle struct {
	core.PriceOracle
	cache gcache.Cache
	sf    *singleflight.Group
}

func (o *cacheOracle) PriceOf(ctx context.Context, asset string) (number.Exp, error) {
	key := o.priceKey(asset)
	if v, err := o.cache.Get(key); err == nil {
		if price, ok := v.(number.Exp); ok {
			return price, nil
		}
	}

	v, err, _ := o.sf.Do(key, func() (interface{}, error) {
		price, err := o.PriceOracle.PriceOf(ctx, asset)
		if err != nil {
			return nil, err
		}

		// missing prices are not cached
		if !price.IsZero() {
			_ = o.cache.Set(key, price)
		}

		return price, nil
	})
	if err != nil {
		return number.Exp{}, err
	}

	return v.(number.Exp), nil
}

func (o *cacheOracle) priceKey(asset string) string {
	return fmt.Sprintf("price:asset:%s", asset)
}
