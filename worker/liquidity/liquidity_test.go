package liquidity

import (
	"context"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/service/block"
	"moneymarket/service/ledger"
	"moneymarket/service/oracle"
	"moneymarket/service/ratemodel"
	"moneymarket/service/token"
	"moneymarket/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortfallReport(t *testing.T) {
	ctx := context.Background()

	model, err := ratemodel.New(core.RateModelConfig{Name: "flat", BaseRate: "0"})
	require.NoError(t, err)

	events := memory.NewEventStore()
	vault := token.NewVault("ledger")
	prices := oracle.NewStatic(map[string]number.Exp{
		"usd": number.One,
		"eur": number.One,
	})

	l := ledger.New(
		memory.NewLedgerStore(),
		events,
		vault,
		core.PriceOracles{"static": prices},
		core.RateModels{"flat": model},
		block.NewManual(1),
		core.DefaultRiskParameters("admin", "static"),
	)

	for _, asset := range []string{"usd", "eur"} {
		require.NoError(t, l.SupportMarket(ctx, "admin", asset, "flat"))
	}

	fund := func(account, asset string, amount uint64) {
		require.NoError(t, vault.Mint(asset, account, number.Uint(amount)))
		vault.Approve(asset, account, number.MaxUint)
		_, err := l.Supply(ctx, account, asset, number.Uint(amount))
		require.NoError(t, err)
	}

	fund("lender", "eur", 1000)
	fund("alice", "usd", 1000)
	fund("bob", "usd", 1000)

	_, err = l.Borrow(ctx, "alice", "eur", number.Uint(500))
	require.NoError(t, err)
	_, err = l.Borrow(ctx, "bob", "eur", number.Uint(100))
	require.NoError(t, err)

	w, err := New("@every 1h", l, events)
	require.NoError(t, err)

	require.NoError(t, w.onWork(ctx))
	assert.Empty(t, w.Shortfall())

	prices.SetPrice("usd", number.MustParseExp("0.5"))
	require.NoError(t, w.onWork(ctx))
	assert.Equal(t, []string{"alice"}, w.Shortfall())
	assert.Len(t, w.borrowers, 2)
}
