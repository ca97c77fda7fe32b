package memory

import (
	"context"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStoreZeroDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()

	market, err := s.FindMarket(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, "btc", market.Asset)
	assert.False(t, market.Listed())

	balance, err := s.FindBalance(ctx, "alice", "btc", core.SideSupply)
	require.NoError(t, err)
	assert.True(t, balance.Principal.IsZero())

	params, err := s.FindParameters(ctx)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestLedgerStoreCommit(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()

	require.NoError(t, s.Commit(ctx, &core.Checkpoint{
		Markets: []*core.Market{{Asset: "eth", SupplyIndex: number.One}, {Asset: "btc", SupplyIndex: number.One}},
		Balances: []*core.Balance{
			{Account: "alice", Asset: "btc", Side: core.SideBorrow, Principal: number.Uint(5)},
			{Account: "alice", Asset: "btc", Side: core.SideSupply, Principal: number.Uint(10)},
			{Account: "bob", Asset: "btc", Side: core.SideSupply, Principal: number.Uint(1)},
		},
		Parameters: core.DefaultRiskParameters("admin", "static"),
	}))

	markets, err := s.ListMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "btc", markets[0].Asset)

	balances, err := s.ListBalances(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, core.SideSupply, balances[0].Side)
	assert.Equal(t, number.Uint(10), balances[0].Principal)

	// returned records are copies
	markets[0].TotalSupply = number.Uint(99)
	market, _ := s.FindMarket(ctx, "btc")
	assert.True(t, market.TotalSupply.IsZero())

	params, err := s.FindParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", params.Admin)
}

func TestEventStore(t *testing.T) {
	ctx := context.Background()
	s := NewEventStore()

	for _, account := range []string{"alice", "bob", "alice"} {
		require.NoError(t, s.Create(ctx, &core.Event{Action: core.ActionSupply, Account: account}))
	}

	events, err := s.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.EqualValues(t, 1, events[0].ID)

	events, err = s.ListByAccount(ctx, "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.EqualValues(t, 3, events[0].ID)
}
