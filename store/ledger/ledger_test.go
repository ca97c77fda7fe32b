package ledger

import (
	"context"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*db.DB, core.LedgerStore) {
	dbs, err := db.Open(db.SqliteInMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbs.Close() })

	// every connection of an in-memory sqlite is a database of its own
	dbs.Update().DB().SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(dbs))
	return dbs, New(dbs)
}

func TestLedgerStore(t *testing.T) {
	ctx := context.Background()
	_, s := openStore(t)

	t.Run("absent records are zero valued", func(t *testing.T) {
		m, err := s.FindMarket(ctx, "usd")
		require.NoError(t, err)
		assert.Equal(t, &core.Market{Asset: "usd"}, m)

		b, err := s.FindBalance(ctx, "alice", "usd", core.SideSupply)
		require.NoError(t, err)
		assert.True(t, b.Principal.IsZero())

		p, err := s.FindParameters(ctx)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	market := &core.Market{
		Asset:            "usd",
		IsSupported:      true,
		LastAccrualBlock: 10,
		RateModel:        "jump",
		TotalSupply:      number.Uint(1000),
		SupplyIndex:      number.One,
		BorrowIndex:      number.One,
	}
	balance := &core.Balance{
		Account:       "alice",
		Asset:         "usd",
		Side:          core.SideSupply,
		Principal:     number.Uint(1000),
		InterestIndex: number.One,
	}

	t.Run("commit creates rows", func(t *testing.T) {
		require.NoError(t, s.Commit(ctx, &core.Checkpoint{
			Markets:  []*core.Market{market},
			Balances: []*core.Balance{balance},
		}))

		m, err := s.FindMarket(ctx, "usd")
		require.NoError(t, err)
		assert.Equal(t, market, m)

		b, err := s.FindBalance(ctx, "alice", "usd", core.SideSupply)
		require.NoError(t, err)
		assert.Equal(t, balance, b)
	})

	t.Run("commit updates rows in place", func(t *testing.T) {
		market.TotalSupply = number.Uint(400)
		market.LastAccrualBlock = 12
		balance.Principal = number.Uint(0)

		require.NoError(t, s.Commit(ctx, &core.Checkpoint{
			Markets:  []*core.Market{market},
			Balances: []*core.Balance{balance},
		}))

		markets, err := s.ListMarkets(ctx)
		require.NoError(t, err)
		require.Len(t, markets, 1)
		assert.Equal(t, market, markets[0])

		b, err := s.FindBalance(ctx, "alice", "usd", core.SideSupply)
		require.NoError(t, err)
		assert.True(t, b.Principal.IsZero())

		balances, err := s.ListBalances(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, balances, "zero principals are not listed")
	})
}

func TestLedgerStoreVersion(t *testing.T) {
	ctx := context.Background()
	dbs, s := openStore(t)

	m := &core.Market{Asset: "usd", SupplyIndex: number.One, BorrowIndex: number.One}
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Commit(ctx, &core.Checkpoint{Markets: []*core.Market{m}}))
	}

	var row market
	require.NoError(t, dbs.View().Where("asset = ?", "usd").First(&row).Error)
	assert.EqualValues(t, 2, row.Version)
}

func TestLedgerStoreParameters(t *testing.T) {
	ctx := context.Background()
	_, s := openStore(t)

	p := core.DefaultRiskParameters(uuid.Must(uuid.NewV4()).String(), "static")
	p.OriginationFee = number.MustParseExp("0.001")
	p.LiquidationDiscount = number.MustParseExp("0.05")
	for i := 0; i < 16; i++ {
		p.CollateralMarkets = append(p.CollateralMarkets, uuid.Must(uuid.NewV4()).String())
	}

	require.NoError(t, s.Commit(ctx, &core.Checkpoint{Parameters: p}))

	got, err := s.FindParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	next := p.Clone()
	next.Paused = true
	next.PendingAdmin = "bob"
	next.CollateralMarkets = next.CollateralMarkets[:2]
	require.NoError(t, s.Commit(ctx, &core.Checkpoint{Parameters: next}))

	got, err = s.FindParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)
}

func TestLedgerStoreCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	dbs, s := openStore(t)

	require.NoError(t, dbs.Update().DropTable(balance{}).Error)

	err := s.Commit(ctx, &core.Checkpoint{
		Markets:    []*core.Market{{Asset: "usd", IsSupported: true}},
		Balances:   []*core.Balance{{Account: "alice", Asset: "usd", Principal: number.Uint(1)}},
		Parameters: core.DefaultRiskParameters("admin", "static"),
	})
	require.Error(t, err)

	m, err := s.FindMarket(ctx, "usd")
	require.NoError(t, err)
	assert.False(t, m.IsSupported)

	p, err := s.FindParameters(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
