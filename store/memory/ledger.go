package memory

import (
	"context"
	"sort"
	"sync"

	"moneymarket/core"
)

type balanceKey struct {
	account string
	asset   string
	side    core.Side
}

type ledgerStore struct {
	mux      sync.RWMutex
	markets  map[string]core.Market
	balances map[balanceKey]core.Balance
	params   *core.RiskParameters
}

// NewLedgerStore in memory ledger store
func NewLedgerStore() core.LedgerStore {
	return &ledgerStore{
		markets:  make(map[string]core.Market),
		balances: make(map[balanceKey]core.Balance),
	}
}

func (s *ledgerStore) FindMarket(_ context.Context, asset string) (*core.Market, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	market, ok := s.markets[asset]
	if !ok {
		return &core.Market{Asset: asset}, nil
	}

	return &market, nil
}

func (s *ledgerStore) ListMarkets(_ context.Context) ([]*core.Market, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	markets := make([]*core.Market, 0, len(s.markets))
	for _, m := range s.markets {
		market := m
		markets = append(markets, &market)
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].Asset < markets[j].Asset
	})

	return markets, nil
}

func (s *ledgerStore) FindBalance(_ context.Context, account, asset string, side core.Side) (*core.Balance, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	balance, ok := s.balances[balanceKey{account, asset, side}]
	if !ok {
		return &core.Balance{Account: account, Asset: asset, Side: side}, nil
	}

	return &balance, nil
}

func (s *ledgerStore) ListBalances(_ context.Context, account string) ([]*core.Balance, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var balances []*core.Balance
	for key, b := range s.balances {
		if key.account != account || b.Principal.IsZero() {
			continue
		}

		balance := b
		balances = append(balances, &balance)
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Asset == balances[j].Asset {
			return balances[i].Side < balances[j].Side
		}

		return balances[i].Asset < balances[j].Asset
	})

	return balances, nil
}

func (s *ledgerStore) FindParameters(_ context.Context) (*core.RiskParameters, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if s.params == nil {
		return nil, nil
	}

	return s.params.Clone(), nil
}

func (s *ledgerStore) Commit(_ context.Context, cp *core.Checkpoint) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, m := range cp.Markets {
		s.markets[m.Asset] = *m
	}

	for _, b := range cp.Balances {
		s.balances[balanceKey{b.Account, b.Asset, b.Side}] = *b
	}

	if cp.Parameters != nil {
		s.params = cp.Parameters.Clone()
	}

	return nil
}
