package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/service/block"
	"moneymarket/service/ledger"
	"moneymarket/service/oracle"
	"moneymarket/service/ratemodel"
	"moneymarket/service/session"
	"moneymarket/service/token"
	"moneymarket/store/memory"
	"moneymarket/worker/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("handler-test")

type testServer struct {
	t     *testing.T
	url   string
	vault *token.Vault
}

func newTestServer(t *testing.T) *testServer {
	jump, err := ratemodel.New(core.RateModelConfig{
		Name:          "jump",
		BaseRate:      "0.1",
		Multiplier:    "0.5",
		Kink:          "0.8",
		ReserveFactor: "0.1",
	})
	require.NoError(t, err)

	var (
		store   = memory.NewLedgerStore()
		events  = memory.NewEventStore()
		vault   = token.NewVault("ledger")
		blocks  = block.NewManual(100)
		oracles = core.PriceOracles{
			"static": oracle.NewStatic(map[string]number.Exp{"usd": number.One}),
		}
	)

	l := ledger.New(store, events, vault, oracles, core.RateModels{"jump": jump}, blocks, core.DefaultRiskParameters("admin", "static"))

	ctx, cancel := context.WithCancel(context.Background())
	exec := executor.New(8)
	go exec.Run(ctx)

	srv := httptest.NewServer(New(l, store, events, vault, oracles, blocks, session.New(secret, nil, 0), exec, "test").Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return &testServer{t: t, url: srv.URL, vault: vault}
}

func (s *testServer) do(method, path, account string, body interface{}) (int, map[string]json.RawMessage) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.url+path, &buf)
	require.NoError(s.t, err)

	if account != "" {
		token, err := session.Sign(secret, "", account, time.Minute)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRestAPI(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodPost, "/api/admin/support-market", "alice", map[string]string{"asset": "usd", "rate_model": "jump"})
	assert.Equal(t, http.StatusForbidden, status)

	status, out := s.do(http.MethodPost, "/api/admin/support-market", "admin", map[string]string{"asset": "usd", "rate_model": "jump"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"action":"support_market","status":"applied"}`, string(out["data"]))

	require.NoError(t, s.vault.Mint("usd", "alice", number.Uint(1000)))
	s.vault.Approve("usd", "alice", number.MaxUint)

	status, out = s.do(http.MethodPost, "/api/actions/supply", "", map[string]string{"asset": "usd", "amount": "1000"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "10002", string(out["code"]))

	status, out = s.do(http.MethodPost, "/api/actions/supply", "alice", map[string]string{"asset": "usd", "amount": "1000"})
	require.Equal(t, http.StatusOK, status)

	var event struct {
		Action  string `json:"action"`
		Account string `json:"account"`
		Amount  string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(out["data"], &event))
	assert.Equal(t, "supply", event.Action)
	assert.Equal(t, "alice", event.Account)
	assert.Equal(t, "1000", event.Amount)

	status, out = s.do(http.MethodPost, "/api/actions/borrow", "alice", map[string]string{"asset": "usd", "amount": "all"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, core.ErrInvalidAmount.String(), string(out["code"]))

	status, out = s.do(http.MethodGet, "/api/markets", "", nil)
	require.Equal(t, http.StatusOK, status)

	var markets []struct {
		Asset       string `json:"asset"`
		TotalSupply string `json:"total_supply"`
		Cash        string `json:"cash"`
		Price       string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(out["data"], &markets))
	require.Len(t, markets, 1)
	assert.Equal(t, "usd", markets[0].Asset)
	assert.Equal(t, "1000", markets[0].TotalSupply)
	assert.Equal(t, "1000", markets[0].Cash)
	assert.Equal(t, "1", markets[0].Price)

	status, _ = s.do(http.MethodGet, "/api/markets/eur", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, out = s.do(http.MethodGet, "/api/accounts/alice/balances", "", nil)
	require.Equal(t, http.StatusOK, status)

	var balances []struct {
		Asset   string `json:"asset"`
		Side    string `json:"side"`
		Current string `json:"current"`
	}
	require.NoError(t, json.Unmarshal(out["data"], &balances))
	require.Len(t, balances, 1)
	assert.Equal(t, "supply", balances[0].Side)
	assert.Equal(t, "1000", balances[0].Current)

	status, out = s.do(http.MethodGet, "/api/events?limit=10", "", nil)
	require.Equal(t, http.StatusOK, status)

	var events []struct {
		ID     int64  `json:"id"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(out["data"], &events))
	require.Len(t, events, 2)
	assert.Equal(t, "support_market", events[0].Action)
	assert.Equal(t, "supply", events[1].Action)

	status, out = s.do(http.MethodGet, "/hc", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "100", string(out["block"]))
}
