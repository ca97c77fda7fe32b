package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config moneymarket config
type Config struct {
	App        App               `json:"app"`
	DB         db.Config         `json:"db"`
	Params     Params            `json:"params"`
	Oracles    []OracleConfig    `json:"oracles"`
	Token      TokenConfig       `json:"token"`
	RateModels []RateModelConfig `json:"rate_models"`
	Markets    []MarketConfig    `json:"markets"`
	Executor   ExecutorConfig    `json:"executor"`
	Auth       AuthConfig        `json:"auth"`
	Monitor    MonitorConfig     `json:"monitor"`
}

// App app config
type App struct {
	// memory or db
	Store           string `json:"store" valid:"in(memory|db)"`
	Genesis         int64  `json:"genesis"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
}

// Params initial risk parameters, used only when none are stored yet
type Params struct {
	Admin               string `json:"admin"`
	Oracle              string `json:"oracle"`
	CollateralRatio     string `json:"collateral_ratio" valid:"float"`
	OriginationFee      string `json:"origination_fee" valid:"float"`
	LiquidationDiscount string `json:"liquidation_discount" valid:"float"`
}

// OracleConfig price oracle config
type OracleConfig struct {
	Name string `json:"name" valid:"required"`
	// http polling oracle when set, static prices otherwise
	EndPoint string `json:"end_point" valid:"url,optional"`
	// seconds a polled price stays cached
	CacheTTL int64 `json:"cache_ttl"`
	// asset => decimal price
	Prices map[string]string `json:"prices"`
}

// TokenConfig token adapter config
type TokenConfig struct {
	// custody http endpoint, the in memory vault is used when empty
	EndPoint string `json:"end_point" valid:"url,optional"`
	// ledger account in the vault
	Holder string `json:"holder"`
	// account => asset => initial vault balance
	Faucet map[string]map[string]string `json:"faucet"`
}

// RateModelConfig jump rate model, annual rates
type RateModelConfig struct {
	Name           string `json:"name" valid:"required"`
	BaseRate       string `json:"base_rate" valid:"float"`
	Multiplier     string `json:"multiplier" valid:"float"`
	JumpMultiplier string `json:"jump_multiplier" valid:"float"`
	Kink           string `json:"kink" valid:"float"`
	ReserveFactor  string `json:"reserve_factor" valid:"float"`
}

// MarketConfig market supported at startup
type MarketConfig struct {
	Asset     string `json:"asset" valid:"required"`
	RateModel string `json:"rate_model" valid:"required"`
}

// ExecutorConfig executor queue config
type ExecutorConfig struct {
	Capacity int `json:"capacity"`
}

// AuthConfig api access tokens, HS256 signed with subject as the account
type AuthConfig struct {
	// api is read only without a secret
	Secret  string   `json:"secret"`
	Issuers []string `json:"issuers"`
	// cached tokens, no cache when 0
	Capacity int `json:"capacity"`
}

// MonitorConfig liquidity monitor
type MonitorConfig struct {
	// cron spec, like "@every 30s"
	Spec string `json:"spec"`
}
