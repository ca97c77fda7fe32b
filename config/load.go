package config

import (
	"moneymarket/core"
)

const (
	defaultSecondsPerBlock = 15
	defaultCapacity        = 64
	defaultMonitorSpec     = "@every 30s"
	defaultOracle          = "static"
)

func defaultConfig(cfg *core.Config) {
	if cfg.App.Store == "" {
		cfg.App.Store = "memory"
	}

	if cfg.App.SecondsPerBlock <= 0 {
		cfg.App.SecondsPerBlock = defaultSecondsPerBlock
	}

	if cfg.Params.CollateralRatio == "" {
		cfg.Params.CollateralRatio = core.DefaultCollateralRatio.String()
	}

	if cfg.Params.OriginationFee == "" {
		cfg.Params.OriginationFee = "0"
	}

	if cfg.Params.LiquidationDiscount == "" {
		cfg.Params.LiquidationDiscount = "0"
	}

	if cfg.Token.Holder == "" {
		cfg.Token.Holder = "moneymarket"
	}

	if cfg.Executor.Capacity <= 0 {
		cfg.Executor.Capacity = defaultCapacity
	}

	if cfg.Monitor.Spec == "" {
		cfg.Monitor.Spec = defaultMonitorSpec
	}

	if cfg.Params.Oracle == "" {
		cfg.Params.Oracle = defaultOracle
	}
}
