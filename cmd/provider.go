package cmd

import (
	"time"

	"moneymarket/core"
	"moneymarket/pkg/compound"
	"moneymarket/pkg/number"
	"moneymarket/service/block"
	"moneymarket/service/ledger"
	"moneymarket/service/oracle"
	"moneymarket/service/ratemodel"
	"moneymarket/service/session"
	"moneymarket/service/token"
	"moneymarket/worker/executor"

	"github.com/sirupsen/logrus"
)

// ------------------service------------------------------------

func provideBlockService() core.BlockService {
	compound.SetupGenesis(cfg.App.Genesis)
	compound.SecondsPerBlock = cfg.App.SecondsPerBlock
	return block.New()
}

func provideOracles() core.PriceOracles {
	oracles := core.PriceOracles{}
	for _, c := range cfg.Oracles {
		if c.EndPoint != "" {
			o := oracle.NewHTTP(c.EndPoint)
			if c.CacheTTL > 0 {
				o = oracle.Cache(o, time.Duration(c.CacheTTL)*time.Second)
			}

			oracles[c.Name] = o
			continue
		}

		o, err := oracle.ParseStatic(c.Prices)
		if err != nil {
			logrus.WithError(err).Fatalln("parse prices of oracle", c.Name)
		}

		oracles[c.Name] = o
	}

	if _, ok := oracles[cfg.Params.Oracle]; !ok {
		logrus.Warnln("oracle", cfg.Params.Oracle, "not configured, using an empty static oracle")
		oracles[cfg.Params.Oracle] = oracle.NewStatic(nil)
	}

	return oracles
}

// provideTokens the custody adapter when an endpoint is configured,
// an in memory vault funded by the faucet otherwise
func provideTokens() core.TokenAdapter {
	if cfg.Token.EndPoint != "" {
		return token.NewCustody(cfg.Token.EndPoint, cfg.Token.Holder)
	}

	vault := token.NewVault(cfg.Token.Holder)
	for account, assets := range cfg.Token.Faucet {
		for asset, amount := range assets {
			v, err := number.ParseUint(amount)
			if err != nil {
				logrus.WithError(err).Fatalln("parse faucet amount", account, asset)
			}

			if err := vault.Mint(asset, account, v); err != nil {
				logrus.WithError(err).Fatalln("mint", account, asset)
			}

			vault.Approve(asset, account, number.MaxUint)
		}
	}

	return vault
}

func provideRateModels() core.RateModels {
	models := core.RateModels{}
	for _, c := range cfg.RateModels {
		m, err := ratemodel.New(c)
		if err != nil {
			logrus.WithError(err).Fatalln("rate model", c.Name)
		}

		models[c.Name] = m
	}

	return models
}

// provideDefaults risk parameters used until the admin commits any
func provideDefaults() *core.RiskParameters {
	p := core.DefaultRiskParameters(cfg.Params.Admin, cfg.Params.Oracle)
	p.CollateralRatio = number.MustParseExp(cfg.Params.CollateralRatio)
	p.OriginationFee = number.MustParseExp(cfg.Params.OriginationFee)
	p.LiquidationDiscount = number.MustParseExp(cfg.Params.LiquidationDiscount)

	if err := p.Validate(); err != nil {
		logrus.WithError(err).Fatalln("invalid risk parameters")
	}

	return p
}

func provideLedger(
	store core.LedgerStore,
	events core.EventStore,
	tokens core.TokenAdapter,
	oracles core.PriceOracles,
	blocks core.BlockService,
) core.Ledger {
	return ledger.New(store, events, tokens, oracles, provideRateModels(), blocks, provideDefaults())
}

// provideSession nil without a secret
func provideSession() core.Session {
	if cfg.Auth.Secret == "" {
		return nil
	}

	return session.New([]byte(cfg.Auth.Secret), cfg.Auth.Issuers, cfg.Auth.Capacity)
}

func provideExecutor() *executor.Executor {
	return executor.New(cfg.Executor.Capacity)
}
