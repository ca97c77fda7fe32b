package views

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// Parameters risk parameters view
type Parameters struct {
	Admin               string          `json:"admin"`
	PendingAdmin        string          `json:"pending_admin,omitempty"`
	Oracle              string          `json:"oracle"`
	CollateralRatio     decimal.Decimal `json:"collateral_ratio"`
	OriginationFee      decimal.Decimal `json:"origination_fee"`
	LiquidationDiscount decimal.Decimal `json:"liquidation_discount"`
	Paused              bool            `json:"paused"`
	CollateralMarkets   []string        `json:"collateral_markets"`
}

func ParametersView(p *core.RiskParameters) *Parameters {
	return &Parameters{
		Admin:               p.Admin,
		PendingAdmin:        p.PendingAdmin,
		Oracle:              p.Oracle,
		CollateralRatio:     p.CollateralRatio.Decimal(),
		OriginationFee:      p.OriginationFee.Decimal(),
		LiquidationDiscount: p.LiquidationDiscount.Decimal(),
		Paused:              p.Paused,
		CollateralMarkets:   append([]string{}, p.CollateralMarkets...),
	}
}
