package core

import (
	"moneymarket/pkg/number"
)

var (
	// MinimumCollateralRatio 1.1
	MinimumCollateralRatio = number.MustParseExp("1.1")
	// MaximumLiquidationDiscount 0.1
	MaximumLiquidationDiscount = number.MustParseExp("0.1")
	// DefaultCollateralRatio 2.0
	DefaultCollateralRatio = number.MustParseExp("2")
)

// RiskParameters global parameters of the ledger
type RiskParameters struct {
	Admin               string     `json:"admin"`
	PendingAdmin        string     `json:"pending_admin,omitempty"`
	Oracle              string     `json:"oracle"`
	CollateralRatio     number.Exp `json:"collateral_ratio"`
	OriginationFee      number.Exp `json:"origination_fee"`
	LiquidationDiscount number.Exp `json:"liquidation_discount"`
	Paused              bool       `json:"paused"`
	// ordered, assets taking part in liquidity calculations
	CollateralMarkets []string `json:"collateral_markets"`
}

// DefaultRiskParameters collateral ratio 2, no fee, no discount
func DefaultRiskParameters(admin, oracle string) *RiskParameters {
	return &RiskParameters{
		Admin:           admin,
		Oracle:          oracle,
		CollateralRatio: DefaultCollateralRatio,
	}
}

// IsCollateralMarket asset is part of the collateral markets
func (p *RiskParameters) IsCollateralMarket(asset string) bool {
	for _, a := range p.CollateralMarkets {
		if a == asset {
			return true
		}
	}

	return false
}

// Clone deep copy
func (p *RiskParameters) Clone() *RiskParameters {
	c := *p
	c.CollateralMarkets = append([]string(nil), p.CollateralMarkets...)
	return &c
}

// Validate checks the collateral ratio and liquidation discount bounds
func (p *RiskParameters) Validate() error {
	return ValidateRiskParameters(p.CollateralRatio, p.LiquidationDiscount)
}

// ValidateRiskParameters collateral_ratio >= 1.1, liquidation_discount <= 0.1,
// collateral_ratio > liquidation_discount + 1
func ValidateRiskParameters(collateralRatio, liquidationDiscount number.Exp) error {
	if collateralRatio.LessThan(MinimumCollateralRatio) {
		return ErrInvalidCollateralRatio
	}

	if MaximumLiquidationDiscount.LessThan(liquidationDiscount) {
		return ErrInvalidLiquidationDiscount
	}

	discountPlusOne, err := number.AddExp(liquidationDiscount, number.One)
	if err != nil {
		return err
	}

	if collateralRatio.LessThanOrEqual(discountPlusOne) {
		return ErrInvalidCombinedRiskParameters
	}

	return nil
}
