package ratemodel

import (
	"context"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/holiman/uint256"
)

// BlocksPerYear blocks per year at 15 seconds per block
var BlocksPerYear = number.Uint(2102400)

const (
	// StatusInvalidUtilization cash + borrows - reserves failed
	StatusInvalidUtilization = 1
	// StatusRateOverflow rate calculation failed
	StatusRateOverflow = 2
)

type jumpRateModel struct {
	baseRatePerBlock       number.Exp
	multiplierPerBlock     number.Exp
	jumpMultiplierPerBlock number.Exp
	kink                   number.Exp
	reserveFactor          number.Exp
}

// New new jump rate model from annual rates
func New(cfg core.RateModelConfig) (core.InterestRateModel, error) {
	var (
		m   jumpRateModel
		err error
	)

	if m.baseRatePerBlock, err = perBlock(cfg.BaseRate); err != nil {
		return nil, err
	}

	if m.multiplierPerBlock, err = perBlock(cfg.Multiplier); err != nil {
		return nil, err
	}

	if m.jumpMultiplierPerBlock, err = perBlock(cfg.JumpMultiplier); err != nil {
		return nil, err
	}

	if m.kink, err = parseOrZero(cfg.Kink); err != nil {
		return nil, err
	}

	if m.reserveFactor, err = parseOrZero(cfg.ReserveFactor); err != nil {
		return nil, err
	}

	if number.One.LessThan(m.reserveFactor) {
		return nil, core.ErrInvalidAmount
	}

	return &m, nil
}

func parseOrZero(s string) (number.Exp, error) {
	if s == "" {
		return number.Exp{}, nil
	}

	return number.ParseExp(s)
}

func perBlock(annual string) (number.Exp, error) {
	rate, err := parseOrZero(annual)
	if err != nil {
		return number.Exp{}, err
	}

	return number.DivScalar(rate, BlocksPerYear)
}

// UtilizationRate borrows / (cash + borrows - reserves), zero without borrows
func UtilizationRate(cash, borrows, reserves uint256.Int) (number.Exp, error) {
	if borrows.IsZero() {
		return number.Exp{}, nil
	}

	total, err := number.AddThenSub(cash, borrows, reserves)
	if err != nil {
		return number.Exp{}, err
	}

	if total.IsZero() {
		return number.Exp{}, nil
	}

	return number.FromRatio(borrows, total)
}

func (m *jumpRateModel) borrowRate(utilizationRate number.Exp) (number.Exp, error) {
	if m.kink.IsZero() || utilizationRate.LessThanOrEqual(m.kink) {
		slope, err := number.MulExp(utilizationRate, m.multiplierPerBlock)
		if err != nil {
			return number.Exp{}, err
		}

		return number.AddExp(slope, m.baseRatePerBlock)
	}

	normalSlope, err := number.MulExp(m.kink, m.multiplierPerBlock)
	if err != nil {
		return number.Exp{}, err
	}

	normalRate, err := number.AddExp(normalSlope, m.baseRatePerBlock)
	if err != nil {
		return number.Exp{}, err
	}

	excessUtilRate, err := number.SubExp(utilizationRate, m.kink)
	if err != nil {
		return number.Exp{}, err
	}

	jump, err := number.MulExp(excessUtilRate, m.jumpMultiplierPerBlock)
	if err != nil {
		return number.Exp{}, err
	}

	return number.AddExp(jump, normalRate)
}

// BorrowRate borrow rate per block
func (m *jumpRateModel) BorrowRate(_ context.Context, _ string, cash, borrows, reserves uint256.Int) (number.Exp, error) {
	uRate, err := UtilizationRate(cash, borrows, reserves)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusInvalidUtilization}
	}

	rate, err := m.borrowRate(uRate)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusRateOverflow}
	}

	return rate, nil
}

// SupplyRate supply rate per block
// supply_rate = utilization_rate * borrow_rate * (1 - reserve_factor)
func (m *jumpRateModel) SupplyRate(_ context.Context, _ string, cash, borrows uint256.Int) (number.Exp, error) {
	uRate, err := UtilizationRate(cash, borrows, uint256.Int{})
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusInvalidUtilization}
	}

	borrowRate, err := m.borrowRate(uRate)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusRateOverflow}
	}

	oneMinusReserveFactor, err := number.SubExp(number.One, m.reserveFactor)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusRateOverflow}
	}

	rateToPool, err := number.MulExp(borrowRate, oneMinusReserveFactor)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusRateOverflow}
	}

	rate, err := number.MulExp(uRate, rateToPool)
	if err != nil {
		return number.Exp{}, &core.RateModelError{Status: StatusRateOverflow}
	}

	return rate, nil
}
