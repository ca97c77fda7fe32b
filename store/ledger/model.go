package ledger

import (
	"encoding/json"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fatih/structs"
	"github.com/holiman/uint256"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type market struct {
	ID               int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" structs:"-"`
	Asset            string          `sql:"size:64;unique_index:market_asset_idx" structs:"-"`
	IsSupported      bool            `sql:"default:false" structs:"is_supported"`
	Suspended        bool            `sql:"default:false" structs:"suspended"`
	LastAccrualBlock int64           `sql:"default:0" structs:"last_accrual_block"`
	RateModel        string          `sql:"size:64" structs:"rate_model"`
	TotalSupply      decimal.Decimal `sql:"type:numeric(78,0)" structs:"total_supply,omitnested"`
	TotalBorrows     decimal.Decimal `sql:"type:numeric(78,0)" structs:"total_borrows,omitnested"`
	// mantissas scaled by 1e18
	SupplyRate  decimal.Decimal `sql:"type:numeric(78,0)" structs:"supply_rate,omitnested"`
	BorrowRate  decimal.Decimal `sql:"type:numeric(78,0)" structs:"borrow_rate,omitnested"`
	SupplyIndex decimal.Decimal `sql:"type:numeric(78,0)" structs:"supply_index,omitnested"`
	BorrowIndex decimal.Decimal `sql:"type:numeric(78,0)" structs:"borrow_index,omitnested"`
	Version     int64           `sql:"default:0" structs:"-"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
}

func (market) TableName() string {
	return "markets"
}

type balance struct {
	ID            int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" structs:"-"`
	Account       string          `sql:"size:64;unique_index:balance_idx" structs:"-"`
	Asset         string          `sql:"size:64;unique_index:balance_idx" structs:"-"`
	Side          core.Side       `sql:"unique_index:balance_idx" structs:"-"`
	Principal     decimal.Decimal `sql:"type:numeric(78,0)" structs:"principal,omitnested"`
	InterestIndex decimal.Decimal `sql:"type:numeric(78,0)" structs:"interest_index,omitnested"`
	Version       int64           `sql:"default:0" structs:"-"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
	UpdatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
}

func (balance) TableName() string {
	return "balances"
}

func integer(v uint256.Int) decimal.Decimal {
	return number.FromMantissa(v, 0)
}

func mantissa(e number.Exp) decimal.Decimal {
	return integer(e.Mantissa)
}

// decoder keeps the first conversion error
type decoder struct {
	err error
}

func (d *decoder) uint(v decimal.Decimal) uint256.Int {
	if d.err != nil {
		return uint256.Int{}
	}

	u, err := number.ToUint(v, 0)
	d.err = err
	return u
}

func (d *decoder) exp(v decimal.Decimal) number.Exp {
	return number.Exp{Mantissa: d.uint(v)}
}

func fromMarket(m *core.Market) *market {
	return &market{
		Asset:            m.Asset,
		IsSupported:      m.IsSupported,
		Suspended:        m.Suspended,
		LastAccrualBlock: m.LastAccrualBlock,
		RateModel:        m.RateModel,
		TotalSupply:      integer(m.TotalSupply),
		TotalBorrows:     integer(m.TotalBorrows),
		SupplyRate:       mantissa(m.SupplyRate),
		BorrowRate:       mantissa(m.BorrowRate),
		SupplyIndex:      mantissa(m.SupplyIndex),
		BorrowIndex:      mantissa(m.BorrowIndex),
	}
}

// updates columns written on every commit, zero values included
func (m *market) updates() map[string]interface{} {
	return structs.Map(m)
}

func (m *market) toCore() (*core.Market, error) {
	var d decoder
	c := &core.Market{
		Asset:            m.Asset,
		IsSupported:      m.IsSupported,
		Suspended:        m.Suspended,
		LastAccrualBlock: m.LastAccrualBlock,
		RateModel:        m.RateModel,
		TotalSupply:      d.uint(m.TotalSupply),
		TotalBorrows:     d.uint(m.TotalBorrows),
		SupplyRate:       d.exp(m.SupplyRate),
		BorrowRate:       d.exp(m.BorrowRate),
		SupplyIndex:      d.exp(m.SupplyIndex),
		BorrowIndex:      d.exp(m.BorrowIndex),
	}

	return c, d.err
}

func fromBalance(b *core.Balance) *balance {
	return &balance{
		Account:       b.Account,
		Asset:         b.Asset,
		Side:          b.Side,
		Principal:     integer(b.Principal),
		InterestIndex: mantissa(b.InterestIndex),
	}
}

func (b *balance) updates() map[string]interface{} {
	return structs.Map(b)
}

func (b *balance) toCore() (*core.Balance, error) {
	var d decoder
	c := &core.Balance{
		Account:       b.Account,
		Asset:         b.Asset,
		Side:          b.Side,
		Principal:     d.uint(b.Principal),
		InterestIndex: d.exp(b.InterestIndex),
	}

	return c, d.err
}

// parametersID the single row holding the risk parameters
const parametersID = 1

type parameters struct {
	ID           int64  `sql:"PRIMARY_KEY" structs:"-"`
	Admin        string `sql:"size:64" structs:"admin"`
	PendingAdmin string `sql:"size:64" structs:"pending_admin"`
	Oracle       string `sql:"size:64" structs:"oracle"`
	// mantissas scaled by 1e18
	CollateralRatio     decimal.Decimal `sql:"type:numeric(78,0)" structs:"collateral_ratio,omitnested"`
	OriginationFee      decimal.Decimal `sql:"type:numeric(78,0)" structs:"origination_fee,omitnested"`
	LiquidationDiscount decimal.Decimal `sql:"type:numeric(78,0)" structs:"liquidation_discount,omitnested"`
	Paused              bool            `sql:"default:false" structs:"paused"`
	// ordered json array of assets
	CollateralMarkets types.JSONText `sql:"type:TEXT" structs:"collateral_markets,omitnested"`
	Version           int64          `sql:"default:0" structs:"-"`
	CreatedAt         time.Time      `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
	UpdatedAt         time.Time      `sql:"default:CURRENT_TIMESTAMP" structs:"-"`
}

func (parameters) TableName() string {
	return "risk_parameters"
}

func fromParameters(p *core.RiskParameters) (*parameters, error) {
	markets := p.CollateralMarkets
	if markets == nil {
		markets = []string{}
	}

	data, err := json.Marshal(markets)
	if err != nil {
		return nil, err
	}

	return &parameters{
		ID:                  parametersID,
		Admin:               p.Admin,
		PendingAdmin:        p.PendingAdmin,
		Oracle:              p.Oracle,
		CollateralRatio:     mantissa(p.CollateralRatio),
		OriginationFee:      mantissa(p.OriginationFee),
		LiquidationDiscount: mantissa(p.LiquidationDiscount),
		Paused:              p.Paused,
		CollateralMarkets:   data,
	}, nil
}

func (p *parameters) updates() map[string]interface{} {
	return structs.Map(p)
}

func (p *parameters) toCore() (*core.RiskParameters, error) {
	var d decoder
	c := &core.RiskParameters{
		Admin:               p.Admin,
		PendingAdmin:        p.PendingAdmin,
		Oracle:              p.Oracle,
		CollateralRatio:     d.exp(p.CollateralRatio),
		OriginationFee:      d.exp(p.OriginationFee),
		LiquidationDiscount: d.exp(p.LiquidationDiscount),
		Paused:              p.Paused,
	}

	if d.err != nil {
		return nil, d.err
	}

	if len(p.CollateralMarkets) > 0 {
		if err := p.CollateralMarkets.Unmarshal(&c.CollateralMarkets); err != nil {
			return nil, err
		}
	}

	return c, nil
}
