package ledger

import (
	"context"

	"moneymarket/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(market{})
		if err := tx.AutoMigrate(market{}).Error; err != nil {
			return err
		}

		tx = db.Update().Model(balance{})
		if err := tx.AutoMigrate(balance{}).Error; err != nil {
			return err
		}

		tx = db.Update().Model(parameters{})
		if err := tx.AutoMigrate(parameters{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type ledgerStore struct {
	db *db.DB
}

// New new ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) FindMarket(_ context.Context, asset string) (*core.Market, error) {
	var m market
	if err := s.db.View().Where("asset = ?", asset).First(&m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Market{Asset: asset}, nil
		}

		return nil, err
	}

	return m.toCore()
}

func (s *ledgerStore) ListMarkets(_ context.Context) ([]*core.Market, error) {
	var rows []*market
	if err := s.db.View().Order("asset").Find(&rows).Error; err != nil {
		return nil, err
	}

	markets := make([]*core.Market, 0, len(rows))
	for _, row := range rows {
		m, err := row.toCore()
		if err != nil {
			return nil, err
		}

		markets = append(markets, m)
	}

	return markets, nil
}

func (s *ledgerStore) FindBalance(_ context.Context, account, asset string, side core.Side) (*core.Balance, error) {
	var b balance
	if err := s.db.View().Where("account = ? AND asset = ? AND side = ?", account, asset, side).First(&b).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Balance{Account: account, Asset: asset, Side: side}, nil
		}

		return nil, err
	}

	return b.toCore()
}

func (s *ledgerStore) ListBalances(_ context.Context, account string) ([]*core.Balance, error) {
	var rows []*balance
	if err := s.db.View().
		Where("account = ? AND principal > 0", account).
		Order("asset, side").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	balances := make([]*core.Balance, 0, len(rows))
	for _, row := range rows {
		b, err := row.toCore()
		if err != nil {
			return nil, err
		}

		balances = append(balances, b)
	}

	return balances, nil
}

func (s *ledgerStore) FindParameters(_ context.Context) (*core.RiskParameters, error) {
	var p parameters
	if err := s.db.View().Where("id = ?", parametersID).First(&p).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return p.toCore()
}

func (s *ledgerStore) Commit(_ context.Context, cp *core.Checkpoint) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, m := range cp.Markets {
			if err := saveMarket(tx, fromMarket(m)); err != nil {
				return err
			}
		}

		for _, b := range cp.Balances {
			if err := saveBalance(tx, fromBalance(b)); err != nil {
				return err
			}
		}

		if cp.Parameters != nil {
			p, err := fromParameters(cp.Parameters)
			if err != nil {
				return err
			}

			if err := saveParameters(tx, p); err != nil {
				return err
			}
		}

		return nil
	})
}

// saveMarket updates the row of the asset, bumping its version, or creates it
func saveMarket(tx *db.DB, m *market) error {
	updates := m.updates()
	updates["version"] = gorm.Expr("version + 1")

	result := tx.Update().Model(market{}).Where("asset = ?", m.Asset).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		return nil
	}

	return tx.Update().Create(m).Error
}

func saveBalance(tx *db.DB, b *balance) error {
	updates := b.updates()
	updates["version"] = gorm.Expr("version + 1")

	result := tx.Update().Model(balance{}).
		Where("account = ? AND asset = ? AND side = ?", b.Account, b.Asset, b.Side).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		return nil
	}

	return tx.Update().Create(b).Error
}

func saveParameters(tx *db.DB, p *parameters) error {
	updates := p.updates()
	updates["version"] = gorm.Expr("version + 1")

	result := tx.Update().Model(parameters{}).Where("id = ?", parametersID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		return nil
	}

	return tx.Update().Create(p).Error
}
