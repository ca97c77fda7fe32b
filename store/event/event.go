package event

import (
	"context"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type event struct {
	ID                  int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT"`
	TraceID             string          `sql:"size:36;unique_index:event_trace_idx"`
	Action              string          `sql:"size:32"`
	Account             string          `sql:"size:64;index:event_account_idx"`
	Asset               string          `sql:"size:64"`
	Amount              decimal.Decimal `sql:"type:numeric(78,0)"`
	StartingBalance     decimal.Decimal `sql:"type:numeric(78,0)"`
	NewBalance          decimal.Decimal `sql:"type:numeric(78,0)"`
	BorrowAmountWithFee decimal.Decimal `sql:"type:numeric(78,0)"`
	Block               int64           `sql:"default:0"`
	Data                types.JSONText  `sql:"type:TEXT"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP"`
}

func (event) TableName() string {
	return "events"
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(event{})
		if err := tx.AutoMigrate(event{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{db: db}
}

type eventStore struct {
	db *db.DB
}

func (s *eventStore) Create(_ context.Context, e *core.Event) error {
	row := fromEvent(e)
	if err := s.db.Update().Where("trace_id = ?", row.TraceID).FirstOrCreate(row).Error; err != nil {
		return err
	}

	e.ID = row.ID
	return nil
}

func (s *eventStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Event, error) {
	return s.ListByAccount(ctx, "", fromID, limit)
}

func (s *eventStore) ListByAccount(_ context.Context, account string, fromID int64, limit int) ([]*core.Event, error) {
	query := s.db.View().Where("id > ?", fromID)
	if account != "" {
		query = query.Where("account = ?", account)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*event
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]*core.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toCore()
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	return events, nil
}

func fromEvent(e *core.Event) *event {
	return &event{
		TraceID:             e.TraceID,
		Action:              string(e.Action),
		Account:             e.Account,
		Asset:               e.Asset,
		Amount:              number.FromMantissa(e.Amount, 0),
		StartingBalance:     number.FromMantissa(e.StartingBalance, 0),
		NewBalance:          number.FromMantissa(e.NewBalance, 0),
		BorrowAmountWithFee: number.FromMantissa(e.BorrowAmountWithFee, 0),
		Block:               e.Block,
		Data:                e.Data,
		CreatedAt:           e.CreatedAt,
	}
}

func (row *event) toCore() (*core.Event, error) {
	amounts := []decimal.Decimal{row.Amount, row.StartingBalance, row.NewBalance, row.BorrowAmountWithFee}
	values := make([]uint256.Int, len(amounts))
	for idx, d := range amounts {
		v, err := number.ToUint(d, 0)
		if err != nil {
			return nil, err
		}

		values[idx] = v
	}

	return &core.Event{
		ID:                  row.ID,
		TraceID:             row.TraceID,
		Action:              core.Action(row.Action),
		Account:             row.Account,
		Asset:               row.Asset,
		Amount:              values[0],
		StartingBalance:     values[1],
		NewBalance:          values[2],
		BorrowAmountWithFee: values[3],
		Block:               row.Block,
		Data:                row.Data,
		CreatedAt:           row.CreatedAt,
	}, nil
}
