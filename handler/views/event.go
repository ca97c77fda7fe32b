package views

import (
	"encoding/json"
	"time"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/shopspring/decimal"
)

// Event audit event view
type Event struct {
	ID                  int64           `json:"id"`
	TraceID             string          `json:"trace_id"`
	Action              core.Action     `json:"action"`
	Account             string          `json:"account"`
	Asset               string          `json:"asset,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	StartingBalance     decimal.Decimal `json:"starting_balance"`
	NewBalance          decimal.Decimal `json:"new_balance"`
	BorrowAmountWithFee decimal.Decimal `json:"borrow_amount_with_fee"`
	Block               int64           `json:"block"`
	Data                json.RawMessage `json:"data,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func EventView(e *core.Event) *Event {
	v := &Event{
		ID:                  e.ID,
		TraceID:             e.TraceID,
		Action:              e.Action,
		Account:             e.Account,
		Asset:               e.Asset,
		Amount:              number.FromMantissa(e.Amount, 0),
		StartingBalance:     number.FromMantissa(e.StartingBalance, 0),
		NewBalance:          number.FromMantissa(e.NewBalance, 0),
		BorrowAmountWithFee: number.FromMantissa(e.BorrowAmountWithFee, 0),
		Block:               e.Block,
		CreatedAt:           e.CreatedAt,
	}

	if len(e.Data) > 0 {
		v.Data = json.RawMessage(e.Data)
	}

	return v
}

// EventViews views of events
func EventViews(events []*core.Event) []*Event {
	views := make([]*Event, 0, len(events))
	for _, e := range events {
		views = append(views, EventView(e))
	}

	return views
}
