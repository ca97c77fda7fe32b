package memory

import (
	"context"
	"sync"

	"moneymarket/core"
)

type eventStore struct {
	mux    sync.RWMutex
	events []*core.Event
}

// NewEventStore in memory event store
func NewEventStore() core.EventStore {
	return &eventStore{}
}

func (s *eventStore) Create(_ context.Context, event *core.Event) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	event.ID = int64(len(s.events) + 1)
	e := *event
	s.events = append(s.events, &e)
	return nil
}

func (s *eventStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Event, error) {
	return s.ListByAccount(ctx, "", fromID, limit)
}

// ListByAccount all accounts when account is empty
func (s *eventStore) ListByAccount(_ context.Context, account string, fromID int64, limit int) ([]*core.Event, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var events []*core.Event
	for _, e := range s.events {
		if e.ID <= fromID || (account != "" && e.Account != account) {
			continue
		}

		if limit > 0 && len(events) >= limit {
			break
		}

		event := *e
		events = append(events, &event)
	}

	return events, nil
}
