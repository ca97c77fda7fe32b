package cmd

import (
	"moneymarket/core"
	"moneymarket/store/event"
	"moneymarket/store/ledger"
	"moneymarket/store/memory"

	"github.com/fox-one/pkg/store/db"
	_ "github.com/lib/pq"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// provideStores ledger and event stores, in memory or on one database
func provideStores() (core.LedgerStore, core.EventStore) {
	if cfg.App.Store == "db" {
		database := provideDatabase()
		return ledger.New(database), event.New(database)
	}

	return memory.NewLedgerStore(), memory.NewEventStore()
}
