package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or update the markets, balances, risk_parameters and events tables",
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.FromContext(cmd.Context())

		if cfg.App.Store != "db" {
			log.Fatalln("migrate needs the db store")
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.WithError(err).Fatalln("db.Migrate")
		}

		log.Infoln("ledger tables migrated on", cfg.DB.Dialect)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
