package cmd

import (
	"sync"

	"moneymarket/worker"
	"moneymarket/worker/liquidity"
	"moneymarket/worker/priceoracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the liquidity and price monitors against the database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		if cfg.App.Store != "db" {
			log.Fatalln("worker needs the db store")
		}

		store, events := provideStores()
		oracles := provideOracles()
		ledger := provideLedger(store, events, provideTokens(), oracles, provideBlockService())

		monitor, err := liquidity.New(cfg.Monitor.Spec, ledger, events)
		if err != nil {
			log.WithError(err).Fatalln("liquidity.New")
		}

		prices, err := priceoracle.New(cfg.Monitor.Spec, ledger, store, oracles)
		if err != nil {
			log.WithError(err).Fatalln("priceoracle.New")
		}

		workers := []worker.Worker{
			monitor,
			prices,
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil {
					log.WithError(err).Errorln("worker aborted")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
