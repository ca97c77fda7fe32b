package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moneymarket/core"
	"moneymarket/handler"
	"moneymarket/worker/liquidity"
	"moneymarket/worker/priceoracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run moneymarket api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		store, events := provideStores()
		tokens := provideTokens()
		oracles := provideOracles()
		blocks := provideBlockService()
		ledger := provideLedger(store, events, tokens, oracles, blocks)
		exec := provideExecutor()

		if err := supportMarkets(ctx, ledger, store); err != nil {
			log.WithError(err).Fatalln("support markets")
		}

		monitor, err := liquidity.New(cfg.Monitor.Spec, ledger, events)
		if err != nil {
			log.WithError(err).Fatalln("liquidity.New")
		}

		prices, err := priceoracle.New(cfg.Monitor.Spec, ledger, store, oracles)
		if err != nil {
			log.WithError(err).Fatalln("priceoracle.New")
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: handler.New(ledger, store, events, tokens, oracles, blocks, provideSession(), exec, rootCmd.Version).Handler(),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return exec.Run(ctx)
		})

		g.Go(func() error {
			return monitor.Run(ctx)
		})

		g.Go(func() error {
			return prices.Run(ctx)
		})

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			return server.Shutdown(ctx)
		})

		g.Go(func() error {
			log.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}

			return nil
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("server aborted")
		}
	},
}

// supportMarkets lists the configured markets not supported yet
func supportMarkets(ctx context.Context, ledger core.Ledger, store core.LedgerStore) error {
	log := logger.FromContext(ctx)

	p, err := ledger.Parameters(ctx)
	if err != nil {
		return err
	}

	for _, m := range cfg.Markets {
		market, err := store.FindMarket(ctx, m.Asset)
		if err != nil {
			return err
		}

		if market.IsSupported || market.Suspended {
			continue
		}

		if err := ledger.SupportMarket(ctx, p.Admin, m.Asset, m.RateModel); err != nil {
			log.WithError(err).Errorln("support market", m.Asset)
			continue
		}

		log.Infoln("market supported", m.Asset, m.RateModel)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
