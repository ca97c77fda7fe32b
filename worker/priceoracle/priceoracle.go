package priceoracle

import (
	"context"
	"sort"
	"sync"

	"moneymarket/core"
	"moneymarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	priceOnce  sync.Once
	priceGauge *prometheus.GaugeVec
)

func priceMetric() *prometheus.GaugeVec {
	priceOnce.Do(func() {
		priceGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "moneymarket",
			Subsystem: "oracle",
			Name:      "asset_price",
			Help:      "Price of supported assets reported by the current oracle, zero when missing.",
		}, []string{"oracle", "asset"})

		prometheus.MustRegister(priceGauge)
	})

	return priceGauge
}

// Worker pulls the price of every supported market from the current oracle
type Worker struct {
	*worker.BaseJob
	ledger  core.Ledger
	store   core.LedgerStore
	oracles core.PriceOracles

	mux     sync.Mutex
	missing []string
}

// New new price worker running on spec
func New(spec string, ledger core.Ledger, store core.LedgerStore, oracles core.PriceOracles) (*Worker, error) {
	w := &Worker{
		ledger:  ledger,
		store:   store,
		oracles: oracles,
	}

	job, err := worker.NewBaseJob(spec, func() error {
		return w.onWork(context.Background())
	})
	if err != nil {
		return nil, err
	}

	w.BaseJob = job
	return w, nil
}

// Missing supported assets without a price in the last round, sorted
func (w *Worker) Missing() []string {
	w.mux.Lock()
	defer w.mux.Unlock()

	return append([]string(nil), w.missing...)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	p, err := w.ledger.Parameters(ctx)
	if err != nil {
		log.WithError(err).Errorln("ledger.Parameters")
		return err
	}

	oracle, ok := w.oracles[p.Oracle]
	if !ok {
		log.Errorln("oracle not configured:", p.Oracle)
		return core.ErrUnknownOracle
	}

	markets, err := w.store.ListMarkets(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all markets error")
		return err
	}

	gauge := priceMetric()

	var (
		wg      sync.WaitGroup
		mux     sync.Mutex
		missing []string
	)

	for _, m := range markets {
		if !m.IsSupported {
			continue
		}

		wg.Add(1)
		go func(asset string) {
			defer wg.Done()

			price, err := oracle.PriceOf(ctx, asset)
			if err != nil {
				log.WithError(err).Errorln("pull price error:", asset)
			}

			if err != nil || price.IsZero() {
				mux.Lock()
				missing = append(missing, asset)
				mux.Unlock()
			}

			value, _ := price.Decimal().Float64()
			gauge.WithLabelValues(p.Oracle, asset).Set(value)
		}(m.Asset)
	}

	wg.Wait()

	sort.Strings(missing)
	if len(missing) > 0 {
		log.Infoln("markets without price:", missing)
	}

	w.mux.Lock()
	w.missing = missing
	w.mux.Unlock()
	return nil
}
