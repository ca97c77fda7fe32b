package liquidity

import (
	"context"
	"sort"
	"sync"

	"moneymarket/core"
	"moneymarket/pkg/concurrency"
	"moneymarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const batch = 500

var (
	shortfallOnce  sync.Once
	shortfallGauge *prometheus.GaugeVec
)

func shortfallMetric() *prometheus.GaugeVec {
	shortfallOnce.Do(func() {
		shortfallGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "moneymarket",
			Subsystem: "liquidity",
			Name:      "account_shortfall",
			Help:      "Shortfall of borrowing accounts in oracle units, zero when healthy.",
		}, []string{"account"})

		prometheus.MustRegister(shortfallGauge)
	})

	return shortfallGauge
}

// Worker follows borrow events and reports accounts in shortfall
type Worker struct {
	*worker.BaseJob
	ledger core.Ledger
	events core.EventStore
	limit  *concurrency.GoLimit

	mux       sync.Mutex
	cursor    int64
	borrowers map[string]bool
	shortfall map[string]bool
}

// New new liquidity worker running on spec, like "@every 30s"
func New(spec string, ledger core.Ledger, events core.EventStore) (*Worker, error) {
	w := &Worker{
		ledger:    ledger,
		events:    events,
		limit:     concurrency.NewGoLimit(concurrency.DefaultMax),
		borrowers: make(map[string]bool),
		shortfall: make(map[string]bool),
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

// Shortfall accounts found in shortfall by the last round, sorted
func (w *Worker) Shortfall() []string {
	w.mux.Lock()
	defer w.mux.Unlock()

	accounts := make([]string, 0, len(w.shortfall))
	for account := range w.shortfall {
		accounts = append(accounts, account)
	}

	sort.Strings(accounts)
	return accounts
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidity")

	if err := w.pull(ctx); err != nil {
		log.WithError(err).Errorln("events.List")
		return err
	}

	w.mux.Lock()
	borrowers := make([]string, 0, len(w.borrowers))
	for account := range w.borrowers {
		borrowers = append(borrowers, account)
	}
	w.mux.Unlock()

	gauge := shortfallMetric()
	shortfall := make(map[string]bool)
	var mux sync.Mutex

	for _, account := range borrowers {
		account := account
		w.limit.Go(func() {
			liquidity, err := w.ledger.AccountLiquidity(ctx, account)
			if err != nil {
				log.WithError(err).Errorln("ledger.AccountLiquidity", account)
				return
			}

			value, _ := liquidity.Shortfall.Decimal().Float64()
			gauge.WithLabelValues(account).Set(value)

			if !liquidity.Shortfall.IsZero() {
				log.Infoln("account in shortfall", account, liquidity.Shortfall.String())

				mux.Lock()
				shortfall[account] = true
				mux.Unlock()
			}
		})
	}

	w.limit.Wait()

	w.mux.Lock()
	w.shortfall = shortfall
	w.mux.Unlock()
	return nil
}

// pull adds the accounts of new borrow events to the borrowers
func (w *Worker) pull(ctx context.Context) error {
	for {
		events, err := w.events.List(ctx, w.cursor, batch)
		if err != nil {
			return err
		}

		w.mux.Lock()
		for _, e := range events {
			w.cursor = e.ID
			if e.Action == core.ActionBorrow {
				w.borrowers[e.Account] = true
			}
		}
		w.mux.Unlock()

		if len(events) < batch {
			return nil
		}
	}
}
