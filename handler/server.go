package handler

import (
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/auth"
	"moneymarket/handler/hc"
	"moneymarket/handler/render"
	"moneymarket/handler/rest"
	"moneymarket/worker/executor"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	ledger  core.Ledger
	store   core.LedgerStore
	events  core.EventStore
	tokens  core.TokenAdapter
	oracles core.PriceOracles
	blocks  core.BlockService
	session core.Session
	exec    *executor.Executor
	version string
}

// New new server function, session may be nil and then every mutating api
// responds unauthenticated
func New(
	ledger core.Ledger,
	store core.LedgerStore,
	events core.EventStore,
	tokens core.TokenAdapter,
	oracles core.PriceOracles,
	blocks core.BlockService,
	session core.Session,
	exec *executor.Executor,
	version string,
) Server {
	return Server{
		ledger:  ledger,
		store:   store,
		events:  events,
		tokens:  tokens,
		oracles: oracles,
		blocks:  blocks,
		session: session,
		exec:    exec,
		version: version,
	}
}

// Handler root handler with hc, metrics and the rest api mounted
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	mux.Mount("/hc", hc.Handle(s.version, s.blocks))
	mux.Mount("/metrics", promhttp.Handler())
	mux.Mount("/api", s.HandleRestAPI())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse)
	r.Use(auth.HandleAuthentication(s.session))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w)
	})

	r.Mount("/", rest.Handle(s.ledger, s.store, s.events, s.tokens, s.oracles, s.exec))
	return r
}
