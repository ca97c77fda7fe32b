package rest

import (
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/param"
	"moneymarket/handler/render"
	"moneymarket/handler/views"

	"github.com/go-chi/chi"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type listParams struct {
	From  int64 `json:"from"`
	Limit int   `json:"limit"`
}

func (p *listParams) limit() int {
	if p.Limit <= 0 {
		return defaultLimit
	}

	if p.Limit > maxLimit {
		return maxLimit
	}

	return p.Limit
}

// response events after from, ascending
func eventsHandler(events core.EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params listParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		list, err := events.List(r.Context(), params.From, params.limit())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.EventViews(list))
	}
}

func accountEventsHandler(events core.EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params listParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		list, err := events.ListByAccount(r.Context(), chi.URLParam(r, "account"), params.From, params.limit())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.EventViews(list))
	}
}
