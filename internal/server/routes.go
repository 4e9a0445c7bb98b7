package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cpc_bidder/pkg/httpx/reply"
	"cpc_bidder/pkg/logx"
	"cpc_bidder/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/bids", func(r chi.Router) {
			r.Post("/", handler(s.postV1Bids))
			r.Get("/{id}", handler(s.getV1Bid))
		})

		r.Route("/audits", func(r chi.Router) {
			r.Post("/", handler(s.postV1Audits))
			r.Post("/async", handler(s.postV1AuditsAsync))
			r.Get("/{taskID}", handler(s.getV1Audit))
		})
	})
}

// NewRouter собирает цепочку middleware перед маршрутами.
func NewRouter(
	s Server,
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.ResponseLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.Metrics,
		middlewarex.Recovery,
	)

	s.RegisterRoutes(r)

	return r
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
