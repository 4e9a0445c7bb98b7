package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"cpc_bidder/pkg/logx"
	"cpc_bidder/pkg/middlewarex"
)

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.TraceID(middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	rq.Equal(http.StatusInternalServerError, rec.Code)
	rq.JSONEq(
		`{"code":"InternalServerError","error":"Internal server error","supportId":"`+rec.Header().Get("X-Trace-Id")+`"}`,
		rec.Body.String(),
	)
	rq.NotContains(rec.Body.String(), "boom")
}

func TestTraceID(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.TraceID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", "abc")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	rq.Equal("abc", rec.Header().Get("X-Trace-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	rq.NotEmpty(rec.Header().Get("X-Trace-Id"))
}

func TestLoggingMiddlewares(t *testing.T) {
	rq := require.New(t)

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), 16),
		middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), 16),
		middlewarex.Metrics,
	)
	r.Post("/v1/bids", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"bid_id":1}`))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bids", strings.NewReader(`{"product_id":1}`)))

	rq.Equal(http.StatusCreated, rec.Code)
	rq.Equal(`{"bid_id":1}`, rec.Body.String())
}
