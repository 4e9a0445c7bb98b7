package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	runResultOK     = "ok"
	runResultFailed = "failed"
)

//nolint:gochecknoglobals
var (
	auditRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cpc_bidder",
		Name:      "audit_runs_total",
		Help:      "Budget audit runs by result.",
	}, []string{"result"})
	auditFlaggedBids = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cpc_bidder",
		Name:      "audit_flagged_bids",
		Help:      "Bids flagged by the most recent audit run.",
	})
	auditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cpc_bidder",
		Name:      "audit_duration_seconds",
		Help:      "Budget audit run duration.",
		Buckets:   prometheus.DefBuckets,
	})
)
