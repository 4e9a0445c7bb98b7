package bid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	rejectReasonValidation = "validation"
	rejectReasonInvariant  = "invariant"
	rejectReasonInternal   = "internal"
)

//nolint:gochecknoglobals
var (
	bidsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cpc_bidder",
		Name:      "bids_submitted_total",
		Help:      "Bids calculated and stored.",
	})
	bidsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cpc_bidder",
		Name:      "bids_rejected_total",
		Help:      "Bid submissions that did not produce a record, by reason.",
	}, []string{"reason"})
)
