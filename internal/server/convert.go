package server

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/internal/domain/service/bid"
	"cpc_bidder/internal/domain/service/pricing"
	"cpc_bidder/pkg/rest"
)

// money — decimal как JSON число ровно с двумя знаками после запятой.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(pricing.CurrencyPlaces))
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func newDomainSubmission(request rest.BidRequest) bid.Submission {
	return bid.Submission{
		ProductID:  request.ProductID,
		CurrentCPC: request.CurrentCPC,
		TargetROAS: request.TargetROAS,
	}
}

func newRESTBidResponse(b entity.Bid) rest.BidResponse {
	return rest.BidResponse{
		AdjustedCPC: money(b.AdjustedCPC),
		BidID:       b.ID,
	}
}

func newRESTBid(b entity.Bid) rest.Bid {
	return rest.Bid{
		ID:           b.ID,
		ProductID:    b.ProductID,
		CurrentCPC:   money(b.CurrentCPC),
		TargetROAS:   money(b.TargetROAS),
		AdjustedCPC:  money(b.AdjustedCPC),
		CalculatedAt: timestamp(b.CalculatedAt),
		CreatedAt:    timestamp(b.CreatedAt),
		UpdatedAt:    timestamp(b.UpdatedAt),
	}
}

func newRESTAuditSummary(s entity.AuditSummary) rest.AuditSummary {
	return rest.AuditSummary{
		TotalBids:      s.TotalBids,
		FlaggedBids:    s.FlaggedBids,
		AuditTimestamp: timestamp(s.AuditTimestamp),
	}
}

func newRESTAuditTask(t entity.AuditTask) rest.AuditTask {
	task := rest.AuditTask{
		TaskID: t.ID,
		Queue:  t.Queue,
		State:  t.State,
		Error:  t.LastError,
	}

	if t.Summary != nil {
		summary := newRESTAuditSummary(*t.Summary)
		task.Summary = &summary
	}

	return task
}
