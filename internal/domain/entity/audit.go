package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuditSummary struct {
	TotalBids      int       `json:"total_bids"`
	FlaggedBids    int       `json:"flagged_bids"`
	AuditTimestamp time.Time `json:"audit_timestamp"`
}

// FlaggedBid — ставка, корректировка которой превысила порог аудита.
type FlaggedBid struct {
	Bid

	Difference decimal.Decimal
	Threshold  decimal.Decimal
}

// AuditTask — состояние отложенного аудита. Summary заполняется после
// завершения задачи.
type AuditTask struct {
	ID        string
	Queue     string
	State     string
	Summary   *AuditSummary
	LastError string
}
