// Package audit проверяет недавние ставки и помечает корректировки больше 20%
// от текущего CPC.
package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/pkg/logx"
)

const DefaultWindow = 7 * 24 * time.Hour

var thresholdShare = decimal.RequireFromString("0.20") //nolint:gochecknoglobals

type BidRepository interface {
	// ListCalculatedSince возвращает ставки с calculated_at >= since
	// по возрастанию product_id.
	ListCalculatedSince(ctx context.Context, since time.Time) ([]entity.Bid, error)
}

// Notifier получает каждый запуск, пометивший хотя бы одну ставку.
type Notifier interface {
	NotifyFlagged(ctx context.Context, summary entity.AuditSummary, flagged []entity.FlaggedBid) error
}

type Auditor struct {
	bidRepo  BidRepository
	out      io.Writer
	window   time.Duration
	notifier Notifier
}

func NewAuditor(bidRepo BidRepository, out io.Writer) *Auditor {
	return &Auditor{
		bidRepo: bidRepo,
		out:     out,
		window:  DefaultWindow,
	}
}

func (a *Auditor) WithWindow(window time.Duration) *Auditor {
	a.window = window
	return a
}

func (a *Auditor) WithNotifier(notifier Notifier) *Auditor {
	a.notifier = notifier
	return a
}

// Classify применяет правило: |adjusted - current| > 0.20 * current.
// Разница, ровно равная порогу, не помечается.
func Classify(bid entity.Bid) (entity.FlaggedBid, bool) {
	threshold := bid.CurrentCPC.Mul(thresholdShare)
	difference := bid.AdjustedCPC.Sub(bid.CurrentCPC).Abs()

	return entity.FlaggedBid{
		Bid:        bid,
		Difference: difference,
		Threshold:  threshold,
	}, difference.GreaterThan(threshold)
}

// Run проверяет ставки, рассчитанные в окне, которое заканчивается в now.
// Состояния между вызовами нет: повторный запуск на тех же данных даёт
// ту же сводку. Пустое окно не ошибка.
func (a *Auditor) Run(ctx context.Context, now time.Time) (entity.AuditSummary, error) {
	start := time.Now()
	windowStart := now.Add(-a.window)

	bids, err := a.bidRepo.ListCalculatedSince(ctx, windowStart)
	if err != nil {
		auditRuns.WithLabelValues(runResultFailed).Inc()

		return entity.AuditSummary{}, fmt.Errorf("bidRepo.ListCalculatedSince: %w", err)
	}

	flagged := lo.FilterMap(bids, func(bid entity.Bid, _ int) (entity.FlaggedBid, bool) {
		return Classify(bid)
	})

	summary := entity.AuditSummary{
		TotalBids:      len(bids),
		FlaggedBids:    len(flagged),
		AuditTimestamp: now,
	}

	var report []byte
	if len(bids) == 0 {
		report = formatNoData(a.window)
	} else {
		report = formatReport(windowStart, now, summary, flagged)
	}

	if _, err := a.out.Write(report); err != nil {
		logger(ctx).Error("audit report write", logx.Error(err))
	}

	auditRuns.WithLabelValues(runResultOK).Inc()
	auditFlaggedBids.Set(float64(summary.FlaggedBids))
	auditDuration.Observe(time.Since(start).Seconds())

	logger(ctx).Info(
		"budget audit completed",
		slog.Time(logx.FieldWindowStart, windowStart),
		slog.Int(logx.FieldTotalBids, summary.TotalBids),
		slog.Int(logx.FieldFlaggedBids, summary.FlaggedBids),
	)

	if a.notifier != nil && len(flagged) > 0 {
		if err := a.notifier.NotifyFlagged(ctx, summary, flagged); err != nil {
			logger(ctx).Error("notifier.NotifyFlagged", logx.Error(err))
		}
	}

	return summary, nil
}
