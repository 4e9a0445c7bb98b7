package audit

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cpc_bidder/internal/domain/entity"
)

const (
	NoFlaggedMessage = "No bids flagged - all CPC adjustments within acceptable limits."

	reportWidth = 60
)

//nolint:gochecknoglobals
var (
	doubleRule = strings.Repeat("=", reportWidth)
	singleRule = strings.Repeat("-", reportWidth)
)

// NoDataMessage возвращает строку отчёта для окна без ставок.
func NoDataMessage(window time.Duration) string {
	return "Daily Budget Audit: No bids found in the last " + formatWindow(window)
}

func formatNoData(window time.Duration) []byte {
	return []byte(NoDataMessage(window) + "\n")
}

func formatWindow(window time.Duration) string {
	const day = 24 * time.Hour

	switch {
	case window%day == 0:
		return plural(int64(window/day), "day")
	case window%time.Hour == 0:
		return plural(int64(window/time.Hour), "hour")
	case window%time.Minute == 0:
		return plural(int64(window/time.Minute), "minute")
	default:
		return window.String()
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// formatReport собирает отчёт целиком, чтобы строки параллельных запусков
// с общим writer не перемешивались.
func formatReport(windowStart, now time.Time, summary entity.AuditSummary, flagged []entity.FlaggedBid) []byte {
	var b bytes.Buffer

	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintln(&b, "DAILY BUDGET AUDIT REPORT")
	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintf(&b, "Audit Period: %s to %s\n", formatTime(windowStart), formatTime(now))
	fmt.Fprintf(&b, "Total Bids Reviewed: %d\n", summary.TotalBids)
	fmt.Fprintf(&b, "Flagged Bids: %d\n", summary.FlaggedBids)
	fmt.Fprintln(&b)

	if len(flagged) > 0 {
		fmt.Fprintln(&b, "FLAGGED BIDS (CPC difference > 20% of current CPC):")
		fmt.Fprintln(&b, singleRule)

		for _, f := range flagged {
			fmt.Fprintf(&b, "Bid ID: %d | Product: %d\n", f.ID, f.ProductID)
			fmt.Fprintf(&b, "  Current CPC: $%s\n", money(f.CurrentCPC))
			fmt.Fprintf(&b, "  Adjusted CPC: $%s\n", money(f.AdjustedCPC))
			fmt.Fprintf(&b, "  Difference: $%s (Threshold: $%s)\n", money(f.Difference), money(f.Threshold))
			fmt.Fprintf(&b, "  Calculated: %s\n", formatTime(f.CalculatedAt))
			fmt.Fprintln(&b)
		}
	} else {
		fmt.Fprintln(&b, NoFlaggedMessage)
	}

	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintln(&b, "Audit completed successfully")
	fmt.Fprintln(&b, doubleRule)

	return b.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) //nolint:mnd
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.DateTime)
}
