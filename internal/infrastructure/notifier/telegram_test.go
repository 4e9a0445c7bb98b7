package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/internal/infrastructure/notifier"
)

const testToken = "123456789:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type botAPI struct {
	mu     sync.Mutex
	bodies []string
	status int
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	if strings.HasSuffix(r.URL.Path, "/sendMessage") {
		a.bodies = append(a.bodies, string(body))
	}

	w.Header().Set("Content-Type", "application/json")

	if a.status != 0 {
		w.WriteHeader(a.status)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":500,"description":"Internal Server Error"}`))

		return
	}

	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
}

func (a *botAPI) sent() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.bodies...)
}

func flaggedBid(id, productID int64) entity.FlaggedBid {
	return entity.FlaggedBid{
		Bid: entity.Bid{
			ID:          id,
			ProductID:   productID,
			CurrentCPC:  decimal.RequireFromString("2.00"),
			AdjustedCPC: decimal.RequireFromString("3.30"),
		},
		Difference: decimal.RequireFromString("1.30"),
		Threshold:  decimal.RequireFromString("0.40"),
	}
}

func TestTelegramNotifierNotifyFlagged(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api := &botAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	n, err := notifier.NewTelegramNotifier(testToken, 42, time.Hour, telego.WithAPIServer(srv.URL))
	rq.NoError(err)

	summary := entity.AuditSummary{TotalBids: 3, FlaggedBids: 1, AuditTimestamp: time.Now()}

	rq.NoError(n.NotifyFlagged(ctx, summary, []entity.FlaggedBid{flaggedBid(7, 2)}))
	rq.Len(api.sent(), 1)
	rq.Contains(api.sent()[0], "#7 product 2")

	// Уже отправленные ставки пропускаются.
	rq.NoError(n.NotifyFlagged(ctx, summary, []entity.FlaggedBid{flaggedBid(7, 2)}))
	rq.Len(api.sent(), 1)

	rq.NoError(n.NotifyFlagged(ctx, summary, []entity.FlaggedBid{flaggedBid(7, 2), flaggedBid(8, 3)}))
	rq.Len(api.sent(), 2)
	rq.Contains(api.sent()[1], "#8 product 3")
	rq.NotContains(api.sent()[1], "#7 product 2")
}

func TestTelegramNotifierSendFailure(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api := &botAPI{status: http.StatusInternalServerError}
	srv := httptest.NewServer(api)
	defer srv.Close()

	n, err := notifier.NewTelegramNotifier(testToken, 42, time.Hour, telego.WithAPIServer(srv.URL))
	rq.NoError(err)

	summary := entity.AuditSummary{TotalBids: 1, FlaggedBids: 1, AuditTimestamp: time.Now()}
	rq.Error(n.NotifyFlagged(ctx, summary, []entity.FlaggedBid{flaggedBid(7, 2)}))

	// Неудачная отправка не помечает ставки отправленными.
	api.mu.Lock()
	api.status = 0
	api.mu.Unlock()

	rq.NoError(n.NotifyFlagged(ctx, summary, []entity.FlaggedBid{flaggedBid(7, 2)}))
	rq.Len(api.sent(), 2)
}

func TestNewTelegramNotifierInvalidToken(t *testing.T) {
	_, err := notifier.NewTelegramNotifier("not-a-token", 42, time.Hour)
	require.Error(t, err)
}
