// Package notifier отправляет помеченные аудитом ставки в Telegram чат.
package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/patrickmn/go-cache"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/pkg/httpx"
	"cpc_bidder/pkg/logx"
)

// maxListed держит сообщение заметно ниже лимита Telegram в 4096 символов.
const maxListed = 20

type TelegramNotifier struct {
	bot      *telego.Bot
	chatID   int64
	notified *cache.Cache
}

// NewTelegramNotifier помнит уже отправленные id ставок в течение remember.
// remember должен совпадать с окном аудита, чтобы пересекающиеся запуски молчали.
func NewTelegramNotifier(
	token string,
	chatID int64,
	remember time.Duration,
	opts ...telego.BotOption,
) (*TelegramNotifier, error) {
	client := &http.Client{
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithComponent("telegram"),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		),
	}

	opts = append([]telego.BotOption{telego.WithHTTPClient(client), telego.WithDiscardLogger()}, opts...)

	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramNotifier{
		bot:      bot,
		chatID:   chatID,
		notified: cache.New(remember, remember),
	}, nil
}

// NotifyFlagged отправляет одно сообщение со ставками, о которых ещё не сообщали.
func (n *TelegramNotifier) NotifyFlagged(
	ctx context.Context,
	summary entity.AuditSummary,
	flagged []entity.FlaggedBid,
) error {
	fresh := make([]entity.FlaggedBid, 0, len(flagged))

	for _, f := range flagged {
		// Add падает, если ключ уже есть.
		if err := n.notified.Add(strconv.FormatInt(f.ID, 10), struct{}{}, cache.DefaultExpiration); err == nil {
			fresh = append(fresh, f)
		}
	}

	if len(fresh) == 0 {
		logger(ctx).Debug("flagged bids already notified", slog.Int(logx.FieldFlaggedBids, len(flagged)))
		return nil
	}

	msg := tu.Message(tu.ID(n.chatID), formatMessage(summary, fresh)).WithParseMode(telego.ModeHTML)

	if _, err := n.bot.SendMessage(ctx, msg); err != nil {
		for _, f := range fresh {
			n.notified.Delete(strconv.FormatInt(f.ID, 10))
		}

		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	logger(ctx).Info("flagged bids notified", slog.Int(logx.FieldFlaggedBids, len(fresh)))

	return nil
}

func formatMessage(summary entity.AuditSummary, flagged []entity.FlaggedBid) string {
	var b strings.Builder

	fmt.Fprintf(&b, "⚠️ <b>Budget audit</b> %s\n", html.EscapeString(summary.AuditTimestamp.UTC().Format(time.DateTime)))
	fmt.Fprintf(&b, "Flagged %d of %d bids\n\n", summary.FlaggedBids, summary.TotalBids)

	for i, f := range flagged {
		if i == maxListed {
			fmt.Fprintf(&b, "…and %d more\n", len(flagged)-maxListed)
			break
		}

		fmt.Fprintf(&b, "#%d product %d: $%s → $%s (diff $%s, threshold $%s)\n",
			f.ID,
			f.ProductID,
			f.CurrentCPC.StringFixed(2),
			f.AdjustedCPC.StringFixed(2),
			f.Difference.StringFixed(2),
			f.Threshold.StringFixed(2),
		)
	}

	return b.String()
}
