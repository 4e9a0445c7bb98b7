package bid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.appkode.ru/pub/go/failure"

	"cpc_bidder/internal/domain"
	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/internal/domain/service/pricing"
	"cpc_bidder/pkg/errcodes"
	"cpc_bidder/pkg/logx"
)

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	GetByID(ctx context.Context, id int64) (*entity.Bid, error)
}

// Submission — поля запроса как есть: числа, числовые строки или nil.
type Submission struct {
	ProductID  any
	CurrentCPC any
	TargetROAS any
}

type BidService struct {
	bidRepo BidRepository
	now     func() time.Time
}

func NewBidService(bidRepo BidRepository) *BidService {
	return &BidService{
		bidRepo: bidRepo,
		now:     time.Now,
	}
}

func (s *BidService) WithClock(now func() time.Time) *BidService {
	s.now = now
	return s
}

// Submit валидирует сырые поля, считает скорректированный CPC и сохраняет
// ровно одну запись. Ошибки валидации возвращаются как *pricing.ValidationError,
// нарушения инвариантов домена как invalid-argument. В обоих случаях
// ничего не сохраняется.
func (s *BidService) Submit(ctx context.Context, sub Submission) (entity.Bid, error) {
	if msgs := pricing.Validate(sub.ProductID, sub.CurrentCPC, sub.TargetROAS); len(msgs) > 0 {
		bidsRejected.WithLabelValues(rejectReasonValidation).Inc()

		return entity.Bid{}, &pricing.ValidationError{Messages: msgs}
	}

	productID, err := parseProductID(sub.ProductID)
	if err != nil {
		bidsRejected.WithLabelValues(rejectReasonInvariant).Inc()

		return entity.Bid{}, err
	}

	currentCPC, _ := pricing.ParseDecimal(sub.CurrentCPC)
	targetROAS, _ := pricing.ParseDecimal(sub.TargetROAS)

	adjustedCPC, err := pricing.CalculateAdjustedCPC(currentCPC, targetROAS)
	if err != nil {
		bidsRejected.WithLabelValues(rejectReasonInvariant).Inc()

		return entity.Bid{}, invariantError(err)
	}

	bid := &entity.Bid{
		ProductID:    productID,
		CurrentCPC:   currentCPC.Round(pricing.CurrencyPlaces),
		TargetROAS:   targetROAS.Round(pricing.CurrencyPlaces),
		AdjustedCPC:  adjustedCPC,
		CalculatedAt: s.now(),
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		bidsRejected.WithLabelValues(rejectReasonInternal).Inc()

		return entity.Bid{}, fmt.Errorf("bidRepo.Create: %w", err)
	}

	bidsSubmitted.Inc()

	logger(ctx).Info(
		"bid calculated",
		slog.Int64(logx.FieldBidID, bid.ID),
		slog.Int64(logx.FieldProductID, bid.ProductID),
		logx.Stringer("current-cpc", bid.CurrentCPC),
		logx.Stringer("adjusted-cpc", bid.AdjustedCPC),
	)

	return *bid, nil
}

func (s *BidService) Get(ctx context.Context, id int64) (entity.Bid, error) {
	bid, err := s.bidRepo.GetByID(ctx, id)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.BidNotFound {
			return entity.Bid{}, failure.NewNotFoundError(
				err.Error(),
				failure.WithCode(errcodes.BidNotFound),
				failure.WithDescription("bid not found"),
			)
		}

		return entity.Bid{}, fmt.Errorf("bidRepo.GetByID: %w", err)
	}

	return *bid, nil
}

// parseProductID ждёт вход, уже принятый Validate. Дробные числа и числа
// вне int64 товар не идентифицируют.
func parseProductID(v any) (int64, error) {
	d, _ := pricing.ParseDecimal(v)

	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("product id %s is not an integer", d),
			failure.WithCode(errcodes.InvalidProductID),
			failure.WithDescription(pricing.MsgInvalidProductID),
		)
	}

	return d.IntPart(), nil
}

func invariantError(err error) error {
	code := errcodes.ValidationError

	switch {
	case errors.Is(err, pricing.ErrInvalidROAS):
		code = errcodes.InvalidTargetROAS
	case errors.Is(err, pricing.ErrInvalidCPC):
		code = errcodes.InvalidCurrentCPC
	}

	return failure.NewInvalidArgumentError(
		fmt.Errorf("pricing.CalculateAdjustedCPC: %w", err).Error(),
		failure.WithCode(code),
		failure.WithDescription(err.Error()),
	)
}

