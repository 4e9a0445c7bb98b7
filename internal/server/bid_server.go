package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/internal/domain/service/bid"
	"cpc_bidder/internal/domain/service/pricing"
	"cpc_bidder/pkg/errcodes"
	"cpc_bidder/pkg/httpx/reply"
	"cpc_bidder/pkg/httpx/req"
	"cpc_bidder/pkg/rest"
)

type bidService interface {
	Submit(ctx context.Context, sub bid.Submission) (entity.Bid, error)
	Get(ctx context.Context, id int64) (entity.Bid, error)
}

type BidServer struct {
	bidService bidService
}

func NewBidServer(bidService bidService) BidServer {
	return BidServer{
		bidService: bidService,
	}
}

func (s BidServer) postV1Bids(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.BidRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	b, err := s.bidService.Submit(ctx, newDomainSubmission(request))
	if err != nil {
		var validationErr *pricing.ValidationError
		if errors.As(err, &validationErr) {
			reply.JSON(ctx, w, http.StatusBadRequest, rest.ValidationErrors{Errors: validationErr.Messages})

			return nil
		}

		return fmt.Errorf("bidService.Submit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBidResponse(b))

	return nil
}

func (s BidServer) getV1Bid(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("strconv.ParseInt: %w", err).Error(),
			failure.WithCode(errcodes.InvalidBidID),
			failure.WithDescription("Invalid bid ID"),
		)
	}

	b, err := s.bidService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("bidService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBid(b))

	return nil
}
