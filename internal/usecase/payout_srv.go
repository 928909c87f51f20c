package usecase

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService exposes the payout ledger. Rows are written by booking
// completion; this service only reads them and flips pending rows when
// finance reports a transfer.
type PayoutService interface {
	ListForProvider(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) ([]*response.PayoutResponse, error)
	ListAll(ctx context.Context, req *request.PaginatedRequest) ([]*response.PayoutResponse, error)
	Mark(ctx context.Context, payoutID string, req *request.MarkPayoutRequest) (*response.PayoutResponse, error)
}

type payoutService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPayoutService(repo *repository.Repository, log *zap.Logger) PayoutService {
	return &payoutService{
		repo: repo,
		log:  log.With(zap.String("service", "payout")),
	}
}

func (s *payoutService) ListForProvider(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) ([]*response.PayoutResponse, error) {
	payouts, err := s.repo.Payout.FindByProviderID(ctx, providerID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list provider payouts: %w", err)
	}
	return toPayoutResponses(payouts), nil
}

func (s *payoutService) ListAll(ctx context.Context, req *request.PaginatedRequest) ([]*response.PayoutResponse, error) {
	payouts, err := s.repo.Payout.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	return toPayoutResponses(payouts), nil
}

func (s *payoutService) Mark(ctx context.Context, payoutID string, req *request.MarkPayoutRequest) (*response.PayoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(payoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payout id", ErrInvalidRequest)
	}

	payout, err := s.repo.Payout.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find payout %s: %w", payoutID, err)
	}
	if payout == nil {
		return nil, ErrNotFound
	}

	var flipped bool
	switch entity.PayoutStatus(req.Status) {
	case entity.PayoutStatusPaid:
		flipped, err = s.repo.Payout.MarkPaid(ctx, id)
	case entity.PayoutStatusFailed:
		flipped, err = s.repo.Payout.MarkFailed(ctx, id)
	default:
		return nil, fmt.Errorf("%w: unknown payout status %s", ErrInvalidRequest, req.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("mark payout %s %s: %w", payoutID, req.Status, err)
	}
	if !flipped {
		return nil, ErrInvalidState
	}

	s.log.Info("Payout marked",
		zap.String("payout_id", payoutID),
		zap.String("status", req.Status),
	)

	payout, err = s.repo.Payout.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload payout %s: %w", payoutID, err)
	}
	return response.PayoutToResponse(payout), nil
}

func toPayoutResponses(payouts []*entity.ProviderPayout) []*response.PayoutResponse {
	res := make([]*response.PayoutResponse, 0, len(payouts))
	for _, payout := range payouts {
		res = append(res, response.PayoutToResponse(payout))
	}
	return res
}
