package usecase

import (
	"context"
	"errors"
	"testing"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func pendingPayout(id uuid.UUID) *entity.ProviderPayout {
	return &entity.ProviderPayout{
		Base:             entity.Base{ID: id},
		BookingItemID:    uuid.New(),
		ProviderID:       uuid.New(),
		Amount:           500000,
		PlatformFee:      50000,
		NetAmount:        450000,
		Status:           entity.PayoutStatusPending,
		SettlementPeriod: "2026-08",
	}
}

func TestMarkPayoutPaid(t *testing.T) {
	repo, f := newFakeRepository()
	payoutID := uuid.New()

	status := entity.PayoutStatusPending
	f.Payout.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error) {
		p := pendingPayout(payoutID)
		p.Status = status
		return p, nil
	}
	f.Payout.MarkPaidFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		status = entity.PayoutStatusPaid
		return true, nil
	}

	svc := NewPayoutService(repo, zap.NewNop())
	res, err := svc.Mark(context.Background(), payoutID.String(), &request.MarkPayoutRequest{Status: "paid"})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if res.Status != entity.PayoutStatusPaid {
		t.Fatalf("status = %s, want paid", res.Status)
	}
}

func TestMarkPayoutAlreadyPaid(t *testing.T) {
	repo, f := newFakeRepository()
	payoutID := uuid.New()

	f.Payout.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error) {
		p := pendingPayout(payoutID)
		p.Status = entity.PayoutStatusPaid
		return p, nil
	}
	f.Payout.MarkPaidFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		// The conditional UPDATE matches no row when the payout already
		// left pending.
		return false, nil
	}

	svc := NewPayoutService(repo, zap.NewNop())
	_, err := svc.Mark(context.Background(), payoutID.String(), &request.MarkPayoutRequest{Status: "paid"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestMarkPayoutUnknownID(t *testing.T) {
	repo, f := newFakeRepository()

	f.Payout.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error) {
		return nil, nil
	}

	svc := NewPayoutService(repo, zap.NewNop())
	_, err := svc.Mark(context.Background(), uuid.New().String(), &request.MarkPayoutRequest{Status: "failed"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListForProviderPassesPaging(t *testing.T) {
	repo, f := newFakeRepository()
	providerID := uuid.New()

	f.Payout.FindByProviderIDFn = func(ctx context.Context, id uuid.UUID, limit, offset int) ([]*entity.ProviderPayout, error) {
		if id != providerID {
			t.Fatalf("provider id = %s", id)
		}
		if limit != 20 || offset != 20 {
			t.Fatalf("limit=%d offset=%d, want 20/20", limit, offset)
		}
		return []*entity.ProviderPayout{pendingPayout(uuid.New())}, nil
	}

	svc := NewPayoutService(repo, zap.NewNop())
	res, err := svc.ListForProvider(context.Background(), providerID, &request.PaginatedRequest{Page: 2, PerPage: 20})
	if err != nil {
		t.Fatalf("ListForProvider: %v", err)
	}
	if len(res) != 1 || res[0].NetAmount != 450000 {
		t.Fatalf("res = %+v", res)
	}
}
