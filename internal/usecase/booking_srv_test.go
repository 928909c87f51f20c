package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			PaymentWindowMinutes: 30,
			PlatformFeePercent:   10,
		},
	}
}

// stubCouponService satisfies CouponService for booking tests that do not
// exercise coupons.
type stubCouponService struct {
	CouponService
	ValidateFn func(ctx context.Context, code string, in CouponContext) (*entity.Coupon, int64, error)
}

func (s *stubCouponService) Validate(ctx context.Context, code string, in CouponContext) (*entity.Coupon, int64, error) {
	return s.ValidateFn(ctx, code, in)
}

func newTestBookingService(repo *repository.Repository, coupon CouponService, now time.Time) *bookingService {
	svc := NewBookingService(repo, coupon, testConfig(), zap.NewNop()).(*bookingService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateBookingChecksAvailabilityWithoutReserving(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	productID := uuid.New()
	providerID := uuid.New()

	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{
			Base:       entity.Base{ID: productID},
			ProviderID: providerID,
			Type:       entity.ProductTypeHomestay,
			UnitPrice:  150000,
			Capacity:   4,
			DateRanged: true,
			IsActive:   true,
		}, nil
	}

	checked := 0
	f.Availability.CheckAvailableFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error) {
		checked++
		if resourceID != productID || quantity != 2 {
			t.Fatalf("unexpected check: resource=%s quantity=%d", resourceID, quantity)
		}
		return true, nil
	}

	var created *entity.Booking
	f.Booking.CreateFn = func(ctx context.Context, booking *entity.Booking) error {
		// The service owns id generation; the row is inserted as given.
		if booking.ID == uuid.Nil {
			t.Fatal("booking persisted with a nil id")
		}
		created = booking
		return nil
	}

	var batch []*entity.BookingItem
	f.BookingItem.CreateBatchFn = func(ctx context.Context, items []*entity.BookingItem) error {
		for _, item := range items {
			if item.ID == uuid.Nil {
				t.Fatal("booking item persisted with a nil id")
			}
			if item.BookingID != created.ID {
				t.Fatalf("item booking_id = %s, want %s", item.BookingID, created.ID)
			}
		}
		batch = items
		return nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
		return batch, nil
	}

	svc := newTestBookingService(repo, nil, now)
	res, err := svc.Create(context.Background(), userID, nil, &request.CreateBookingRequest{
		Items: []request.BookingItemRequest{{
			ProductID: productID.String(),
			StartDate: "2026-09-10",
			EndDate:   "2026-09-12",
			Quantity:  2,
		}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if checked != 1 {
		t.Fatalf("availability checks = %d, want 1", checked)
	}
	if created.Status != entity.BookingStatusRequested {
		t.Fatalf("status = %s, want requested", created.Status)
	}
	// Reserve staying nil-func proves nothing was decremented at request
	// time; the decrement belongs to provider confirmation.
	// 2 units x 2 nights x 150000
	if res.TotalAmount != 600000 {
		t.Fatalf("total = %d, want 600000", res.TotalAmount)
	}
	if res.PayableAmount != 600000 {
		t.Fatalf("payable = %d, want 600000", res.PayableAmount)
	}
}

func TestCreateBookingNoAvailability(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()

	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{
			Base:       entity.Base{ID: productID},
			UnitPrice:  100000,
			Capacity:   2,
			DateRanged: true,
			IsActive:   true,
		}, nil
	}
	f.Availability.CheckAvailableFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error) {
		return false, nil
	}

	svc := newTestBookingService(repo, nil, now)
	_, err := svc.Create(context.Background(), uuid.New(), nil, &request.CreateBookingRequest{
		Items: []request.BookingItemRequest{{
			ProductID: productID.String(),
			StartDate: "2026-09-10",
			EndDate:   "2026-09-11",
			Quantity:  1,
		}},
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
}

func TestCreateBookingQuantityOverCapacity(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()

	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{
			Base:       entity.Base{ID: productID},
			UnitPrice:  100000,
			Capacity:   2,
			DateRanged: true,
			IsActive:   true,
		}, nil
	}

	svc := newTestBookingService(repo, nil, now)
	_, err := svc.Create(context.Background(), uuid.New(), nil, &request.CreateBookingRequest{
		Items: []request.BookingItemRequest{{
			ProductID: productID.String(),
			StartDate: "2026-09-10",
			EndDate:   "2026-09-11",
			Quantity:  3,
		}},
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
}

func TestConfirmOpensPaymentWindow(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	productID := uuid.New()
	providerID := uuid.New()

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{
			Base:   entity.Base{ID: bookingID},
			Status: entity.BookingStatusRequested,
		}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			ProductID: productID,
			StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Quantity:  2,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: productID}, ProviderID: providerID, DateRanged: true}, nil
	}

	reserved := 0
	f.Availability.ReserveFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
		reserved++
		if resourceID != productID || quantity != 2 {
			t.Fatalf("unexpected reserve: resource=%s quantity=%d", resourceID, quantity)
		}
		return nil
	}

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}

	svc := newTestBookingService(repo, nil, now)
	if _, err := svc.Confirm(context.Background(), providerID, bookingID.String()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if reserved != 1 {
		t.Fatalf("reserve calls = %d, want 1", reserved)
	}
	if updated.Status != entity.BookingStatusAwaitingPayment {
		t.Fatalf("status = %s, want awaiting_payment", updated.Status)
	}
	want := now.Add(30 * time.Minute)
	if updated.ExpiresAt == nil || !updated.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", updated.ExpiresAt, want)
	}
}

func TestConfirmCapacityExceeded(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()
	providerID := uuid.New()

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: id}, Status: entity.BookingStatusRequested}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			ProductID: productID,
			StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
			Quantity:  1,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: productID}, ProviderID: providerID, DateRanged: true}, nil
	}
	f.Availability.ReserveFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
		return repository.ErrCapacityExceeded
	}

	svc := newTestBookingService(repo, nil, now)
	_, err := svc.Confirm(context.Background(), providerID, uuid.New().String())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestConfirmRejectsForeignProvider(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: id}, Status: entity.BookingStatusRequested}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{ProductID: uuid.New()}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: id}, ProviderID: uuid.New()}, nil
	}

	svc := newTestBookingService(repo, nil, now)
	_, err := svc.Confirm(context.Background(), uuid.New(), uuid.New().String())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestConfirmWrongState(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: id}, Status: entity.BookingStatusConfirmed}, nil
	}

	svc := newTestBookingService(repo, nil, now)
	_, err := svc.Confirm(context.Background(), uuid.New(), uuid.New().String())
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}
}

func TestExpireReleasesHolds(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	productID := uuid.New()
	couponID := uuid.New()
	deadline := now.Add(-time.Minute)

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{
			Base:      entity.Base{ID: bookingID},
			Status:    entity.BookingStatusAwaitingPayment,
			CouponID:  &couponID,
			ExpiresAt: &deadline,
		}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			ProductID: productID,
			StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Quantity:  2,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: productID}, DateRanged: true}, nil
	}

	released := false
	f.Availability.ReleaseFn = func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
		released = true
		return nil
	}
	usageDeleted := false
	f.CouponUsage.DeleteByBookingIDFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		usageDeleted = true
		return true, nil
	}
	decremented := false
	f.Coupon.DecrementUsesFn = func(ctx context.Context, id uuid.UUID) error {
		decremented = true
		return nil
	}

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}

	svc := newTestBookingService(repo, nil, now)
	expired, err := svc.Expire(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if !expired {
		t.Fatal("expired = false, want true")
	}
	if !released || !usageDeleted || !decremented {
		t.Fatalf("holds not fully released: inventory=%v usage=%v coupon=%v", released, usageDeleted, decremented)
	}
	if updated.Status != entity.BookingStatusExpired {
		t.Fatalf("status = %s, want expired", updated.Status)
	}
}

func TestExpireSkipsConfirmedBooking(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: id}, Status: entity.BookingStatusConfirmed}, nil
	}

	svc := newTestBookingService(repo, nil, now)
	expired, err := svc.Expire(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if expired {
		t.Fatal("expired = true for a confirmed booking")
	}
}

func TestRejectReturnsCouponOnly(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	productID := uuid.New()
	providerID := uuid.New()
	couponID := uuid.New()

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{
			Base:     entity.Base{ID: bookingID},
			Status:   entity.BookingStatusRequested,
			CouponID: &couponID,
		}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			ProductID: productID,
			StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Quantity:  2,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: productID}, ProviderID: providerID, DateRanged: true}, nil
	}

	usageDeleted := false
	f.CouponUsage.DeleteByBookingIDFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		usageDeleted = true
		return true, nil
	}
	f.Coupon.DecrementUsesFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	var updated *entity.Booking
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		updated = booking
		return nil
	}

	svc := newTestBookingService(repo, nil, now)
	if err := svc.Reject(context.Background(), providerID, bookingID.String(), nil); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	// Release staying nil-func proves rejection never touched the
	// availability ledger; there was no hold to return.
	if !usageDeleted {
		t.Fatal("coupon usage not deleted")
	}
	if updated.Status != entity.BookingStatusRejected {
		t.Fatalf("status = %s, want rejected", updated.Status)
	}
	if updated.CancelledAt == nil || !updated.CancelledAt.Equal(now) {
		t.Fatalf("cancelled_at = %v, want %v", updated.CancelledAt, now)
	}
}

func TestCompleteRecordsPayouts(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	productID := uuid.New()
	providerID := uuid.New()
	itemID := uuid.New()

	f.Booking.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
		return &entity.Booking{Base: entity.Base{ID: bookingID}, Status: entity.BookingStatusConfirmed}, nil
	}
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return []*entity.BookingItem{{
			BaseSimple: entity.BaseSimple{ID: itemID},
			ProductID:  productID,
			TotalPrice: 500000,
		}}, nil
	}
	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{Base: entity.Base{ID: productID}, ProviderID: providerID}, nil
	}

	var payout *entity.ProviderPayout
	f.Payout.InsertFn = func(ctx context.Context, p *entity.ProviderPayout) (bool, error) {
		if p.ID == uuid.Nil {
			t.Fatal("payout persisted with a nil id")
		}
		payout = p
		return true, nil
	}
	f.Booking.UpdateFn = func(ctx context.Context, booking *entity.Booking) error {
		return nil
	}

	svc := newTestBookingService(repo, nil, now)
	if _, err := svc.Complete(context.Background(), providerID, false, bookingID.String()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if payout == nil {
		t.Fatal("no payout recorded")
	}
	if payout.BookingItemID != itemID || payout.ProviderID != providerID {
		t.Fatalf("payout keys wrong: item=%s provider=%s", payout.BookingItemID, payout.ProviderID)
	}
	if payout.PlatformFee != 50000 || payout.NetAmount != 450000 {
		t.Fatalf("fee split = %d/%d, want 50000/450000", payout.PlatformFee, payout.NetAmount)
	}
	if payout.SettlementPeriod != "2026-08" {
		t.Fatalf("period = %s, want 2026-08", payout.SettlementPeriod)
	}
}

func TestCreateBookingWithCouponRecordsUsage(t *testing.T) {
	repo, f := newFakeRepository()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	couponID := uuid.New()
	productID := uuid.New()

	f.Product.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
		return &entity.Product{
			Base:       entity.Base{ID: productID},
			UnitPrice:  2000,
			DateRanged: false,
			IsActive:   true,
		}, nil
	}
	f.Booking.CreateFn = func(ctx context.Context, booking *entity.Booking) error {
		if booking.ID == uuid.Nil {
			t.Fatal("booking persisted with a nil id")
		}
		return nil
	}
	f.BookingItem.CreateBatchFn = func(ctx context.Context, items []*entity.BookingItem) error { return nil }
	f.BookingItem.FindByBookingIDFn = func(ctx context.Context, id uuid.UUID) ([]*entity.BookingItem, error) {
		return nil, nil
	}
	f.Coupon.IncrementUsesFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		return true, nil
	}

	var usage *entity.CouponUsage
	f.CouponUsage.InsertFn = func(ctx context.Context, u *entity.CouponUsage) (bool, error) {
		if u.ID == uuid.Nil {
			t.Fatal("coupon usage persisted with a nil id")
		}
		usage = u
		return true, nil
	}

	coupon := &stubCouponService{
		ValidateFn: func(ctx context.Context, code string, in CouponContext) (*entity.Coupon, int64, error) {
			return &entity.Coupon{Base: entity.Base{ID: couponID}, Code: code}, 400, nil
		},
	}

	svc := newTestBookingService(repo, coupon, now)
	res, err := svc.Create(context.Background(), uuid.New(), nil, &request.CreateBookingRequest{
		Items: []request.BookingItemRequest{{
			ProductID: productID.String(),
			StartDate: "2026-09-10",
			EndDate:   "2026-09-11",
			Quantity:  1,
		}},
		CouponCode: "SAVE20",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if usage == nil || usage.DiscountAmount != 400 {
		t.Fatalf("usage = %+v, want discount 400", usage)
	}
	if res.DiscountAmount != 400 || res.PayableAmount != 1600 {
		t.Fatalf("discount/payable = %d/%d, want 400/1600", res.DiscountAmount, res.PayableAmount)
	}
}
