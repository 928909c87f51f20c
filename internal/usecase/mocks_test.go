package usecase

import (
	"context"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Func-field fakes for the repository interfaces. Tests set only the
// functions they expect to be called; anything else panics loudly.

type fakeBookingRepo struct {
	CreateFn            func(ctx context.Context, booking *entity.Booking) error
	FindByIDFn          func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserIDFn      func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserIDFn     func(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByProviderIDFn  func(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	FindExpiredHoldsFn  func(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	UpdateStatusFn      func(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
	UpdateFn            func(ctx context.Context, booking *entity.Booking) error
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return f.CreateFn(ctx, booking)
}
func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByIDForUpdateFn(ctx, id)
}
func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return f.FindByUserIDFn(ctx, userID, limit, offset)
}
func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.CountByUserIDFn(ctx, userID)
}
func (f *fakeBookingRepo) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return f.FindByProviderIDFn(ctx, providerID, limit, offset)
}
func (f *fakeBookingRepo) FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	return f.FindExpiredHoldsFn(ctx, now, limit)
}
func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	return f.UpdateStatusFn(ctx, bookingID, status)
}
func (f *fakeBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	return f.UpdateFn(ctx, booking)
}

type fakeBookingItemRepo struct {
	CreateBatchFn     func(ctx context.Context, items []*entity.BookingItem) error
	FindByBookingIDFn func(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error)
	FindByIDFn        func(ctx context.Context, id uuid.UUID) (*entity.BookingItem, error)
}

func (f *fakeBookingItemRepo) CreateBatch(ctx context.Context, items []*entity.BookingItem) error {
	return f.CreateBatchFn(ctx, items)
}
func (f *fakeBookingItemRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	return f.FindByBookingIDFn(ctx, bookingID)
}
func (f *fakeBookingItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingItem, error) {
	return f.FindByIDFn(ctx, id)
}

type fakeAvailabilityRepo struct {
	ReserveFn        func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error
	ReleaseFn        func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error
	CheckAvailableFn func(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error)
	FindRangeFn      func(ctx context.Context, resourceID uuid.UUID, start, end time.Time) ([]*entity.AvailabilityRecord, error)
}

func (f *fakeAvailabilityRepo) Reserve(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
	return f.ReserveFn(ctx, resourceID, start, end, quantity)
}
func (f *fakeAvailabilityRepo) Release(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
	return f.ReleaseFn(ctx, resourceID, start, end, quantity)
}
func (f *fakeAvailabilityRepo) CheckAvailable(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error) {
	return f.CheckAvailableFn(ctx, resourceID, start, end, quantity)
}
func (f *fakeAvailabilityRepo) FindRange(ctx context.Context, resourceID uuid.UUID, start, end time.Time) ([]*entity.AvailabilityRecord, error) {
	return f.FindRangeFn(ctx, resourceID, start, end)
}

type fakeProductRepo struct {
	FindByIDFn        func(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByTypeAndIDFn func(ctx context.Context, productType entity.ProductType, id uuid.UUID) (*entity.Product, error)
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeProductRepo) FindByTypeAndID(ctx context.Context, productType entity.ProductType, id uuid.UUID) (*entity.Product, error) {
	return f.FindByTypeAndIDFn(ctx, productType, id)
}

type fakePaymentRepo struct {
	CreateFn                 func(ctx context.Context, payment *entity.Payment) error
	FindByIDFn               func(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByBookingIDFn        func(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindByGatewayOrderIDFn   func(ctx context.Context, gatewayOrderID string) (*entity.Payment, error)
	FindByGatewayPaymentIDFn func(ctx context.Context, gatewayPaymentID string) (*entity.Payment, error)
	UpdateStatusFn           func(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error
	MarkCapturedFn           func(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID string) error
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	return f.CreateFn(ctx, payment)
}
func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakePaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	return f.FindByBookingIDFn(ctx, bookingID)
}
func (f *fakePaymentRepo) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*entity.Payment, error) {
	return f.FindByGatewayOrderIDFn(ctx, gatewayOrderID)
}
func (f *fakePaymentRepo) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*entity.Payment, error) {
	return f.FindByGatewayPaymentIDFn(ctx, gatewayPaymentID)
}
func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error {
	return f.UpdateStatusFn(ctx, paymentID, status)
}
func (f *fakePaymentRepo) MarkCaptured(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID string) error {
	return f.MarkCapturedFn(ctx, paymentID, gatewayPaymentID)
}

type fakeRefundRepo struct {
	UpsertFn                  func(ctx context.Context, refund *entity.Refund) error
	SumProcessedByPaymentIDFn func(ctx context.Context, paymentID uuid.UUID) (int64, error)
	SumNonFailedByPaymentIDFn func(ctx context.Context, paymentID uuid.UUID) (int64, error)
	FindByPaymentIDFn         func(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error)
}

func (f *fakeRefundRepo) Upsert(ctx context.Context, refund *entity.Refund) error {
	return f.UpsertFn(ctx, refund)
}
func (f *fakeRefundRepo) SumProcessedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	return f.SumProcessedByPaymentIDFn(ctx, paymentID)
}
func (f *fakeRefundRepo) SumNonFailedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	return f.SumNonFailedByPaymentIDFn(ctx, paymentID)
}
func (f *fakeRefundRepo) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	return f.FindByPaymentIDFn(ctx, paymentID)
}

type fakeWebhookEventRepo struct {
	InsertFn                func(ctx context.Context, event *entity.WebhookEvent) (bool, error)
	FindByIDFn              func(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error)
	FindByProviderEventIDFn func(ctx context.Context, provider, providerEventID string) (*entity.WebhookEvent, error)
	MarkProcessedFn         func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeWebhookEventRepo) Insert(ctx context.Context, event *entity.WebhookEvent) (bool, error) {
	return f.InsertFn(ctx, event)
}
func (f *fakeWebhookEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeWebhookEventRepo) FindByProviderEventID(ctx context.Context, provider, providerEventID string) (*entity.WebhookEvent, error) {
	return f.FindByProviderEventIDFn(ctx, provider, providerEventID)
}
func (f *fakeWebhookEventRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return f.MarkProcessedFn(ctx, id)
}

type fakeCouponRepo struct {
	CreateFn        func(ctx context.Context, coupon *entity.Coupon) error
	FindByIDFn      func(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	FindByCodeFn    func(ctx context.Context, code string) (*entity.Coupon, error)
	UpdateFn        func(ctx context.Context, coupon *entity.Coupon) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	ListFn          func(ctx context.Context, limit, offset int) ([]*entity.Coupon, error)
	IncrementUsesFn func(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementUsesFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeCouponRepo) Create(ctx context.Context, coupon *entity.Coupon) error {
	return f.CreateFn(ctx, coupon)
}
func (f *fakeCouponRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeCouponRepo) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	return f.FindByCodeFn(ctx, code)
}
func (f *fakeCouponRepo) Update(ctx context.Context, coupon *entity.Coupon) error {
	return f.UpdateFn(ctx, coupon)
}
func (f *fakeCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.DeleteFn(ctx, id)
}
func (f *fakeCouponRepo) List(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	return f.ListFn(ctx, limit, offset)
}
func (f *fakeCouponRepo) IncrementUses(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.IncrementUsesFn(ctx, id)
}
func (f *fakeCouponRepo) DecrementUses(ctx context.Context, id uuid.UUID) error {
	return f.DecrementUsesFn(ctx, id)
}

type fakeCouponUsageRepo struct {
	InsertFn               func(ctx context.Context, usage *entity.CouponUsage) (bool, error)
	CountByCouponAndUserFn func(ctx context.Context, couponID, userID uuid.UUID) (int, error)
	FindByCouponIDFn       func(ctx context.Context, couponID uuid.UUID, limit, offset int) ([]*entity.CouponUsage, error)
	DeleteByBookingIDFn    func(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

func (f *fakeCouponUsageRepo) Insert(ctx context.Context, usage *entity.CouponUsage) (bool, error) {
	return f.InsertFn(ctx, usage)
}
func (f *fakeCouponUsageRepo) CountByCouponAndUser(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	return f.CountByCouponAndUserFn(ctx, couponID, userID)
}
func (f *fakeCouponUsageRepo) FindByCouponID(ctx context.Context, couponID uuid.UUID, limit, offset int) ([]*entity.CouponUsage, error) {
	return f.FindByCouponIDFn(ctx, couponID, limit, offset)
}
func (f *fakeCouponUsageRepo) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	return f.DeleteByBookingIDFn(ctx, bookingID)
}

type fakeCouponAssignmentRepo struct {
	AssignFn func(ctx context.Context, couponID, userID uuid.UUID) error
	RevokeFn func(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
	ExistsFn func(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
}

func (f *fakeCouponAssignmentRepo) Assign(ctx context.Context, couponID, userID uuid.UUID) error {
	return f.AssignFn(ctx, couponID, userID)
}
func (f *fakeCouponAssignmentRepo) Revoke(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	return f.RevokeFn(ctx, couponID, userID)
}
func (f *fakeCouponAssignmentRepo) Exists(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	return f.ExistsFn(ctx, couponID, userID)
}

type fakePayoutRepo struct {
	InsertFn           func(ctx context.Context, payout *entity.ProviderPayout) (bool, error)
	FindByIDFn         func(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error)
	FindByProviderIDFn func(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.ProviderPayout, error)
	ListFn             func(ctx context.Context, limit, offset int) ([]*entity.ProviderPayout, error)
	MarkPaidFn         func(ctx context.Context, id uuid.UUID) (bool, error)
	MarkFailedFn       func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (f *fakePayoutRepo) Insert(ctx context.Context, payout *entity.ProviderPayout) (bool, error) {
	return f.InsertFn(ctx, payout)
}
func (f *fakePayoutRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakePayoutRepo) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.ProviderPayout, error) {
	return f.FindByProviderIDFn(ctx, providerID, limit, offset)
}
func (f *fakePayoutRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProviderPayout, error) {
	return f.ListFn(ctx, limit, offset)
}
func (f *fakePayoutRepo) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.MarkPaidFn(ctx, id)
}
func (f *fakePayoutRepo) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.MarkFailedFn(ctx, id)
}

// newFakeRepository assembles a Repository over the fakes. No pool behind
// it, so WithTx runs the callback against the same set.
func newFakeRepository() (*repository.Repository, *fakes) {
	f := &fakes{
		Booking:          &fakeBookingRepo{},
		BookingItem:      &fakeBookingItemRepo{},
		Availability:     &fakeAvailabilityRepo{},
		Product:          &fakeProductRepo{},
		Payment:          &fakePaymentRepo{},
		Refund:           &fakeRefundRepo{},
		WebhookEvent:     &fakeWebhookEventRepo{},
		Coupon:           &fakeCouponRepo{},
		CouponUsage:      &fakeCouponUsageRepo{},
		CouponAssignment: &fakeCouponAssignmentRepo{},
		Payout:           &fakePayoutRepo{},
	}

	repo := &repository.Repository{
		Booking:          f.Booking,
		BookingItem:      f.BookingItem,
		Availability:     f.Availability,
		Product:          f.Product,
		Payment:          f.Payment,
		Refund:           f.Refund,
		WebhookEvent:     f.WebhookEvent,
		Coupon:           f.Coupon,
		CouponUsage:      f.CouponUsage,
		CouponAssignment: f.CouponAssignment,
		Payout:           f.Payout,
	}
	return repo, f
}

type fakes struct {
	Booking          *fakeBookingRepo
	BookingItem      *fakeBookingItemRepo
	Availability     *fakeAvailabilityRepo
	Product          *fakeProductRepo
	Payment          *fakePaymentRepo
	Refund           *fakeRefundRepo
	WebhookEvent     *fakeWebhookEventRepo
	Coupon           *fakeCouponRepo
	CouponUsage      *fakeCouponUsageRepo
	CouponAssignment *fakeCouponAssignmentRepo
	Payout           *fakePayoutRepo
}
