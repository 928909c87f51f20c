package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/metrics"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Traveller endpoints
	Create(ctx context.Context, userID uuid.UUID, roles []string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, roles []string, bookingID string) (*response.BookingResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Provider endpoints
	ListByProvider(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) ([]*response.BookingResponse, error)
	Confirm(ctx context.Context, providerID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	Reject(ctx context.Context, providerID uuid.UUID, bookingID string, req *request.RejectBookingRequest) error
	Complete(ctx context.Context, providerID uuid.UUID, isAdmin bool, bookingID string) (*response.BookingResponse, error)

	// Expiry sweep, driven by the scheduler
	Expire(ctx context.Context, bookingID uuid.UUID) (bool, error)
	SweepExpired(ctx context.Context, limit int) (int, error)
}

type bookingService struct {
	repo   *repository.Repository
	coupon CouponService
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, coupon CouponService, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		coupon: coupon,
		config: config,
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

// pricedItem is a booking item after product lookup and price computation,
// before anything is persisted.
type pricedItem struct {
	product  *entity.Product
	start    time.Time
	end      time.Time
	quantity int
	total    int64
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, roles []string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	priced, err := priceItems(ctx, s.repo, req.Items)
	if err != nil {
		return nil, err
	}

	// Capacity is checked here but not reserved. The decrement happens at
	// provider confirmation, because platform-mediated products need manual
	// review before they hold inventory.
	var orderAmount int64
	for _, item := range priced {
		if item.product.Capacity > 0 && item.quantity > item.product.Capacity {
			return nil, fmt.Errorf("%w: quantity %d exceeds capacity of product %s", ErrInvalidRequest, item.quantity, item.product.ID.String())
		}
		if item.product.DateRanged {
			ok, err := s.repo.Availability.CheckAvailable(ctx, item.product.ID, item.start, item.end, item.quantity)
			if err != nil {
				return nil, fmt.Errorf("check availability for product %s: %w", item.product.ID.String(), err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: product %s has no availability for the requested dates", ErrInvalidRequest, item.product.ID.String())
			}
		}
		orderAmount += item.total
	}

	var coupon *entity.Coupon
	var discount int64
	if req.CouponCode != "" {
		in := CouponContext{
			UserID:       userID,
			Roles:        roles,
			OrderAmount:  orderAmount,
			Participants: req.Participants,
		}
		for _, item := range priced {
			in.ProductTypes = append(in.ProductTypes, item.product.Type)
			in.ProductIDs = append(in.ProductIDs, item.product.ID)
		}
		coupon, discount, err = s.coupon.Validate(ctx, req.CouponCode, in)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:      utils.GenerateBookingReference(),
		UserID:         userID,
		Status:         entity.BookingStatusRequested,
		TotalAmount:    orderAmount,
		DiscountAmount: discount,
	}
	if coupon != nil {
		booking.CouponID = &coupon.ID
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Booking.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		items := make([]*entity.BookingItem, 0, len(priced))
		for _, p := range priced {
			items = append(items, &entity.BookingItem{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				BookingID:      booking.ID,
				ProductType:    p.product.Type,
				ProductID:      p.product.ID,
				StartDate:      p.start,
				EndDate:        p.end,
				Quantity:       p.quantity,
				UnitPrice:      p.product.UnitPrice,
				TotalPrice:     p.total,
				PermitRequired: p.product.PermitRequired,
			})
		}
		if err := tx.BookingItem.CreateBatch(ctx, items); err != nil {
			return fmt.Errorf("create booking items: %w", err)
		}

		if coupon != nil {
			incremented, err := tx.Coupon.IncrementUses(ctx, coupon.ID)
			if err != nil {
				return fmt.Errorf("consume coupon use: %w", err)
			}
			if !incremented {
				return ErrCouponExhausted
			}
			inserted, err := tx.CouponUsage.Insert(ctx, &entity.CouponUsage{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				CouponID:       coupon.ID,
				UserID:         userID,
				BookingID:      booking.ID,
				DiscountAmount: discount,
			})
			if err != nil {
				return fmt.Errorf("record coupon usage: %w", err)
			}
			if !inserted {
				return fmt.Errorf("coupon usage already recorded for booking %s", booking.ID.String())
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.Int64("total_amount", orderAmount),
		zap.Int64("discount", discount),
		zap.Time("at", now),
	)

	items, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking items: %w", err)
	}
	return response.BookingToResponse(booking, items), nil
}

// priceItems resolves products and computes line totals. Date-ranged
// products charge per unit per day over [start, end).
func priceItems(ctx context.Context, repo *repository.Repository, reqs []request.BookingItemRequest) ([]pricedItem, error) {
	priced := make([]pricedItem, 0, len(reqs))
	for _, item := range reqs {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %s", ErrInvalidRequest, item.ProductID)
		}

		start, err := utils.ParseDate(item.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date", ErrInvalidRequest)
		}
		end, err := utils.ParseDate(item.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date", ErrInvalidRequest)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidRequest)
		}

		product, err := repo.Product.FindByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("find product %s: %w", productID.String(), err)
		}
		if product == nil || !product.IsActive {
			return nil, fmt.Errorf("product %s: %w", productID.String(), ErrNotFound)
		}

		units := int64(item.Quantity)
		if product.DateRanged {
			units *= int64(len(repository.DaysIn(start, end)))
		}

		priced = append(priced, pricedItem{
			product:  product,
			start:    start,
			end:      end,
			quantity: item.Quantity,
			total:    product.UnitPrice * units,
		})
	}
	return priced, nil
}

func (s *bookingService) GetByID(ctx context.Context, userID uuid.UUID, roles []string, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking items: %w", err)
	}

	if booking.UserID != userID && !hasRole(roles, "admin") {
		owns, err := s.actorOwnsItems(ctx, userID, roles, items)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrForbidden
		}
	}

	return response.BookingToResponse(booking, items), nil
}

// actorOwnsItems reports whether every item in the booking belongs to the
// caller's provider. Providers see bookings touching their own products and
// nothing else.
func (s *bookingService) actorOwnsItems(ctx context.Context, userID uuid.UUID, roles []string, items []*entity.BookingItem) (bool, error) {
	if !hasRole(roles, "provider") {
		return false, nil
	}
	providerID, ok := utils.GetProviderIDFromContext(ctx)
	if !ok {
		return false, nil
	}
	return s.providerOwnsItems(ctx, providerID, items)
}

func (s *bookingService) providerOwnsItems(ctx context.Context, providerID uuid.UUID, items []*entity.BookingItem) (bool, error) {
	for _, item := range items {
		product, err := s.repo.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			return false, fmt.Errorf("find product %s: %w", item.ProductID.String(), err)
		}
		if product == nil || product.ProviderID != providerID {
			return false, nil
		}
	}
	return true, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, *response.BookingToResponse(booking, nil))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) ListByProvider(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) ([]*response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByProviderID(ctx, providerID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}

	res := make([]*response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		res = append(res, response.BookingToResponse(booking, nil))
	}
	return res, nil
}

func (s *bookingService) Confirm(ctx context.Context, providerID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	var confirmed *entity.Booking

	err := s.withLockedBooking(ctx, bookingID, func(tx *repository.Repository, booking *entity.Booking) error {
		if booking.Status != entity.BookingStatusRequested {
			return ErrInvalidState
		}

		items, err := tx.BookingItem.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("load booking items: %w", err)
		}

		// Ownership and reservation in one pass. The reserve is conditional
		// per day; any short day aborts the whole transaction, so no partial
		// decrement survives a shortfall.
		for _, item := range items {
			product, err := tx.Product.FindByID(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("find product %s: %w", item.ProductID.String(), err)
			}
			if product == nil || product.ProviderID != providerID {
				return ErrForbidden
			}
			if !product.DateRanged {
				continue
			}
			if err := tx.Availability.Reserve(ctx, item.ProductID, item.StartDate, item.EndDate, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrCapacityExceeded) {
					return fmt.Errorf("product %s: %w", item.ProductID.String(), ErrCapacityExceeded)
				}
				return fmt.Errorf("reserve inventory: %w", err)
			}
		}

		now := s.now()
		expiresAt := now.Add(time.Duration(s.config.Booking.PaymentWindowMinutes) * time.Minute)
		booking.Status = entity.BookingStatusAwaitingPayment
		booking.ExpiresAt = &expiresAt
		booking.UpdatedAt = now
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}

		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed by provider, awaiting payment",
		zap.String("booking_id", confirmed.ID.String()),
		zap.Timep("expires_at", confirmed.ExpiresAt),
	)
	return response.BookingToResponse(confirmed, nil), nil
}

func (s *bookingService) Reject(ctx context.Context, providerID uuid.UUID, bookingID string, req *request.RejectBookingRequest) error {
	err := s.withLockedBooking(ctx, bookingID, func(tx *repository.Repository, booking *entity.Booking) error {
		if booking.Status != entity.BookingStatusRequested {
			return ErrInvalidState
		}

		items, err := tx.BookingItem.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("load booking items: %w", err)
		}
		owns, err := s.providerOwnsItems(ctx, providerID, items)
		if err != nil {
			return err
		}
		if !owns {
			return ErrForbidden
		}

		// Nothing was reserved yet at this stage; only the coupon hold goes
		// back.
		if err := releaseCouponHold(ctx, tx, booking); err != nil {
			return err
		}

		now := s.now()
		booking.Status = entity.BookingStatusRejected
		booking.CancelledAt = &now
		booking.ExpiresAt = nil
		booking.UpdatedAt = now
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("reject booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	reason := ""
	if req != nil {
		reason = req.Reason
	}
	s.log.Info("Booking rejected by provider",
		zap.String("booking_id", bookingID),
		zap.String("reason", reason),
	)
	return nil
}

func (s *bookingService) Complete(ctx context.Context, providerID uuid.UUID, isAdmin bool, bookingID string) (*response.BookingResponse, error) {
	var completed *entity.Booking

	err := s.withLockedBooking(ctx, bookingID, func(tx *repository.Repository, booking *entity.Booking) error {
		if booking.Status != entity.BookingStatusConfirmed {
			return ErrInvalidState
		}

		items, err := tx.BookingItem.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("load booking items: %w", err)
		}

		if !isAdmin {
			owns, err := s.providerOwnsItems(ctx, providerID, items)
			if err != nil {
				return err
			}
			if !owns {
				return ErrForbidden
			}
		}

		now := s.now()
		// Discount is the platform's cost, so payouts are computed from the
		// undiscounted item price.
		for _, item := range items {
			product, err := tx.Product.FindByID(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("find product %s: %w", item.ProductID.String(), err)
			}
			if product == nil {
				return fmt.Errorf("product %s vanished for item %s", item.ProductID.String(), item.ID.String())
			}

			fee := item.TotalPrice * int64(s.config.Booking.PlatformFeePercent) / 100
			payout := &entity.ProviderPayout{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				BookingItemID:    item.ID,
				ProviderID:       product.ProviderID,
				Amount:           item.TotalPrice,
				PlatformFee:      fee,
				NetAmount:        item.TotalPrice - fee,
				Status:           entity.PayoutStatusPending,
				SettlementPeriod: now.Format("2006-01"),
			}
			if _, err := tx.Payout.Insert(ctx, payout); err != nil {
				return fmt.Errorf("create payout for item %s: %w", item.ID.String(), err)
			}
		}

		booking.Status = entity.BookingStatusCompleted
		booking.UpdatedAt = now
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("complete booking: %w", err)
		}

		completed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking completed, payouts recorded", zap.String("booking_id", completed.ID.String()))
	return response.BookingToResponse(completed, nil), nil
}

// Expire reclaims one overdue booking. Returns false without error when the
// booking moved on before the lock was taken, which happens when a capture
// races the sweep.
func (s *bookingService) Expire(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	expired := false

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", bookingID.String(), err)
		}
		if booking == nil {
			return nil
		}

		now := s.now()
		if booking.Status != entity.BookingStatusAwaitingPayment && booking.Status != entity.BookingStatusPaymentFailed {
			return nil
		}
		if booking.ExpiresAt == nil || booking.ExpiresAt.After(now) {
			return nil
		}

		if err := releaseBookingHolds(ctx, tx, s.log, booking); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusExpired
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("expire booking: %w", err)
		}

		expired = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if expired {
		metrics.BookingsExpired.Inc()
		s.log.Info("Booking expired, holds released", zap.String("booking_id", bookingID.String()))
	}
	return expired, nil
}

// SweepExpired expires each overdue booking in its own transaction so one
// bad booking cannot block the rest of the batch.
func (s *bookingService) SweepExpired(ctx context.Context, limit int) (int, error) {
	ids, err := s.repo.Booking.FindExpiredHolds(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("find expired bookings: %w", err)
	}

	count := 0
	for _, id := range ids {
		expired, err := s.Expire(ctx, id)
		if err != nil {
			s.log.Error("Failed to expire booking", zap.String("booking_id", id.String()), zap.Error(err))
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}

func (s *bookingService) withLockedBooking(ctx context.Context, bookingID string, fn func(tx *repository.Repository, booking *entity.Booking) error) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking id", ErrInvalidRequest)
	}

	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", bookingID, err)
		}
		if booking == nil {
			return ErrNotFound
		}
		return fn(tx, booking)
	})
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidRequest)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	return booking, nil
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
