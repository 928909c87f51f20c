package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponService interface {
	// Validate runs the rule pipeline and computes the discount without
	// consuming anything. Used by the dry-run endpoint and by booking
	// creation.
	Validate(ctx context.Context, code string, in CouponContext) (*entity.Coupon, int64, error)

	// DryRun prices the prospective items and reports whether the coupon
	// would apply and for how much, without touching any counters.
	DryRun(ctx context.Context, userID uuid.UUID, roles []string, req *request.ValidateCouponRequest) (*response.CouponValidationResponse, error)

	// Admin management
	Create(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error)
	Update(ctx context.Context, couponID string, req *request.UpdateCouponRequest) (*response.CouponResponse, error)
	GetByID(ctx context.Context, couponID string) (*response.CouponResponse, error)
	List(ctx context.Context, req *request.PaginatedRequest) ([]*response.CouponResponse, error)
	Deactivate(ctx context.Context, couponID string) error
	Assign(ctx context.Context, couponID string, req *request.AssignCouponRequest) error
	Revoke(ctx context.Context, couponID, userID string) error
	ListUsages(ctx context.Context, couponID string, req *request.PaginatedRequest) ([]*response.CouponUsageResponse, error)
}

type couponService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCouponService(repo *repository.Repository, log *zap.Logger) CouponService {
	return &couponService{
		repo: repo,
		log:  log.With(zap.String("service", "coupon")),
		now:  time.Now,
	}
}

func (s *couponService) Validate(ctx context.Context, code string, in CouponContext) (*entity.Coupon, int64, error) {
	coupon, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("find coupon %s: %w", code, err)
	}
	if coupon == nil {
		// Same answer as an unassigned private coupon, so a probing caller
		// cannot learn which codes exist.
		return nil, 0, ErrCouponNotAvailable
	}

	facts, err := s.gatherFacts(ctx, coupon, in)
	if err != nil {
		return nil, 0, err
	}

	for _, rule := range couponRules {
		if err := rule.check(coupon, in, facts); err != nil {
			s.log.Debug("Coupon rule rejected",
				zap.String("code", coupon.Code),
				zap.String("rule", rule.name),
				zap.Error(err))
			return nil, 0, err
		}
	}

	discount := computeDiscount(coupon, in.OrderAmount, in.Participants)
	return coupon, discount, nil
}

func (s *couponService) DryRun(ctx context.Context, userID uuid.UUID, roles []string, req *request.ValidateCouponRequest) (*response.CouponValidationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	priced, err := priceItems(ctx, s.repo, req.Items)
	if err != nil {
		return nil, err
	}

	in := CouponContext{
		UserID:       userID,
		Roles:        roles,
		Participants: req.Participants,
	}
	for _, item := range priced {
		in.OrderAmount += item.total
		in.ProductTypes = append(in.ProductTypes, item.product.Type)
		in.ProductIDs = append(in.ProductIDs, item.product.ID)
	}

	_, discount, err := s.Validate(ctx, req.Code, in)
	if err != nil {
		if isCouponRuleError(err) {
			return &response.CouponValidationResponse{
				Valid:       false,
				Code:        req.Code,
				OrderAmount: in.OrderAmount,
				Reason:      err.Error(),
			}, nil
		}
		return nil, err
	}

	return &response.CouponValidationResponse{
		Valid:          true,
		Code:           req.Code,
		OrderAmount:    in.OrderAmount,
		DiscountAmount: discount,
		PayableAmount:  in.OrderAmount - discount,
	}, nil
}

func (s *couponService) gatherFacts(ctx context.Context, coupon *entity.Coupon, in CouponContext) (couponFacts, error) {
	facts := couponFacts{now: s.now()}

	if coupon.MaxUsesPerUser != nil {
		uses, err := s.repo.CouponUsage.CountByCouponAndUser(ctx, coupon.ID, in.UserID)
		if err != nil {
			return facts, fmt.Errorf("count coupon uses: %w", err)
		}
		facts.userUses = uses
	}

	if coupon.Visibility == entity.CouponVisibilityPrivate {
		assigned, err := s.repo.CouponAssignment.Exists(ctx, coupon.ID, in.UserID)
		if err != nil {
			return facts, fmt.Errorf("check coupon assignment: %w", err)
		}
		facts.assigned = assigned
	}

	if coupon.FirstBookingOnly {
		count, err := s.repo.Booking.CountByUserID(ctx, in.UserID)
		if err != nil {
			return facts, fmt.Errorf("count user bookings: %w", err)
		}
		facts.priorBookings = count
	}

	return facts, nil
}

func (s *couponService) Create(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create coupon validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	validFrom, err := utils.ParseDate(req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid valid_from", ErrInvalidRequest)
	}
	validUntil, err := utils.ParseDate(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid valid_until", ErrInvalidRequest)
	}
	if !validUntil.After(validFrom) {
		return nil, fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidRequest)
	}
	if req.DiscountType == string(entity.DiscountTypePercentage) && req.DiscountValue > 100 {
		return nil, fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidRequest)
	}

	productIDs := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, idStr := range req.ProductIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %s", ErrInvalidRequest, idStr)
		}
		productIDs = append(productIDs, id)
	}

	now := s.now()
	coupon := &entity.Coupon{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      entity.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		PerPerson:         req.PerPerson,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		MinParticipants:   req.MinParticipants,
		Visibility:        entity.CouponVisibility(req.Visibility),
		AllowedRoles:      req.AllowedRoles,
		ProductTypes:      req.ProductTypes,
		ProductIDs:        productIDs,
		FirstBookingOnly:  req.FirstBookingOnly,
		MaxUses:           req.MaxUses,
		MaxUsesPerUser:    req.MaxUsesPerUser,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		IsActive:          true,
	}

	existing, err := s.repo.Coupon.FindByCode(ctx, coupon.Code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code %s: %w", coupon.Code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: coupon code %s already exists", ErrInvalidRequest, coupon.Code)
	}

	if err := s.repo.Coupon.Create(ctx, coupon); err != nil {
		s.log.Error("Failed to create coupon", zap.String("code", coupon.Code), zap.Error(err))
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.log.Info("Coupon created", zap.String("code", coupon.Code), zap.String("id", coupon.ID.String()))
	return response.CouponToResponse(coupon), nil
}

func (s *couponService) Update(ctx context.Context, couponID string, req *request.UpdateCouponRequest) (*response.CouponResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountValue != nil {
		if coupon.DiscountType == entity.DiscountTypePercentage && *req.DiscountValue > 100 {
			return nil, fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidRequest)
		}
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscountAmount != nil {
		coupon.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.MaxUsesPerUser != nil {
		coupon.MaxUsesPerUser = req.MaxUsesPerUser
	}
	if req.ValidUntil != nil {
		validUntil, err := utils.ParseDate(*req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid valid_until", ErrInvalidRequest)
		}
		coupon.ValidUntil = validUntil
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.repo.Coupon.Update(ctx, coupon); err != nil {
		s.log.Error("Failed to update coupon", zap.String("id", coupon.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	return response.CouponToResponse(coupon), nil
}

func (s *couponService) GetByID(ctx context.Context, couponID string) (*response.CouponResponse, error) {
	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}
	return response.CouponToResponse(coupon), nil
}

func (s *couponService) List(ctx context.Context, req *request.PaginatedRequest) ([]*response.CouponResponse, error) {
	coupons, err := s.repo.Coupon.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	res := make([]*response.CouponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		res = append(res, response.CouponToResponse(coupon))
	}
	return res, nil
}

func (s *couponService) Deactivate(ctx context.Context, couponID string) error {
	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return err
	}

	if err := s.repo.Coupon.Delete(ctx, coupon.ID); err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}

	s.log.Info("Coupon deactivated", zap.String("code", coupon.Code))
	return nil
}

func (s *couponService) Assign(ctx context.Context, couponID string, req *request.AssignCouponRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return err
	}
	if coupon.Visibility != entity.CouponVisibilityPrivate {
		return fmt.Errorf("%w: only private coupons can be assigned", ErrInvalidRequest)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidRequest)
	}

	if err := s.repo.CouponAssignment.Assign(ctx, coupon.ID, userID); err != nil {
		return fmt.Errorf("assign coupon: %w", err)
	}
	return nil
}

func (s *couponService) Revoke(ctx context.Context, couponID, userID string) error {
	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidRequest)
	}

	revoked, err := s.repo.CouponAssignment.Revoke(ctx, coupon.ID, userUUID)
	if err != nil {
		return fmt.Errorf("revoke coupon: %w", err)
	}
	if !revoked {
		return ErrNotFound
	}
	return nil
}

func (s *couponService) ListUsages(ctx context.Context, couponID string, req *request.PaginatedRequest) ([]*response.CouponUsageResponse, error) {
	coupon, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}

	usages, err := s.repo.CouponUsage.FindByCouponID(ctx, coupon.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list usages for coupon %s: %w", couponID, err)
	}

	res := make([]*response.CouponUsageResponse, 0, len(usages))
	for _, usage := range usages {
		res = append(res, response.CouponUsageToResponse(usage))
	}
	return res, nil
}

func (s *couponService) findCoupon(ctx context.Context, couponID string) (*entity.Coupon, error) {
	id, err := uuid.Parse(couponID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid coupon id", ErrInvalidRequest)
	}

	coupon, err := s.repo.Coupon.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", couponID, err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}
