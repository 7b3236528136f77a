package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomart/velomart-backend/pkg/db"
	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// Service defines coupon administration plus the redemption surface used by
// order placement.
type Service interface {
	Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	List(ctx context.Context, filter ListFilter) ([]CouponDTO, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Validate(ctx context.Context, code string, userID uuid.UUID, subtotalCents int) (*ValidationResult, error)
	Apply(ctx context.Context, code string, userID, orderID uuid.UUID, subtotalCents int) (int, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires coupon dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "coupons repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid coupon type %q", input.Type)
	}
	if input.Value.IsNegative() || input.Value.IsZero() {
		if input.Type != enums.CouponTypeFreeDelivery {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
		}
	}
	if input.Type == enums.CouponTypePercentage && input.Value.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
	}
	if !input.ValidTo.After(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validTo must be after validFrom")
	}

	coupon := &dbmodels.Coupon{
		Code:             input.Code,
		Type:             input.Type,
		Value:            input.Value,
		MinOrderCents:    input.MinOrderCents,
		MaxDiscountCents: input.MaxDiscountCents,
		ValidFrom:        input.ValidFrom,
		ValidTo:          input.ValidTo,
		UsageLimit:       input.UsageLimit,
		PerUserLimit:     input.PerUserLimit,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "coupon_code", coupon.Code), "coupon created")
	}
	return FromModel(coupon), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.findCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(coupon), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]CouponDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*CouponDTO, error) {
	coupon, err := s.findCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Value != nil {
		if input.Value.IsNegative() || input.Value.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
		}
		coupon.Value = *input.Value
	}
	if input.MinOrderCents != nil {
		coupon.MinOrderCents = *input.MinOrderCents
	}
	if input.MaxDiscountCents != nil {
		coupon.MaxDiscountCents = input.MaxDiscountCents
	}
	if input.ValidTo != nil {
		coupon.ValidTo = *input.ValidTo
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = input.UsageLimit
	}
	if input.PerUserLimit != nil {
		coupon.PerUserLimit = input.PerUserLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return FromModel(coupon), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return nil
}

func (s *service) Validate(ctx context.Context, code string, userID uuid.UUID, subtotalCents int) (*ValidationResult, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}

	if reason, err := s.eligibility(ctx, coupon, userID, subtotalCents); err != nil {
		return nil, err
	} else if reason != "" {
		return &ValidationResult{Valid: false, Reason: reason}, nil
	}

	return &ValidationResult{
		Valid:         true,
		DiscountCents: discountCents(coupon, subtotalCents),
		FreeDelivery:  coupon.Type == enums.CouponTypeFreeDelivery,
	}, nil
}

// Apply redeems the coupon for an order and returns the discount in cents.
// The used_count bump is guarded in SQL so concurrent redemptions cannot
// exceed the usage limit.
func (s *service) Apply(ctx context.Context, code string, userID, orderID uuid.UUID, subtotalCents int) (int, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find coupon")
	}
	if coupon == nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}

	reason, err := s.eligibility(ctx, coupon, userID, subtotalCents)
	if err != nil {
		return 0, err
	}
	if reason != "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, reason)
	}

	claimed, err := s.repo.ClaimUse(ctx, coupon.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim coupon use")
	}
	if !claimed {
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}

	discount := discountCents(coupon, subtotalCents)
	usage := &dbmodels.CouponUsage{
		CouponID:      coupon.ID,
		UserID:        userID,
		OrderID:       orderID,
		DiscountCents: discount,
	}
	if err := s.repo.RecordUsage(ctx, usage); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon usage")
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(s.logg.WithField(logCtx, "coupon_code", coupon.Code), "coupon applied")
	}
	return discount, nil
}

// eligibility returns a human-readable reason when the coupon cannot be used,
// or empty string when it can.
func (s *service) eligibility(ctx context.Context, coupon *dbmodels.Coupon, userID uuid.UUID, subtotalCents int) (string, error) {
	now := time.Now().UTC()
	switch {
	case !coupon.IsActive:
		return "coupon is not active", nil
	case now.Before(coupon.ValidFrom):
		return "coupon is not yet valid", nil
	case now.After(coupon.ValidTo):
		return "coupon has expired", nil
	case subtotalCents < coupon.MinOrderCents:
		return "order does not meet the coupon minimum", nil
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return "coupon usage limit reached", nil
	}
	if coupon.PerUserLimit != nil && userID != uuid.Nil {
		used, err := s.repo.CountUsageForUser(ctx, coupon.ID, userID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon usage")
		}
		if used >= int64(*coupon.PerUserLimit) {
			return "per-user coupon limit reached", nil
		}
	}
	return "", nil
}

// discountCents computes the discount for an order subtotal. Fixed coupons
// carry a cent amount in Value; percentage coupons a 0..100 rate. Free
// delivery coupons do not discount the item subtotal.
func discountCents(coupon *dbmodels.Coupon, subtotalCents int) int {
	var cents int
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount := decimal.NewFromInt(int64(subtotalCents)).
			Mul(coupon.Value).
			Div(oneHundred)
		cents = int(discount.IntPart())
		if coupon.MaxDiscountCents != nil && cents > *coupon.MaxDiscountCents {
			cents = *coupon.MaxDiscountCents
		}
	case enums.CouponTypeFixed:
		cents = int(coupon.Value.IntPart())
	case enums.CouponTypeFreeDelivery:
		return 0
	}
	if cents > subtotalCents {
		cents = subtotalCents
	}
	if cents < 0 {
		cents = 0
	}
	return cents
}

func (s *service) findCoupon(ctx context.Context, id uuid.UUID) (*dbmodels.Coupon, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}
	coupon, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return coupon, nil
}
