package discounts

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/coupon-engine/internal/coupons"
	"github.com/angelmondragon/coupon-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
	"github.com/shopspring/decimal"
)

// CouponSource is the read side of the coupon store.
type CouponSource interface {
	GetCoupon(ctx context.Context, id uint64) (coupons.Coupon, error)
	ListCoupons(ctx context.Context) ([]coupons.Coupon, error)
}

type metricsRecorder interface {
	IncEvaluation(couponType, outcome string)
	AddDiscount(couponType string, amount decimal.Decimal)
	ObserveDuration(operation string, d time.Duration)
}

// Applicable is one entry of the applicable-coupons listing.
type Applicable struct {
	CouponID uint64
	Type     enums.CouponType
	Discount decimal.Decimal
}

// Service evaluates stored coupons against carts.
type Service interface {
	ApplicableCoupons(ctx context.Context, cart Cart) ([]Applicable, error)
	ApplyCoupon(ctx context.Context, couponID uint64, cart Cart) (AppliedCart, error)
}

// ServiceParams groups dependencies for the evaluation service.
type ServiceParams struct {
	Coupons CouponSource
	Metrics metricsRecorder
	Logger  *logger.Logger
	Clock   func() time.Time
}

type service struct {
	coupons CouponSource
	metrics metricsRecorder
	logg    *logger.Logger
	clock   func() time.Time
}

// NewService builds the evaluation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Coupons == nil {
		return nil, errors.New("coupon source is required")
	}
	if params.Metrics == nil {
		return nil, errors.New("metrics recorder is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		coupons: params.Coupons,
		metrics: params.Metrics,
		logg:    params.Logger,
		clock:   params.Clock,
	}, nil
}

// ApplicableCoupons lists every unexpired coupon with a positive discount on
// cart, in store order. The store is read once.
func (s *service) ApplicableCoupons(ctx context.Context, cart Cart) ([]Applicable, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration("applicable", time.Since(started)) }()

	if err := cart.Validate(); err != nil {
		return nil, err
	}

	all, err := s.coupons.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	view := newCartView(cart)
	out := make([]Applicable, 0)
	for _, c := range all {
		if IsExpired(c, now) {
			s.metrics.IncEvaluation(c.Type.String(), enums.EvaluationOutcomeExpired.String())
			continue
		}
		discount := evaluate(c, view).total()
		if !discount.IsPositive() {
			s.metrics.IncEvaluation(c.Type.String(), enums.EvaluationOutcomeNotApplicable.String())
			continue
		}
		s.metrics.IncEvaluation(c.Type.String(), enums.EvaluationOutcomeApplied.String())
		out = append(out, Applicable{CouponID: c.ID, Type: c.Type, Discount: discount})
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"cart_items":         len(cart.Items),
		"coupons_considered": len(all),
		"coupons_applicable": len(out),
	})
	s.logg.Info(ctx, "discount.applicable_listed")
	return out, nil
}

// ApplyCoupon applies one coupon. Unknown ids fail with NOT_FOUND and
// expired coupons with STATE_CONFLICT.
func (s *service) ApplyCoupon(ctx context.Context, couponID uint64, cart Cart) (AppliedCart, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration("apply", time.Since(started)) }()

	if err := cart.Validate(); err != nil {
		return AppliedCart{}, err
	}

	c, err := s.coupons.GetCoupon(ctx, couponID)
	if err != nil {
		return AppliedCart{}, err
	}

	ctx = s.logg.WithCouponID(ctx, c.ID)
	if IsExpired(c, s.clock()) {
		s.metrics.IncEvaluation(c.Type.String(), enums.EvaluationOutcomeExpired.String())
		s.logg.Warn(ctx, "discount.apply_expired")
		return AppliedCart{}, pkgerrors.Newf(pkgerrors.CodeInvalidState, "coupon %d has expired", c.ID).
			WithDetails(map[string]any{"coupon_id": c.ID, "expired_at": c.ExpiresAt})
	}

	applied := Apply(c, cart)
	outcome := enums.EvaluationOutcomeApplied
	if !applied.TotalDiscount.IsPositive() {
		outcome = enums.EvaluationOutcomeNotApplicable
	}
	s.metrics.IncEvaluation(c.Type.String(), outcome.String())
	s.metrics.AddDiscount(c.Type.String(), applied.TotalDiscount)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"coupon_type":    c.Type,
		"total_discount": applied.TotalDiscount.StringFixed(2),
	})
	s.logg.Info(ctx, "discount.applied")
	return applied, nil
}
