package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/coupon-engine/api/responses"
	"github.com/angelmondragon/coupon-engine/api/validators"
	"github.com/angelmondragon/coupon-engine/internal/discounts"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
)

// DiscountService describes the evaluation methods used by the HTTP controllers.
type DiscountService interface {
	ApplicableCoupons(ctx context.Context, cart discounts.Cart) ([]discounts.Applicable, error)
	ApplyCoupon(ctx context.Context, couponID uint64, cart discounts.Cart) (discounts.AppliedCart, error)
}

func ApplicableCoupons(svc DiscountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var req cartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ApplicableCoupons(ctx, req.toCart())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newApplicableCouponsResponse(list))
	}
}

func ApplyCoupon(svc DiscountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req cartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applied, err := svc.ApplyCoupon(ctx, id, req.toCart())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newApplyCouponResponse(applied))
	}
}
