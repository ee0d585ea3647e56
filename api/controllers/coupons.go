package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/coupon-engine/api/responses"
	"github.com/angelmondragon/coupon-engine/api/validators"
	"github.com/angelmondragon/coupon-engine/internal/coupons"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
)

// CouponService describes the coupon store methods used by the HTTP controllers.
type CouponService interface {
	CreateCoupon(ctx context.Context, input coupons.CouponInput) (coupons.Coupon, error)
	GetCoupon(ctx context.Context, id uint64) (coupons.Coupon, error)
	ListCoupons(ctx context.Context) ([]coupons.Coupon, error)
	UpdateCoupon(ctx context.Context, id uint64, input coupons.CouponInput) (coupons.Coupon, error)
	DeleteCoupon(ctx context.Context, id uint64) error
}

func couponServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable")
}

func CouponCreate(svc CouponService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, couponServiceUnavailable())
			return
		}

		var req couponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.CreateCoupon(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCouponResponse(created))
	}
}

func CouponList(svc CouponService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, couponServiceUnavailable())
			return
		}

		list, err := svc.ListCoupons(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := couponListResponse{Coupons: make([]couponResponse, 0, len(list))}
		for _, c := range list {
			resp.Coupons = append(resp.Coupons, newCouponResponse(c))
		}
		responses.WriteSuccess(w, resp)
	}
}

func CouponGet(svc CouponService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, couponServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		c, err := svc.GetCoupon(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCouponResponse(c))
	}
}

// CouponUpdate replaces every field of an existing coupon.
func CouponUpdate(svc CouponService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, couponServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req couponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.UpdateCoupon(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCouponResponse(updated))
	}
}

func CouponDelete(svc CouponService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, couponServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteCoupon(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
