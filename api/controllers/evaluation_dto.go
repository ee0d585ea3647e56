package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/coupon-engine/internal/discounts"
)

type cartItemRequest struct {
	ProductID *int64           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=1,max=1000000"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
}

type cartPayload struct {
	Items []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type cartRequest struct {
	Cart cartPayload `json:"cart"`
}

func (req cartRequest) toCart() discounts.Cart {
	items := make([]discounts.Item, 0, len(req.Cart.Items))
	for _, item := range req.Cart.Items {
		items = append(items, discounts.Item{
			ProductID: *item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: *item.Price,
		})
	}
	return discounts.Cart{Items: items}
}

type applicableCouponResponse struct {
	CouponID uint64 `json:"coupon_id"`
	Type     string `json:"type"`
	Discount string `json:"discount"`
}

type applicableCouponsResponse struct {
	ApplicableCoupons []applicableCouponResponse `json:"applicable_coupons"`
}

func newApplicableCouponsResponse(list []discounts.Applicable) applicableCouponsResponse {
	resp := applicableCouponsResponse{ApplicableCoupons: make([]applicableCouponResponse, 0, len(list))}
	for _, a := range list {
		resp.ApplicableCoupons = append(resp.ApplicableCoupons, applicableCouponResponse{
			CouponID: a.CouponID,
			Type:     a.Type.String(),
			Discount: a.Discount.StringFixed(2),
		})
	}
	return resp
}

type updatedCartItemResponse struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Price         string `json:"price"`
	TotalDiscount string `json:"total_discount"`
}

type updatedCartResponse struct {
	Items         []updatedCartItemResponse `json:"items"`
	TotalPrice    string                    `json:"total_price"`
	TotalDiscount string                    `json:"total_discount"`
	FinalPrice    string                    `json:"final_price"`
}

type applyCouponResponse struct {
	UpdatedCart updatedCartResponse `json:"updated_cart"`
}

func newApplyCouponResponse(cart discounts.AppliedCart) applyCouponResponse {
	items := make([]updatedCartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, updatedCartItemResponse{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Price:         item.UnitPrice.StringFixed(2),
			TotalDiscount: item.LineDiscount.StringFixed(2),
		})
	}
	return applyCouponResponse{UpdatedCart: updatedCartResponse{
		Items:         items,
		TotalPrice:    cart.TotalPrice.StringFixed(2),
		TotalDiscount: cart.TotalDiscount.StringFixed(2),
		FinalPrice:    cart.FinalPrice.StringFixed(2),
	}}
}
