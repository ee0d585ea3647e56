package controllers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/angelmondragon/coupon-engine/internal/coupons"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
)

type couponRequest struct {
	Type    string          `json:"type" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Details json.RawMessage `json:"details"`
	Expiry  *time.Time      `json:"expiry"`
}

// toInput parses details leniently: keys outside the document are dropped
// rather than rejected. Details must be present, even if empty.
func (req couponRequest) toInput() (coupons.CouponInput, error) {
	raw := bytes.TrimSpace(req.Details)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return coupons.CouponInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"details": "is required"})
	}
	doc, err := coupons.ParseDetailsDocument(string(req.Details))
	if err != nil {
		return coupons.CouponInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon details").
			WithDetails(map[string]any{"details": "must be a JSON object"})
	}
	return coupons.CouponInput{
		Name:      req.Name,
		Type:      req.Type,
		Details:   doc,
		ExpiresAt: req.Expiry,
	}, nil
}

type couponResponse struct {
	ID        uint64                  `json:"id"`
	Name      string                  `json:"name"`
	Type      string                  `json:"type"`
	Details   coupons.DetailsDocument `json:"details"`
	Expiry    *string                 `json:"expiry"`
	CreatedAt string                  `json:"created_at"`
	UpdatedAt string                  `json:"updated_at"`
}

type couponListResponse struct {
	Coupons []couponResponse `json:"coupons"`
}

func newCouponResponse(c coupons.Coupon) couponResponse {
	resp := couponResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type.String(),
		Details:   c.Document,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.ExpiresAt != nil {
		expiry := c.ExpiresAt.UTC().Format(time.RFC3339)
		resp.Expiry = &expiry
	}
	return resp
}
