package coupons

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/coupon-engine/pkg/enums"
	"github.com/shopspring/decimal"
)

// DetailsDocument is the stored and wire form of a coupon's details. Every
// field is optional; which ones matter depends on the coupon type.
type DetailsDocument struct {
	Threshold       *decimal.Decimal          `json:"threshold,omitempty"`
	Discount        *decimal.Decimal          `json:"discount,omitempty"`
	ProductID       *int64                    `json:"product_id,omitempty"`
	BuyProducts     []ProductQuantityDocument `json:"buy_products,omitempty"`
	GetProducts     []ProductQuantityDocument `json:"get_products,omitempty"`
	RepetitionLimit *int                      `json:"repetition_limit,omitempty"`
}

type ProductQuantityDocument struct {
	ProductID *int64 `json:"product_id,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// ParseDetailsDocument decodes a stored document. Unknown keys are ignored and
// an empty document is valid; only malformed JSON is an error.
func ParseDetailsDocument(raw string) (DetailsDocument, error) {
	var doc DetailsDocument
	if strings.TrimSpace(raw) == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return DetailsDocument{}, fmt.Errorf("parse coupon details: %w", err)
	}
	return doc, nil
}

// Encode renders the document for storage, keeping only known fields.
func (d DetailsDocument) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode coupon details: %w", err)
	}
	return string(b), nil
}

// Resolve picks the payload for couponType. It returns nil when a field the
// type needs is missing or a product entry is incomplete.
func (d DetailsDocument) Resolve(couponType enums.CouponType) Details {
	switch couponType {
	case enums.CouponTypeCartWise:
		if d.Threshold == nil || d.Discount == nil {
			return nil
		}
		return CartWiseDetails{Threshold: *d.Threshold, DiscountPercent: *d.Discount}
	case enums.CouponTypeProductWise:
		if d.ProductID == nil || d.Discount == nil {
			return nil
		}
		return ProductWiseDetails{ProductID: *d.ProductID, DiscountPercent: *d.Discount}
	case enums.CouponTypeBxGy:
		buy, ok := resolveEntries(d.BuyProducts)
		if !ok {
			return nil
		}
		get, ok := resolveEntries(d.GetProducts)
		if !ok {
			return nil
		}
		return BxGyDetails{BuyProducts: buy, GetProducts: get, RepetitionLimit: d.RepetitionLimit}
	default:
		return nil
	}
}

func resolveEntries(entries []ProductQuantityDocument) ([]ProductQuantity, bool) {
	out := make([]ProductQuantity, 0, len(entries))
	for _, e := range entries {
		if e.ProductID == nil || e.Quantity == nil || *e.Quantity < 1 {
			return nil, false
		}
		out = append(out, ProductQuantity{ProductID: *e.ProductID, Quantity: *e.Quantity})
	}
	return out, true
}
