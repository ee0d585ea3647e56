package coupons

import (
	"time"

	"github.com/angelmondragon/coupon-engine/pkg/db/models"
	"github.com/angelmondragon/coupon-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// Coupon is the evaluation-ready view of a stored coupon. Details is nil when
// the stored document lacks a field its type needs; such a coupon never
// applies. Document keeps the stored fields as written.
type Coupon struct {
	ID        uint64
	Name      string
	Type      enums.CouponType
	ExpiresAt *time.Time
	Details   Details
	Document  DetailsDocument
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Details is the per-type payload. The concrete value is one of
// CartWiseDetails, ProductWiseDetails or BxGyDetails.
type Details interface {
	CouponType() enums.CouponType
}

// CartWiseDetails discounts the whole cart once its total exceeds Threshold.
type CartWiseDetails struct {
	Threshold       decimal.Decimal
	DiscountPercent decimal.Decimal
}

func (CartWiseDetails) CouponType() enums.CouponType { return enums.CouponTypeCartWise }

// ProductWiseDetails discounts the line carrying ProductID.
type ProductWiseDetails struct {
	ProductID       int64
	DiscountPercent decimal.Decimal
}

func (ProductWiseDetails) CouponType() enums.CouponType { return enums.CouponTypeProductWise }

type ProductQuantity struct {
	ProductID int64
	Quantity  int
}

// BxGyDetails grants GetProducts for free once per complete set of
// BuyProducts found in the cart, capped by RepetitionLimit when set.
type BxGyDetails struct {
	BuyProducts     []ProductQuantity
	GetProducts     []ProductQuantity
	RepetitionLimit *int
}

func (BxGyDetails) CouponType() enums.CouponType { return enums.CouponTypeBxGy }

func fromModel(m *models.Coupon) (Coupon, error) {
	doc, err := ParseDetailsDocument(m.Details)
	if err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored coupon details").
			WithDetails(map[string]any{"coupon_id": m.ID})
	}
	return Coupon{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		ExpiresAt: m.ExpiresAt,
		Details:   doc.Resolve(m.Type),
		Document:  doc,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
