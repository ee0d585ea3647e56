package coupons

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/coupon-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var hundred = decimal.NewFromInt(100)

// MaxEntryQuantity bounds the quantity of a buy or get entry.
const MaxEntryQuantity = 1_000_000

// CouponInput carries a create or full-replace request.
type CouponInput struct {
	Name      string
	Type      string
	Details   DetailsDocument
	ExpiresAt *time.Time
}

// Validate checks the fields that are present. Missing details fields are
// accepted: the coupon is stored and simply never applies.
func (in CouponInput) Validate() error {
	var err error
	if strings.TrimSpace(in.Name) == "" {
		err = multierr.Append(err, fmt.Errorf("name is required"))
	}
	couponType, parseErr := enums.ParseCouponType(in.Type)
	if parseErr != nil {
		err = multierr.Append(err, fmt.Errorf("type must be one of cart-wise, product-wise, bxgy"))
	}

	d := in.Details
	if d.Threshold != nil && d.Threshold.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("details.threshold must be at least 0"))
	}
	if d.Discount != nil && (d.Discount.IsNegative() || d.Discount.GreaterThan(hundred)) {
		err = multierr.Append(err, fmt.Errorf("details.discount must be between 0 and 100"))
	}
	if d.ProductID != nil && *d.ProductID < 1 {
		err = multierr.Append(err, fmt.Errorf("details.product_id must be at least 1"))
	}
	if d.RepetitionLimit != nil && *d.RepetitionLimit < 1 {
		err = multierr.Append(err, fmt.Errorf("details.repetition_limit must be at least 1"))
	}
	err = multierr.Append(err, validateEntries("details.buy_products", d.BuyProducts))
	err = multierr.Append(err, validateEntries("details.get_products", d.GetProducts))

	if err == nil {
		return nil
	}
	problems := make([]string, 0)
	for _, e := range multierr.Errors(err) {
		problems = append(problems, e.Error())
	}
	details := map[string]any{"problems": problems}
	if parseErr == nil {
		details["type"] = couponType.String()
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon").WithDetails(details)
}

func validateEntries(field string, entries []ProductQuantityDocument) error {
	var err error
	for i, e := range entries {
		if e.ProductID != nil && *e.ProductID < 1 {
			err = multierr.Append(err, fmt.Errorf("%s[%d].product_id must be at least 1", field, i))
		}
		if e.Quantity != nil && *e.Quantity < 1 {
			err = multierr.Append(err, fmt.Errorf("%s[%d].quantity must be at least 1", field, i))
		}
		if e.Quantity != nil && *e.Quantity > MaxEntryQuantity {
			err = multierr.Append(err, fmt.Errorf("%s[%d].quantity must be at most %d", field, i, MaxEntryQuantity))
		}
	}
	return err
}

func (in CouponInput) normalized() CouponInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.ExpiresAt != nil {
		utc := in.ExpiresAt.UTC()
		in.ExpiresAt = &utc
	}
	return in
}
