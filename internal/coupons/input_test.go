package coupons

import (
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponInputValidateAcceptsPartialDetails(t *testing.T) {
	in := CouponInput{Name: "Ten off", Type: "cart-wise", Details: DetailsDocument{Discount: dec("10")}}
	require.NoError(t, in.Validate())
}

func TestCouponInputValidateCollectsProblems(t *testing.T) {
	in := CouponInput{
		Name: "  ",
		Type: "cart-wise",
		Details: DetailsDocument{
			Threshold:       dec("-1"),
			Discount:        dec("100.01"),
			RepetitionLimit: intPtr(0),
			BuyProducts:     []ProductQuantityDocument{{ProductID: i64(0), Quantity: intPtr(0)}},
		},
	}

	err := in.Validate()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	problems, ok := details["problems"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"name is required",
		"details.threshold must be at least 0",
		"details.discount must be between 0 and 100",
		"details.repetition_limit must be at least 1",
		"details.buy_products[0].product_id must be at least 1",
		"details.buy_products[0].quantity must be at least 1",
	}, problems)
	assert.Equal(t, "cart-wise", details["type"])
}

func TestCouponInputValidateRejectsUnknownType(t *testing.T) {
	err := CouponInput{Name: "x", Type: "bogo"}.Validate()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCouponInputNormalized(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	expiry := time.Date(2026, 1, 1, 12, 0, 0, 0, loc)
	in := CouponInput{Name: "  Summer  ", ExpiresAt: &expiry}.normalized()
	assert.Equal(t, "Summer", in.Name)
	assert.Equal(t, time.UTC, in.ExpiresAt.Location())
	assert.True(t, in.ExpiresAt.Equal(expiry))
}

func TestCouponInputValidateBoundsEntryQuantity(t *testing.T) {
	in := CouponInput{
		Name: "Huge grant",
		Type: "bxgy",
		Details: DetailsDocument{
			BuyProducts: []ProductQuantityDocument{{ProductID: i64(1), Quantity: intPtr(1)}},
			GetProducts: []ProductQuantityDocument{{ProductID: i64(2), Quantity: intPtr(1 << 62)}},
		},
	}

	err := in.Validate()
	require.Error(t, err)
	problems := pkgerrors.As(err).Details().(map[string]any)["problems"].([]string)
	assert.Equal(t, []string{"details.get_products[0].quantity must be at most 1000000"}, problems)

	in.Details.GetProducts[0].Quantity = intPtr(MaxEntryQuantity)
	require.NoError(t, in.Validate())
}
