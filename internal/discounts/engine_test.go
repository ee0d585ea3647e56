package discounts

import (
	"math"
	"testing"
	"time"

	"github.com/angelmondragon/coupon-engine/internal/coupons"
	"github.com/angelmondragon/coupon-engine/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(productID int64, qty int, price string) Item {
	return Item{ProductID: productID, Quantity: qty, UnitPrice: d(price)}
}

func sampleCart() Cart {
	return Cart{Items: []Item{item(1, 6, "50"), item(2, 3, "30"), item(3, 2, "25")}}
}

func cartWise(threshold, pct string) coupons.Coupon {
	return coupons.Coupon{ID: 1, Type: enums.CouponTypeCartWise, Details: coupons.CartWiseDetails{Threshold: d(threshold), DiscountPercent: d(pct)}}
}

func productWise(productID int64, pct string) coupons.Coupon {
	return coupons.Coupon{ID: 2, Type: enums.CouponTypeProductWise, Details: coupons.ProductWiseDetails{ProductID: productID, DiscountPercent: d(pct)}}
}

func bxgy(buy, get []coupons.ProductQuantity, limit *int) coupons.Coupon {
	return coupons.Coupon{ID: 3, Type: enums.CouponTypeBxGy, Details: coupons.BxGyDetails{BuyProducts: buy, GetProducts: get, RepetitionLimit: limit}}
}

func limit(n int) *int { return &n }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func TestCartTotalIsExact(t *testing.T) {
	cart := Cart{Items: []Item{item(1, 3, "0.10"), item(2, 7, "19.999")}}
	assert.True(t, cart.Total().Equal(d("140.293")))
	assertMoney(t, "440.00", sampleCart().Total())
}

func TestRound2HalfUp(t *testing.T) {
	assertMoney(t, "0.13", Round2(d("0.125")))
	assertMoney(t, "0.12", Round2(d("0.1249")))
	assertMoney(t, "2.50", Round2(d("2.495")))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cartWise("0", "10")
	assert.False(t, IsExpired(c, now))

	past := now.Add(-time.Second)
	c.ExpiresAt = &past
	assert.True(t, IsExpired(c, now))

	same := now
	c.ExpiresAt = &same
	assert.False(t, IsExpired(c, now), "expiry equal to now is still valid")

	future := now.Add(time.Hour)
	c.ExpiresAt = &future
	assert.False(t, IsExpired(c, now))
}

func TestEvaluateCartWise(t *testing.T) {
	assertMoney(t, "44.00", Evaluate(cartWise("100", "10"), sampleCart()))
	assertMoney(t, "0.00", Evaluate(cartWise("440", "10"), sampleCart()), "threshold is strict")
	assertMoney(t, "0.00", Evaluate(cartWise("500", "10"), sampleCart()))

	cart := Cart{Items: []Item{item(9, 1, "10.05")}}
	assertMoney(t, "1.51", Evaluate(cartWise("10", "15"), cart))
}

func TestEvaluateProductWise(t *testing.T) {
	assertMoney(t, "60.00", Evaluate(productWise(1, "20"), sampleCart()))
	assertMoney(t, "0.00", Evaluate(productWise(42, "20"), sampleCart()))

	cart := Cart{Items: []Item{item(5, 3, "3.33")}}
	assertMoney(t, "1.50", Evaluate(productWise(5, "15"), cart))
}

func TestEvaluateProductWiseUsesFirstMatchingLine(t *testing.T) {
	cart := Cart{Items: []Item{item(1, 1, "10"), item(1, 5, "10")}}
	assertMoney(t, "1.00", Evaluate(productWise(1, "10"), cart))
}

func TestEvaluateMissingDetailsIsZero(t *testing.T) {
	c := coupons.Coupon{ID: 9, Type: enums.CouponTypeCartWise}
	assertMoney(t, "0.00", Evaluate(c, sampleCart()))
	assert.Equal(t, d("0").String(), Apply(c, sampleCart()).TotalDiscount.String())
}

func TestComputeRepetitions(t *testing.T) {
	cart := Cart{Items: []Item{item(1, 7, "10"), item(2, 4, "10"), item(3, 1, "5")}}
	tests := []struct {
		name    string
		details coupons.BxGyDetails
		want    int
	}{
		{name: "single buy entry floors", details: coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 1, Quantity: 3}}}, want: 2},
		{name: "minimum across entries", details: coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 4}}}, want: 1},
		{name: "absent product gives zero", details: coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 1, Quantity: 1}, {ProductID: 8, Quantity: 1}}}, want: 0},
		{name: "empty buy list", details: coupons.BxGyDetails{GetProducts: []coupons.ProductQuantity{{ProductID: 3, Quantity: 1}}}, want: 0},
		{name: "clamped by limit", details: coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 1, Quantity: 1}}, RepetitionLimit: limit(3)}, want: 3},
		{name: "limit above computed", details: coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 2, Quantity: 2}}, RepetitionLimit: limit(5)}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRepetitions(tt.details, cart))
		})
	}
}

func TestComputeRepetitionsSumsDuplicateLines(t *testing.T) {
	cart := Cart{Items: []Item{item(1, 2, "10"), item(1, 2, "10")}}
	details := coupons.BxGyDetails{BuyProducts: []coupons.ProductQuantity{{ProductID: 1, Quantity: 2}}}
	assert.Equal(t, 2, ComputeRepetitions(details, cart))
}

func TestFreeQuantityIsLinear(t *testing.T) {
	entry := coupons.ProductQuantity{ProductID: 3, Quantity: 2}
	for reps := 0; reps < 5; reps++ {
		assert.Equal(t, 2*reps, FreeQuantity(entry, reps))
	}
	assert.Zero(t, FreeQuantity(entry, -1))
}

func TestEvaluateBxGy(t *testing.T) {
	// Buy 3 of product 1 and 3 of product 2, get 1 of product 3 free.
	buy := []coupons.ProductQuantity{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 3}}
	get := []coupons.ProductQuantity{{ProductID: 3, Quantity: 1}}

	cart := Cart{Items: []Item{item(1, 6, "50"), item(2, 6, "30"), item(3, 2, "25")}}
	assertMoney(t, "50.00", Evaluate(bxgy(buy, get, nil), cart))
	assertMoney(t, "25.00", Evaluate(bxgy(buy, get, limit(1)), cart))

	assertMoney(t, "25.00", Evaluate(bxgy(buy, get, nil), sampleCart()))

	missingGet := []coupons.ProductQuantity{{ProductID: 99, Quantity: 1}}
	assertMoney(t, "0.00", Evaluate(bxgy(buy, missingGet, nil), cart))

	assertMoney(t, "0.00", Evaluate(bxgy(nil, get, nil), cart))
}

func TestApplyCartWiseReportsCartLevelDiscountOnly(t *testing.T) {
	applied := Apply(cartWise("100", "10"), sampleCart())

	require.Len(t, applied.Items, 3)
	for i, it := range applied.Items {
		assert.Equal(t, sampleCart().Items[i].Quantity, it.Quantity)
		assertMoney(t, "0.00", it.LineDiscount)
	}
	assertMoney(t, "440.00", applied.TotalPrice)
	assertMoney(t, "44.00", applied.TotalDiscount)
	assertMoney(t, "396.00", applied.FinalPrice)
}

func TestApplyProductWise(t *testing.T) {
	applied := Apply(productWise(2, "10"), sampleCart())

	assertMoney(t, "0.00", applied.Items[0].LineDiscount)
	assertMoney(t, "9.00", applied.Items[1].LineDiscount)
	assertMoney(t, "0.00", applied.Items[2].LineDiscount)
	assertMoney(t, "9.00", applied.TotalDiscount)
	assertMoney(t, "431.00", applied.FinalPrice)
}

func TestApplyBxGyInflatesQuantity(t *testing.T) {
	buy := []coupons.ProductQuantity{{ProductID: 1, Quantity: 2}}
	get := []coupons.ProductQuantity{{ProductID: 3, Quantity: 1}}
	applied := Apply(bxgy(buy, get, limit(2)), sampleCart())

	assert.Equal(t, 6, applied.Items[0].Quantity)
	assert.Equal(t, 3, applied.Items[1].Quantity)
	assert.Equal(t, 4, applied.Items[2].Quantity, "two free units on top of two paid")
	assertMoney(t, "50.00", applied.Items[2].LineDiscount)
	assert.Equal(t, d("25").String(), applied.Items[2].UnitPrice.String())

	assertMoney(t, "440.00", applied.TotalPrice)
	assertMoney(t, "50.00", applied.TotalDiscount)
	assertMoney(t, "390.00", applied.FinalPrice)
}

func TestApplyAndEvaluateAgree(t *testing.T) {
	buy := []coupons.ProductQuantity{{ProductID: 1, Quantity: 1}}
	get := []coupons.ProductQuantity{{ProductID: 2, Quantity: 1}, {ProductID: 3, Quantity: 2}}
	cases := []coupons.Coupon{
		cartWise("100", "12.5"),
		productWise(3, "33.33"),
		bxgy(buy, get, limit(4)),
	}
	for _, c := range cases {
		applied := Apply(c, sampleCart())
		assert.True(t, Evaluate(c, sampleCart()).Equal(applied.TotalDiscount), "coupon type %s", c.Type)
		assert.True(t, applied.TotalPrice.Sub(applied.TotalDiscount).Equal(applied.FinalPrice))
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	c := productWise(1, "7.5")
	first := Evaluate(c, sampleCart())
	for i := 0; i < 3; i++ {
		assert.True(t, first.Equal(Evaluate(c, sampleCart())))
	}
}

func TestFreeQuantityOverflowIsZero(t *testing.T) {
	entry := coupons.ProductQuantity{ProductID: 2, Quantity: 1 << 62}
	assert.Equal(t, 1<<62, FreeQuantity(entry, 1))
	assert.Zero(t, FreeQuantity(entry, 2))
}

func TestBxGyOverflowingGrantNeverApplies(t *testing.T) {
	buy := []coupons.ProductQuantity{{ProductID: 1, Quantity: 1}}
	cart := Cart{Items: []Item{item(1, 2, "10"), item(2, 1, "5")}}

	huge := bxgy(buy, []coupons.ProductQuantity{{ProductID: 2, Quantity: 1 << 62}}, nil)
	assertMoney(t, "0.00", Evaluate(huge, cart))

	applied := Apply(huge, cart)
	assert.Equal(t, 2, applied.Items[0].Quantity)
	assert.Equal(t, 1, applied.Items[1].Quantity)
	assertMoney(t, "0.00", applied.TotalDiscount)
	assertMoney(t, "25.00", applied.FinalPrice)
	for _, line := range applied.Items {
		assert.False(t, line.LineDiscount.IsNegative())
	}

	// Fits as a product but not once added to the line quantity.
	edge := bxgy([]coupons.ProductQuantity{{ProductID: 1, Quantity: 2}}, []coupons.ProductQuantity{{ProductID: 2, Quantity: math.MaxInt}}, nil)
	assertMoney(t, "0.00", Evaluate(edge, cart))
	assert.Equal(t, 1, Apply(edge, cart).Items[1].Quantity)
}
