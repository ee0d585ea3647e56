package discounts

import (
	"math"
	"time"

	"github.com/angelmondragon/coupon-engine/internal/coupons"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two decimal places, halves away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Div(hundred))
}

// IsExpired reports whether now is strictly after the coupon's expiry.
func IsExpired(c coupons.Coupon, now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Evaluate returns the discount c grants on cart, or zero when it does not
// apply. Expiry is not considered here.
func Evaluate(c coupons.Coupon, cart Cart) decimal.Decimal {
	return evaluate(c, newCartView(cart)).total()
}

// ComputeRepetitions counts complete buy sets in cart, clamped to the
// coupon's repetition limit.
func ComputeRepetitions(d coupons.BxGyDetails, cart Cart) int {
	return repetitions(d, newCartView(cart))
}

// FreeQuantity is the number of free units entry earns over reps cycles. It
// is zero when the product does not fit in an int.
func FreeQuantity(entry coupons.ProductQuantity, reps int) int {
	free, ok := freeQuantity(entry, reps)
	if !ok {
		return 0
	}
	return free
}

func freeQuantity(entry coupons.ProductQuantity, reps int) (int, bool) {
	if reps <= 0 || entry.Quantity <= 0 {
		return 0, true
	}
	if entry.Quantity > math.MaxInt/reps {
		return 0, false
	}
	return entry.Quantity * reps, true
}

func repetitions(d coupons.BxGyDetails, v *cartView) int {
	if len(d.BuyProducts) == 0 {
		return 0
	}
	reps := -1
	for _, buy := range d.BuyProducts {
		if buy.Quantity < 1 {
			return 0
		}
		sets := v.quantityOf(buy.ProductID) / buy.Quantity
		if reps < 0 || sets < reps {
			reps = sets
		}
	}
	if d.RepetitionLimit != nil && *d.RepetitionLimit < reps {
		reps = *d.RepetitionLimit
	}
	if reps < 0 {
		return 0
	}
	return reps
}

// breakdown attributes a coupon's effect to cart lines. Line-owned amounts
// and the cart-level amount are each rounded when computed.
type breakdown struct {
	lineDiscounts []decimal.Decimal
	freeUnits     []int
	cartDiscount  decimal.Decimal
}

func newBreakdown(lines int) breakdown {
	b := breakdown{
		lineDiscounts: make([]decimal.Decimal, lines),
		freeUnits:     make([]int, lines),
		cartDiscount:  decimal.Zero,
	}
	for i := range b.lineDiscounts {
		b.lineDiscounts[i] = decimal.Zero
	}
	return b
}

func (b breakdown) total() decimal.Decimal {
	sum := b.cartDiscount
	for _, d := range b.lineDiscounts {
		sum = sum.Add(d)
	}
	return sum
}

func evaluate(c coupons.Coupon, v *cartView) breakdown {
	b := newBreakdown(len(v.cart.Items))

	switch d := c.Details.(type) {
	case coupons.CartWiseDetails:
		if v.total.GreaterThan(d.Threshold) {
			b.cartDiscount = percentOf(v.total, d.DiscountPercent)
		}
	case coupons.ProductWiseDetails:
		if idx, ok := v.line(d.ProductID); ok {
			b.lineDiscounts[idx] = percentOf(v.cart.Items[idx].Subtotal(), d.DiscountPercent)
		}
	case coupons.BxGyDetails:
		reps := repetitions(d, v)
		if reps == 0 {
			return b
		}
		for _, get := range d.GetProducts {
			idx, ok := v.line(get.ProductID)
			if !ok {
				continue
			}
			free, ok := freeQuantity(get, reps)
			if !ok || free > math.MaxInt-v.cart.Items[idx].Quantity-b.freeUnits[idx] {
				// A grant that overflows the line quantity never applies.
				return newBreakdown(len(v.cart.Items))
			}
			b.freeUnits[idx] += free
			b.lineDiscounts[idx] = b.lineDiscounts[idx].Add(
				Round2(v.cart.Items[idx].UnitPrice.Mul(decimal.NewFromInt(int64(free)))),
			)
		}
	}
	return b
}

// AppliedItem is a cart line after a coupon has been applied. Quantity
// includes any free units.
type AppliedItem struct {
	ProductID    int64
	Quantity     int
	UnitPrice    decimal.Decimal
	LineDiscount decimal.Decimal
}

// AppliedCart is the cart returned by Apply. TotalPrice is the pre-discount
// total of the requested quantities.
type AppliedCart struct {
	Items         []AppliedItem
	TotalPrice    decimal.Decimal
	TotalDiscount decimal.Decimal
	FinalPrice    decimal.Decimal
}

// Apply computes the updated cart for c. Expiry is checked by the caller.
func Apply(c coupons.Coupon, cart Cart) AppliedCart {
	v := newCartView(cart)
	b := evaluate(c, v)

	items := make([]AppliedItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = AppliedItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity + b.freeUnits[i],
			UnitPrice:    item.UnitPrice,
			LineDiscount: b.lineDiscounts[i],
		}
	}

	discount := b.total()
	return AppliedCart{
		Items:         items,
		TotalPrice:    v.total,
		TotalDiscount: discount,
		FinalPrice:    v.total.Sub(discount),
	}
}
