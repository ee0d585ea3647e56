package discounts

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// Item is one cart line.
type Item struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is UnitPrice × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxItemQuantity bounds a single cart line.
const MaxItemQuantity = 1_000_000

// Cart is an ordered, non-empty list of lines.
type Cart struct {
	Items []Item
}

// Total is the exact, unrounded sum of line subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Validate rejects empty carts, out-of-range quantities and negative prices.
func (c Cart) Validate() error {
	if len(c.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	problems := map[string]string{}
	for i, item := range c.Items {
		if item.Quantity < 1 {
			problems[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
		if item.Quantity > MaxItemQuantity {
			problems[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("must be at most %d", MaxItemQuantity)
		}
		if item.UnitPrice.IsNegative() {
			problems[fmt.Sprintf("items[%d].price", i)] = "must be at least 0"
		}
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart").WithDetails(problems)
	}
	return nil
}

// cartView indexes a cart by product once per evaluation call.
type cartView struct {
	cart      Cart
	total     decimal.Decimal
	firstLine map[int64]int
	available map[int64]int
}

func newCartView(cart Cart) *cartView {
	v := &cartView{
		cart:      cart,
		total:     cart.Total(),
		firstLine: make(map[int64]int, len(cart.Items)),
		available: make(map[int64]int, len(cart.Items)),
	}
	for i, item := range cart.Items {
		if _, seen := v.firstLine[item.ProductID]; !seen {
			v.firstLine[item.ProductID] = i
		}
		v.available[item.ProductID] += item.Quantity
	}
	return v
}

// line returns the index of the first line carrying productID.
func (v *cartView) line(productID int64) (int, bool) {
	idx, ok := v.firstLine[productID]
	return idx, ok
}

func (v *cartView) quantityOf(productID int64) int {
	return v.available[productID]
}
