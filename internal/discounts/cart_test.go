package discounts

import (
	"testing"

	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartValidate(t *testing.T) {
	require.NoError(t, sampleCart().Validate())
	require.NoError(t, Cart{Items: []Item{item(1, 1, "0")}}.Validate(), "free items are allowed")

	err := Cart{}.Validate()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = Cart{Items: []Item{item(1, 0, "10"), item(2, 1, "-0.01")}}.Validate()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"items[0].quantity": "must be at least 1",
		"items[1].price":    "must be at least 0",
	}, typed.Details())
}

func TestCartViewIndexesOnce(t *testing.T) {
	cart := Cart{Items: []Item{item(4, 1, "2"), item(7, 2, "3"), item(4, 5, "2")}}
	v := newCartView(cart)

	idx, ok := v.line(4)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 6, v.quantityOf(4))
	assert.Equal(t, 0, v.quantityOf(99))
	_, ok = v.line(99)
	assert.False(t, ok)
	assertMoney(t, "18.00", v.total)
}

func TestCartValidateRejectsOversizedQuantity(t *testing.T) {
	require.NoError(t, Cart{Items: []Item{item(1, MaxItemQuantity, "1")}}.Validate())

	err := Cart{Items: []Item{item(1, MaxItemQuantity+1, "1")}}.Validate()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, map[string]string{"items[0].quantity": "must be at most 1000000"}, typed.Details())
}
