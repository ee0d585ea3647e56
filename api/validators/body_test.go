package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
)

type lineRequest struct {
	ProductID *int64 `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

type basketRequest struct {
	Kind  string        `json:"kind" validate:"required,oneof=a b"`
	Items []lineRequest `json:"items" validate:"required,min=1,dive"`
}

func newBodyRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var dest basketRequest
	err := DecodeJSONBody(newBodyRequest(`{"kind":"a","items":[{"product_id":1,"quantity":2}]}`), &dest)
	require.NoError(t, err)
	require.Len(t, dest.Items, 1)
	assert.Equal(t, int64(2), dest.Items[0].Quantity)
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var dest basketRequest
	err := DecodeJSONBody(newBodyRequest(`{"kind":`), &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "invalid request body", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest basketRequest
	err := DecodeJSONBody(newBodyRequest(`{"kind":"a","items":[{"product_id":1,"quantity":1}],"extra":true}`), &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsNestedFieldPaths(t *testing.T) {
	var dest basketRequest
	err := DecodeJSONBody(newBodyRequest(`{"kind":"c","items":[{"quantity":0}]}`), &dest)
	require.Error(t, err)

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be one of [a b]", details["kind"])
	assert.Equal(t, "is required", details["items[0].product_id"])
	assert.Equal(t, "must be at least 1", details["items[0].quantity"])
}

func TestDecodeJSONBodyRequiresItems(t *testing.T) {
	var dest basketRequest
	err := DecodeJSONBody(newBodyRequest(`{"kind":"a","items":[]}`), &dest)
	require.Error(t, err)

	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "must be at least 1", details["items"])
}

func withRouteParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	base := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := ParseIDParam(withRouteParam(base, "id", "42"), "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseIDParam(withRouteParam(base, "id", raw), "id")
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "raw=%q", raw)
	}
}
