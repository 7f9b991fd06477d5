package catalog

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]*Product

func (m mapSource) Product(_ context.Context, id string) (*Product, error) {
	p, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return p, nil
}

func i64(v int64) *int64   { return &v }
func str(v string) *string { return &v }

// hoodie has options defined [Size, Color] but the variant links stored Color first.
func hoodie() *Product {
	return &Product{
		ID:        "p-hoodie",
		StoreID:   "store-a",
		Name:      "Urban Basic Hoodie",
		BasePrice: 280000,
		Options: []Option{
			{ID: "o-size", Name: "Size", Values: []OptionValue{{ID: "v-m", OptionID: "o-size", Value: "M"}, {ID: "v-l", OptionID: "o-size", Value: "L"}}},
			{ID: "o-color", Name: "Color", Values: []OptionValue{{ID: "v-hitam", OptionID: "o-color", Value: "Hitam"}, {ID: "v-abu", OptionID: "o-color", Value: "Abu"}}},
		},
		Variants: []Variant{
			{ID: "var-m-hitam", Stock: 15, OptionValueIDs: []string{"v-hitam", "v-m"}},
			{ID: "var-m-abu", Stock: 2, PriceOverride: i64(290000), OptionValueIDs: []string{"v-m", "v-abu"}},
		},
	}
}

func TestDescribe_FollowsOptionDefinitionOrder(t *testing.T) {
	p := hoodie()
	assert.Equal(t, "Size: M, Color: Hitam", p.Describe(p.Variant("var-m-hitam")))
	assert.Equal(t, "Size: M, Color: Abu", p.Describe(p.Variant("var-m-abu")))
}

func TestDescribe_NoLinks(t *testing.T) {
	p := hoodie()
	assert.Equal(t, "", p.Describe(&Variant{ID: "bare"}))
}

func TestEffectivePrice(t *testing.T) {
	p := hoodie()
	assert.Equal(t, int64(280000), p.EffectivePrice(nil))
	assert.Equal(t, int64(280000), p.EffectivePrice(p.Variant("var-m-hitam")))
	assert.Equal(t, int64(290000), p.EffectivePrice(p.Variant("var-m-abu")))
}

func TestResolve(t *testing.T) {
	src := mapSource{"p-hoodie": hoodie()}
	r := NewReader(src)
	ctx := context.Background()

	t.Run("base product", func(t *testing.T) {
		l, err := r.Resolve(ctx, "store-a", LineRequest{ProductID: "p-hoodie", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(280000), l.UnitPrice)
		assert.Nil(t, l.VariantID)
		assert.Nil(t, l.VariantDescription)
		sub, err := l.Subtotal()
		require.NoError(t, err)
		assert.Equal(t, int64(560000), sub)
	})

	t.Run("variant with override", func(t *testing.T) {
		l, err := r.Resolve(ctx, "store-a", LineRequest{ProductID: "p-hoodie", VariantID: str("var-m-abu"), Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(290000), l.UnitPrice)
		require.NotNil(t, l.VariantDescription)
		assert.Equal(t, "Size: M, Color: Abu", *l.VariantDescription)
		assert.Equal(t, "Urban Basic Hoodie", l.ProductName)
	})

	errCases := []struct {
		name string
		req  LineRequest
		want error
	}{
		{name: "unknown product", req: LineRequest{ProductID: "nope", Quantity: 1}, want: apperr.ErrNotFound},
		{name: "unknown variant", req: LineRequest{ProductID: "p-hoodie", VariantID: str("nope"), Quantity: 1}, want: apperr.ErrNotFound},
		{name: "short stock", req: LineRequest{ProductID: "p-hoodie", VariantID: str("var-m-abu"), Quantity: 3}, want: apperr.ErrInsufficientStock},
		{name: "zero quantity", req: LineRequest{ProductID: "p-hoodie", Quantity: 0}, want: apperr.ErrValidation},
		{name: "quantity past int32", req: LineRequest{ProductID: "p-hoodie", Quantity: 1 << 45}, want: apperr.ErrValidation},
	}
	for _, tc := range errCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(ctx, "store-a", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("other store is not found", func(t *testing.T) {
		_, err := r.Resolve(ctx, "store-b", LineRequest{ProductID: "p-hoodie", Quantity: 1})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestResolve_RejectsSubtotalOverflow(t *testing.T) {
	p := hoodie()
	p.BasePrice = math.MaxInt64 / 2
	r := NewReader(mapSource{"p-hoodie": p})

	_, err := r.Resolve(context.Background(), "store-a", LineRequest{ProductID: "p-hoodie", Quantity: 3})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	l, err := r.Resolve(context.Background(), "store-a", LineRequest{ProductID: "p-hoodie", Quantity: 2})
	require.NoError(t, err)
	sub, err := l.Subtotal()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), sub)
}

func TestAddTotal(t *testing.T) {
	got, err := AddTotal(100, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(350), got)

	_, err = AddTotal(math.MaxInt64-10, 11)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err = AddTotal(math.MaxInt64-10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestPublic(t *testing.T) {
	p := hoodie()
	p.Variants[0].SKU = str("UBH-M-HIT")

	pub := p.Public()
	require.Len(t, pub.Variants, 2)
	assert.Equal(t, int64(280000), pub.Variants[0].Price)
	assert.Equal(t, int64(290000), pub.Variants[1].Price)
	assert.Equal(t, "UBH-M-HIT", *pub.Variants[0].SKU)
	assert.Equal(t, []string{"Size", "Color"}, []string{pub.Options[0].Name, pub.Options[1].Name})
	assert.Len(t, pub.Variants[0].Options, 2)
}
