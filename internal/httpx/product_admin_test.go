package httpx_test

import (
	"net/http"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/memstore"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueID(t *testing.T, p catalog.PublicProduct, option, value string) string {
	t.Helper()
	for _, o := range p.Options {
		if o.Name != option {
			continue
		}
		for _, v := range o.Values {
			if v.Value == value {
				return v.ID
			}
		}
	}
	t.Fatalf("option value %s=%s not found", option, value)
	return ""
}

func TestAdminProducts_RoleGate(t *testing.T) {
	e := newEnv(t)
	staff := e.bearer(t, memstore.StoreA, auth.RoleStaff)

	code, res := e.do(t, http.MethodGet, "/api/admin/products", nil, staff)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]catalog.PublicProduct](t, res.Data), 2)

	code, _ = e.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Hoodie", "base_price": 280000}, staff)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = e.do(t, http.MethodPatch, "/api/admin/products/"+memstore.ProductJacket+"/variants/"+memstore.VariantJacketL, map[string]any{"stock": 99}, staff)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 5, e.db.Stock(memstore.ProductJacket, memstore.VariantJacketL))

	code, _ = e.do(t, http.MethodGet, "/api/admin/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminProducts_BuildSellAndEdit(t *testing.T) {
	e := newEnv(t)
	mgr := e.bearer(t, memstore.StoreA, auth.RoleManager)

	code, res := e.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "", "base_price": -1}, mgr)
	assert.Equal(t, http.StatusBadRequest, code, res.Message)

	code, res = e.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Urban Hoodie", "base_price": 280000}, mgr)
	require.Equal(t, http.StatusCreated, code, res.Message)
	p := decode[catalog.PublicProduct](t, res.Data)
	assert.Equal(t, memstore.StoreA, p.StoreID)
	base := "/api/admin/products/" + p.ID

	code, res = e.do(t, http.MethodPost, base+"/options", map[string]any{"name": "Size", "values": []string{"M", "L"}}, mgr)
	require.Equal(t, http.StatusCreated, code, res.Message)
	code, res = e.do(t, http.MethodPost, base+"/options", map[string]any{"name": "Color", "values": []string{"Hitam", "Abu"}}, mgr)
	require.Equal(t, http.StatusCreated, code, res.Message)
	p = decode[catalog.PublicProduct](t, res.Data)
	require.Len(t, p.Options, 2)
	assert.Equal(t, "Size", p.Options[0].Name)
	assert.Equal(t, "Color", p.Options[1].Name)
	assert.Equal(t, "M", p.Options[0].Values[0].Value)
	assert.Equal(t, "L", p.Options[0].Values[1].Value)

	code, _ = e.do(t, http.MethodPost, base+"/options", map[string]any{"name": "Fit", "values": []string{"Slim", "Slim"}}, mgr)
	assert.Equal(t, http.StatusBadRequest, code)

	sizeM, sizeL := valueID(t, p, "Size", "M"), valueID(t, p, "Size", "L")
	hitam := valueID(t, p, "Color", "Hitam")

	badVariants := []map[string]any{
		{"stock": 1, "option_value_ids": []string{sizeM, sizeL}},
		{"stock": 1, "option_value_ids": []string{"val-l"}},
		{"stock": -1, "option_value_ids": []string{sizeM}},
	}
	for _, body := range badVariants {
		code, res = e.do(t, http.MethodPost, base+"/variants", body, mgr)
		assert.Equal(t, http.StatusBadRequest, code, res.Message)
	}

	code, res = e.do(t, http.MethodPost, base+"/variants", map[string]any{"sku": "UH-M-HIT", "stock": 3, "option_value_ids": []string{hitam, sizeM}}, mgr)
	require.Equal(t, http.StatusCreated, code, res.Message)
	p = decode[catalog.PublicProduct](t, res.Data)
	require.Len(t, p.Variants, 1)
	variantID := p.Variants[0].ID
	assert.Equal(t, "Size: M, Color: Hitam", p.Variants[0].Description)
	assert.Equal(t, int64(280000), p.Variants[0].Price)

	code, res = e.do(t, http.MethodPatch, base+"/variants/"+variantID, map[string]any{"stock": 7, "price_override": 300000}, mgr)
	require.Equal(t, http.StatusOK, code, res.Message)
	p = decode[catalog.PublicProduct](t, res.Data)
	assert.Equal(t, 7, p.Variants[0].Stock)
	assert.Equal(t, int64(300000), p.Variants[0].Price)

	code, _ = e.do(t, http.MethodPatch, base+"/variants/"+variantID, map[string]any{"price_override": 1, "clear_price_override": true}, mgr)
	assert.Equal(t, http.StatusBadRequest, code)

	// the order engine prices and decrements the edited variant
	code, res = e.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"store_id":       memstore.StoreA,
		"customer_phone": "081234567890",
		"items":          []map[string]any{{"product_id": p.ID, "variant_id": variantID, "quantity": 2}},
	}, nil)
	require.Equal(t, http.StatusCreated, code, res.Message)
	v := decode[orders.View](t, res.Data)
	assert.Equal(t, int64(600000), v.TotalAmount)
	assert.Equal(t, "Size: M, Color: Hitam", *v.Items[0].VariantDescription)
	assert.Equal(t, 5, e.db.Stock(p.ID, variantID))

	code, res = e.do(t, http.MethodPatch, base+"/variants/"+variantID, map[string]any{"clear_price_override": true}, mgr)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, int64(280000), decode[catalog.PublicProduct](t, res.Data).Variants[0].Price)

	code, res = e.do(t, http.MethodPatch, base, map[string]any{"description": "Hoodie katun"}, mgr)
	require.Equal(t, http.StatusOK, code, res.Message)
	p = decode[catalog.PublicProduct](t, res.Data)
	assert.Equal(t, "Urban Hoodie", p.Name)
	assert.Equal(t, "Hoodie katun", p.Description)

	colorID := p.Options[1].ID
	code, res = e.do(t, http.MethodDelete, base+"/options/"+colorID, nil, mgr)
	require.Equal(t, http.StatusOK, code, res.Message)
	p = decode[catalog.PublicProduct](t, res.Data)
	require.Len(t, p.Options, 1)
	assert.Equal(t, "Size: M", p.Variants[0].Description)

	code, _ = e.do(t, http.MethodDelete, base+"/variants/"+variantID, nil, mgr)
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodDelete, base+"/variants/"+variantID, nil, mgr)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodDelete, base, nil, mgr)
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodGet, "/api/products/"+p.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminProducts_Images(t *testing.T) {
	e := newEnv(t)
	mgr := e.bearer(t, memstore.StoreA, auth.RoleManager)
	base := "/api/admin/products/" + memstore.ProductTee

	code, _ := e.do(t, http.MethodPost, base+"/images", map[string]any{"image_url": "not a url"}, mgr)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res := e.do(t, http.MethodPost, base+"/images", map[string]any{"image_url": "https://cdn.example/tee.jpg"}, mgr)
	require.Equal(t, http.StatusCreated, code, res.Message)
	p := decode[catalog.PublicProduct](t, res.Data)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://cdn.example/tee.jpg", p.Images[0].ImageURL)

	code, res = e.do(t, http.MethodDelete, base+"/images/"+p.Images[0].ID, nil, mgr)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Empty(t, decode[catalog.PublicProduct](t, res.Data).Images)

	code, _ = e.do(t, http.MethodDelete, base+"/images/"+p.Images[0].ID, nil, mgr)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminProducts_TenantIsolation(t *testing.T) {
	e := newEnv(t)
	ownerB := e.bearer(t, memstore.StoreB, auth.RoleOwner)
	base := "/api/admin/products/" + memstore.ProductJacket

	code, _ := e.do(t, http.MethodGet, base, nil, ownerB)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodPatch, base, map[string]any{"name": "Hijacked"}, ownerB)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodPatch, base+"/variants/"+memstore.VariantJacketL, map[string]any{"stock": 0}, ownerB)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodDelete, base, nil, ownerB)
	assert.Equal(t, http.StatusNotFound, code)

	code, res := e.do(t, http.MethodGet, "/api/admin/products", nil, ownerB)
	require.Equal(t, http.StatusOK, code)
	list := decode[[]catalog.PublicProduct](t, res.Data)
	require.Len(t, list, 1)
	assert.Equal(t, memstore.ProductB, list[0].ID)

	code, res = e.do(t, http.MethodGet, base, nil, e.bearer(t, memstore.StoreA, auth.RoleStaff))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bomber Jacket", decode[catalog.PublicProduct](t, res.Data).Name)
	assert.Equal(t, 5, e.db.Stock(memstore.ProductJacket, memstore.VariantJacketL))
}
