package catalog_test

import (
	"context"
	"os"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepo_ProductAdmin(t *testing.T) {
	dsn := os.Getenv("STOREFRONT_TEST_DSN")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	storeID, otherStore := uuid.NewString(), uuid.NewString()
	for _, id := range []string{storeID, otherStore} {
		_, err = pool.Exec(ctx, `INSERT INTO stores (id, name) VALUES ($1, 'Toko Uji')`, id)
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM stores WHERE id = ANY($1)`, []string{storeID, otherStore})
	})

	repo := &catalog.PGRepo{DB: pool}
	p, err := repo.CreateProduct(ctx, storeID, catalog.ProductInput{Name: "Urban Hoodie", BasePrice: 280000})
	require.NoError(t, err)

	p, err = repo.AddOption(ctx, storeID, p.ID, catalog.OptionInput{Name: "Size", Values: []string{"M", "L"}})
	require.NoError(t, err)
	p, err = repo.AddOption(ctx, storeID, p.ID, catalog.OptionInput{Name: "Color", Values: []string{"Hitam", "Abu"}})
	require.NoError(t, err)
	require.Len(t, p.Options, 2)
	assert.Equal(t, "Size", p.Options[0].Name)
	assert.Equal(t, []string{"M", "L"}, []string{p.Options[0].Values[0].Value, p.Options[0].Values[1].Value})

	size, color := p.Options[0], p.Options[1]
	_, err = repo.AddVariant(ctx, storeID, p.ID, catalog.VariantInput{Stock: 1, OptionValueIDs: []string{size.Values[0].ID, size.Values[1].ID}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	p, err = repo.AddVariant(ctx, storeID, p.ID, catalog.VariantInput{Stock: 4, OptionValueIDs: []string{color.Values[0].ID, size.Values[0].ID}})
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	v := p.Variants[0]
	assert.Equal(t, "Size: M, Color: Hitam", p.Describe(&v))

	stock, price := 9, int64(300000)
	p, err = repo.UpdateVariant(ctx, storeID, p.ID, v.ID, catalog.VariantPatch{Stock: &stock, PriceOverride: &price})
	require.NoError(t, err)
	assert.Equal(t, 9, p.Variants[0].Stock)
	assert.Equal(t, int64(300000), p.EffectivePrice(&p.Variants[0]))

	p, err = repo.UpdateVariant(ctx, storeID, p.ID, v.ID, catalog.VariantPatch{ClearPriceOverride: true})
	require.NoError(t, err)
	assert.Nil(t, p.Variants[0].PriceOverride)

	_, err = repo.UpdateVariant(ctx, otherStore, p.ID, v.ID, catalog.VariantPatch{Stock: &stock})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p, err = repo.RemoveOption(ctx, storeID, p.ID, color.ID)
	require.NoError(t, err)
	assert.Equal(t, "Size: M", p.Describe(&p.Variants[0]))

	p, err = repo.AddImage(ctx, storeID, p.ID, catalog.ImageInput{ImageURL: "https://cdn.example/h.jpg"})
	require.NoError(t, err)
	require.Len(t, p.Images, 1)
	p, err = repo.RemoveImage(ctx, storeID, p.ID, p.Images[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Images)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, otherStore, p.ID), apperr.ErrNotFound)
	require.NoError(t, repo.DeleteProduct(ctx, storeID, p.ID))
	_, err = repo.Product(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
