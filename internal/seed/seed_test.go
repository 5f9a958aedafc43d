package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hylehub-store/internal/models"
	"hylehub-store/internal/repository/memory"
)

func TestDefaults(t *testing.T) {
	data := Defaults()

	require.NotNil(t, data.Config)
	assert.Equal(t, "HyleHub Store", data.Config.SiteName)
	assert.Len(t, data.Config.Notices, 3)
	assert.Equal(t, "0999.999.999", data.Config.ContactInfo.Phone)
	assert.Len(t, data.Categories, 3)
	assert.Len(t, data.Socials, 4)
	require.Len(t, data.Products, 5)

	for _, p := range data.Products {
		assert.Equal(t, models.StatusPublished, p.Status, p.Name)
		assert.NotEmpty(t, p.PriceOptions, p.Name)
		for _, o := range p.PriceOptions {
			assert.Equal(t, models.PriceScaleUnit, o.PriceScale, p.Name)
		}
	}
}

func TestDefaults_ReturnsFreshCopies(t *testing.T) {
	a := Defaults()
	a.Categories[0].Name = "changed"

	assert.NotEqual(t, "changed", Defaults().Categories[0].Name)
}

func TestApply(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	res, err := Apply(ctx, store, Defaults())
	require.NoError(t, err)
	assert.Equal(t, Result{Config: true, Categories: 3, Socials: 4, Products: 5}, res)

	// Aplicar dos veces no duplica
	_, err = Apply(ctx, store, Defaults())
	require.NoError(t, err)

	products, err := store.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, "ChatGPT Plus / OpenAI", products[0].Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - name: Netflix Premium
    categoryId: "2"
    status: published
    tags: [Netflix, Phim]
    priceOptions:
      - { name: Gói tháng, price: 60, currency: K, unit: tháng }
`), 0o600))

	data, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, data.Products, 1)
	assert.Nil(t, data.Config)
	assert.Equal(t, float64(60), data.Products[0].PriceOptions[0].Price)
	assert.Empty(t, data.Products[0].PriceOptions[0].PriceScale)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOrDefaultHelpers(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	cfg, err := SiteConfigOrDefault(ctx, store.SiteConfig)
	require.NoError(t, err)
	assert.Equal(t, "HyleHub Store", cfg.SiteName)

	cats, err := CategoriesOrDefault(ctx, store.Categories)
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	links, err := SocialLinksOrDefault(ctx, store.SocialLinks)
	require.NoError(t, err)
	assert.Len(t, links, 4)

	// Ya sembrado: se respeta lo guardado
	require.NoError(t, store.SiteConfig.Replace(ctx, &models.SiteConfig{SiteName: "Mine"}))
	cfg, err = SiteConfigOrDefault(ctx, store.SiteConfig)
	require.NoError(t, err)
	assert.Equal(t, "Mine", cfg.SiteName)
}
