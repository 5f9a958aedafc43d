// Package storetest contiene la batería de pruebas que debe pasar
// cualquier implementación de repository.Store.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
)

// Run ejecuta todas las pruebas; newStore debe devolver un store vacío en cada llamada
func Run(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Run("Products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("ProductCopies", func(t *testing.T) { testProductCopies(t, newStore(t)) })
	t.Run("ProductBulkDuplicates", func(t *testing.T) { testProductBulkDuplicates(t, newStore(t)) })
	t.Run("ProductViews", func(t *testing.T) { testProductViews(t, newStore(t)) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("SiteConfig", func(t *testing.T) { testSiteConfig(t, newStore(t)) })
	t.Run("SocialLinks", func(t *testing.T) { testSocialLinks(t, newStore(t)) })
	t.Run("Visitors", func(t *testing.T) { testVisitors(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Health.Ping(context.Background())) })
}

func testProducts(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	products := store.Products

	created, err := products.Upsert(ctx, &models.Product{Name: "Canva Pro", CategoryID: "3"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.NotNil(t, created.Tags)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = products.Upsert(ctx, &models.Product{ID: "hot", Name: "ChatGPT Plus", IsHot: true, Status: models.StatusPublished})
	require.NoError(t, err)

	update := *created
	update.Name = "Canva Pro Edu"
	updated, err := products.Upsert(ctx, &update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Canva Pro Edu", updated.Name)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hot", list[0].ID)

	found, err := products.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canva Pro Edu", found.Name)

	_, err = products.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := products.InsertMany(ctx, []models.Product{{Name: "A"}, {Name: "B"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err = products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	require.NoError(t, products.Delete(ctx, created.ID))
	assert.ErrorIs(t, products.Delete(ctx, created.ID), repository.ErrNotFound)
}

func testProductCopies(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	products := store.Products

	input := &models.Product{
		ID:           "p1",
		Name:         "Netflix",
		Tags:         []string{"Phim"},
		GalleryURLs:  []string{"a.png"},
		PriceOptions: []models.PriceOption{{ID: "o1", Price: 60}},
	}
	saved, err := products.Upsert(ctx, input)
	require.NoError(t, err)

	input.Tags[0] = "changed"
	input.GalleryURLs[0] = "changed.png"
	input.PriceOptions[0].Price = 1
	saved.Tags[0] = "changed"

	found, err := products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Phim"}, found.Tags)
	assert.Equal(t, []string{"a.png"}, found.GalleryURLs)
	assert.Equal(t, float64(60), found.PriceOptions[0].Price)

	found.Tags[0] = "changed"
	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Phim"}, list[0].Tags)

	list[0].PriceOptions[0].Price = 2
	again, err := products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(60), again.PriceOptions[0].Price)
}

func testProductBulkDuplicates(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	products := store.Products

	_, err := products.Upsert(ctx, &models.Product{ID: "existing", Name: "Canva"})
	require.NoError(t, err)

	_, err = products.InsertMany(ctx, []models.Product{{ID: "fresh", Name: "A"}, {ID: "existing", Name: "B"}})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	_, err = products.InsertMany(ctx, []models.Product{{ID: "twice", Name: "A"}, {ID: "twice", Name: "B"}})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Canva", list[0].Name)

	n, err := products.InsertMany(ctx, []models.Product{{ID: "fresh", Name: "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testProductViews(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	products := store.Products

	for _, p := range []models.Product{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}} {
		_, err := products.Upsert(ctx, &p)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := products.IncrementViews(ctx, "b")
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	ok, err := products.IncrementViews(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = products.IncrementViews(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = products.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	top, err := products.TopViewed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ID)
	assert.Equal(t, int64(10), top[0].Views)
	assert.Equal(t, "c", top[1].ID)

	// Editar el producto no reinicia el contador
	_, err = products.Upsert(ctx, &models.Product{ID: "b", Name: "B2"})
	require.NoError(t, err)
	b, err := products.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Views)
}

func testCategories(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	categories := store.Categories

	require.NoError(t, categories.InsertMany(ctx, []models.Category{
		{ID: "2", Name: "Giải trí", Order: 2},
		{ID: "1", Name: "AI", Order: 1},
	}))
	added, err := categories.Upsert(ctx, &models.Category{Name: "Học tập", Order: 3})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"1", "2", added.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	added.Name = "Thiết kế"
	_, err = categories.Upsert(ctx, added)
	require.NoError(t, err)
	list, err = categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Thiết kế", list[2].Name)

	require.NoError(t, categories.Delete(ctx, "1"))
	assert.ErrorIs(t, categories.Delete(ctx, "1"), repository.ErrNotFound)
}

func testSiteConfig(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	_, err := store.SiteConfig.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.SiteConfig.Replace(ctx, &models.SiteConfig{SiteName: "One", Notices: []string{"a"}}))
	require.NoError(t, store.SiteConfig.Replace(ctx, &models.SiteConfig{SiteName: "Two"}))

	cfg, err := store.SiteConfig.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Two", cfg.SiteName)
	assert.Empty(t, cfg.Notices)
	assert.NotNil(t, cfg.Notices)
}

func testSocialLinks(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	links, err := store.SocialLinks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = store.SocialLinks.ReplaceAll(ctx, []models.SocialLink{{Platform: "Zalo", Order: 2}, {Platform: "Facebook", Order: 1}})
	require.NoError(t, err)
	saved, err := store.SocialLinks.ReplaceAll(ctx, []models.SocialLink{{Platform: "Telegram", Order: 2}, {Platform: "Instagram", Order: 1}})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.NotEmpty(t, saved[0].ID)

	links, err = store.SocialLinks.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Instagram", links[0].Platform)
	assert.Equal(t, "Telegram", links[1].Platform)
}

func testVisitors(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	visitors := store.Visitors
	base := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

	record := func(ip, date, ua string, at time.Time) {
		t.Helper()
		require.NoError(t, visitors.Record(ctx, ip, date, ua, at))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, visitors.Record(ctx, "1.1.1.1", "2024-05-20", "chrome", base.Add(time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	record("1.1.1.1", "2024-05-20", "safari", base.Add(time.Minute))
	record("2.2.2.2", "2024-05-20", "chrome", base.Add(2*time.Minute))
	record("2.2.2.2", "2024-05-18", "chrome", base.Add(-48*time.Hour))
	record("3.3.3.3", "2024-05-10", "edge", base.Add(-240*time.Hour))

	hits, records, err := visitors.DaySummary(ctx, "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, int64(10), hits)
	assert.Equal(t, int64(3), records)

	hits, records, err = visitors.DaySummary(ctx, "2024-05-19")
	require.NoError(t, err)
	assert.Zero(t, hits)
	assert.Zero(t, records)

	total, err := visitors.TotalHits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)

	ips, err := visitors.DistinctIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ips)

	history, err := visitors.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.DailyVisits{Date: "2024-05-20", Hits: 10, Unique: 3}, history[0])
	assert.Equal(t, models.DailyVisits{Date: "2024-05-18", Hits: 1, Unique: 1}, history[1])

	recent, err := visitors.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2.2.2.2", recent[0].IP)
	assert.Equal(t, "safari", recent[1].UserAgent)

	deleted, err := visitors.DeleteBefore(ctx, "2024-05-18")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	ips, err = visitors.DistinctIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ips)
}
