package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"hylehub-store/internal/analytics"
	"hylehub-store/internal/cache"
	"hylehub-store/internal/middleware"
	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
	"hylehub-store/internal/repository/memory"
)

const testSecret = "s3cret"

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixtures struct {
	router *gin.Engine
	store  *repository.Store
	cache  *cache.Cache
}

func newTestAPI(t *testing.T, opts ...func(*Dependencies)) apiFixtures {
	t.Helper()
	store := memory.NewStore()
	c := cache.New(time.Minute)
	t.Cleanup(c.Close)
	log, _ := test.NewNullLogger()

	deps := Dependencies{
		Store:         store,
		Cache:         c,
		Tracker:       analytics.NewService(store.Visitors, store.Products, analytics.WithLogger(log)),
		AdminPassword: testSecret,
		Locale:        language.Vietnamese,
		Logger:        log,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	router := NewRouter(deps)
	return apiFixtures{router: router, store: store, cache: c}
}

func (fx apiFixtures) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	if admin {
		req.Header.Set(middleware.AdminHeader, testSecret)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProducts_CRUD(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":       "Netflix Premium",
		"categoryId": "2",
		"status":     "published",
		"tags":       []string{"Netflix", "Phim"},
		"priceOptions": []map[string]any{
			{"name": "Gói tháng", "price": 60, "currency": "K", "unit": "tháng"},
		},
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	rec = fx.do(t, http.MethodGet, "/api/products/"+created.ID, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Netflix Premium", decode[models.Product](t, rec).Name)

	// Actualizar con el mismo id no duplica
	created.Name = "Netflix 4K"
	rec = fx.do(t, http.MethodPost, "/api/products", created, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/products", nil, false)
	list := decode[[]models.Product](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Netflix 4K", list[0].Name)

	rec = fx.do(t, http.MethodDelete, "/api/products/"+created.ID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/products/"+created.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(t, http.MethodDelete, "/api/products/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Validation(t *testing.T) {
	fx := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing name", body: map[string]any{"categoryId": "1"}},
		{name: "bad status", body: map[string]any{"name": "x", "status": "archived"}},
		{name: "negative price", body: map[string]any{"name": "x", "priceOptions": []map[string]any{{"price": -1}}}},
		{name: "bad scale", body: map[string]any{"name": "x", "priceOptions": []map[string]any{{"price": 1, "priceScale": "million"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(t, http.MethodPost, "/api/products", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminRoutesRequireSecret(t *testing.T) {
	fx := newTestAPI(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/products"},
		{http.MethodPost, "/api/products/bulk"},
		{http.MethodDelete, "/api/products/x"},
		{http.MethodPost, "/api/categories"},
		{http.MethodDelete, "/api/categories/x"},
		{http.MethodPost, "/api/config"},
		{http.MethodPost, "/api/socials"},
		{http.MethodGet, "/api/analytics/report"},
		{http.MethodGet, "/api/analytics/stats"},
	}

	for _, r := range routes {
		rec := fx.do(t, r.method, r.path, map[string]any{"name": "x"}, false)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
	}
}

func TestProducts_BulkImport(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodPost, "/api/products/bulk", map[string]any{"name": "not an array"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/products/bulk", []map[string]any{{"name": "A"}, {"slug": "no-name"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/products/bulk", []map[string]any{{"name": "A"}, {"name": "B"}}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"count":2}`, rec.Body.String())

	rec = fx.do(t, http.MethodGet, "/api/products", nil, false)
	list := decode[[]models.Product](t, rec)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.Equal(t, models.StatusDraft, p.Status)
		assert.NotNil(t, p.Tags)
	}

	// Un id existente rechaza el lote completo
	rec = fx.do(t, http.MethodPost, "/api/products/bulk", []map[string]any{{"id": "new", "name": "C"}, {"id": list[0].ID, "name": "Dup"}}, true)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = fx.do(t, http.MethodGet, "/api/products", nil, false)
	assert.Len(t, decode[[]models.Product](t, rec), 2)
}

func TestProducts_ServerSideQuery(t *testing.T) {
	fx := newTestAPI(t)
	ctx := context.Background()

	_, err := fx.store.Products.InsertMany(ctx, []models.Product{
		{ID: "a", Name: "A", Status: models.StatusPublished, CategoryID: "1", PriceOptions: []models.PriceOption{{Price: 89000}}},
		{ID: "b", Name: "B", Status: models.StatusPublished, CategoryID: "2", IsHot: true, PriceOptions: []models.PriceOption{{Price: 150000}}},
		{ID: "c", Name: "C", Status: models.StatusDraft, CategoryID: "1", PriceOptions: []models.PriceOption{{Price: 20}}},
	})
	require.NoError(t, err)

	ids := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, p := range decode[[]models.Product](t, rec) {
			out = append(out, p.ID)
		}
		return out
	}

	rec := fx.do(t, http.MethodGet, "/api/products?status=published&sort=price_asc", nil, false)
	assert.Equal(t, []string{"a", "b"}, ids(rec))
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	rec = fx.do(t, http.MethodGet, "/api/products?priceRange=under_50", nil, false)
	assert.Equal(t, []string{"c"}, ids(rec))

	rec = fx.do(t, http.MethodGet, "/api/products?category=1&sort=price_desc", nil, false)
	assert.Equal(t, []string{"a", "c"}, ids(rec))

	rec = fx.do(t, http.MethodGet, "/api/products?q=b", nil, false)
	assert.Equal(t, []string{"b"}, ids(rec))

	rec = fx.do(t, http.MethodGet, "/api/products?sort=default&pageSize=1&page=2", nil, false)
	assert.Len(t, ids(rec), 1)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
}

func TestProducts_PageBeyondRange(t *testing.T) {
	fx := newTestAPI(t)
	_, err := fx.store.Products.Upsert(context.Background(), &models.Product{Name: "Canva Pro"})
	require.NoError(t, err)

	for _, query := range []string{
		"page=92233720368547760&pageSize=100",
		"page=9223372036854775807&pageSize=2",
		"page=5&pageSize=10",
	} {
		rec := fx.do(t, http.MethodGet, "/api/products?"+query, nil, false)
		require.Equal(t, http.StatusOK, rec.Code, query)
		assert.JSONEq(t, `[]`, rec.Body.String(), query)
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	}
}

func TestCatalog_SeedsDefaultsOnFirstRead(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodGet, "/api/config", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HyleHub Store", decode[models.SiteConfig](t, rec).SiteName)

	rec = fx.do(t, http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Category](t, rec), 3)

	rec = fx.do(t, http.MethodGet, "/api/socials", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.SocialLink](t, rec), 4)
}

func TestCatalog_AdminWritesInvalidateCache(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodGet, "/api/categories", nil, false)
	require.Len(t, decode[[]models.Category](t, rec), 3)

	rec = fx.do(t, http.MethodPost, "/api/categories", models.Category{Name: "Âm nhạc", Order: 4, IsVisible: false}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	newID := decode[models.Category](t, rec).ID
	require.NotEmpty(t, newID)

	rec = fx.do(t, http.MethodGet, "/api/categories", nil, false)
	all := decode[[]models.Category](t, rec)
	require.Len(t, all, 4)
	assert.Equal(t, newID, all[3].ID)

	rec = fx.do(t, http.MethodGet, "/api/categories?visible=true", nil, false)
	assert.Len(t, decode[[]models.Category](t, rec), 3)

	rec = fx.do(t, http.MethodDelete, "/api/categories/"+newID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/config", models.SiteConfig{SiteName: "New name"}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = fx.do(t, http.MethodGet, "/api/config", nil, false)
	cfg := decode[models.SiteConfig](t, rec)
	assert.Equal(t, "New name", cfg.SiteName)
	assert.NotNil(t, cfg.Notices)

	rec = fx.do(t, http.MethodPost, "/api/socials", []models.SocialLink{{Platform: "TikTok", Order: 1}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = fx.do(t, http.MethodGet, "/api/socials", nil, false)
	links := decode[[]models.SocialLink](t, rec)
	require.Len(t, links, 1)
	assert.Equal(t, "TikTok", links[0].Platform)
	assert.NotEmpty(t, links[0].ID)
}

func TestAnalytics_TrackAndReport(t *testing.T) {
	fx := newTestAPI(t)
	ctx := context.Background()

	p, err := fx.store.Products.Upsert(ctx, &models.Product{Name: "Youtube Premium", CategoryID: "2"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec := fx.do(t, http.MethodPost, "/api/analytics/track", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}
	rec := fx.do(t, http.MethodPost, "/api/analytics/view-product/"+p.ID, nil, false)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = fx.do(t, http.MethodPost, "/api/analytics/view-product/missing", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	_, err = fx.store.Products.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	rec = fx.do(t, http.MethodGet, "/api/analytics/report", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[models.Report](t, rec)

	assert.Equal(t, int64(3), report.Stats.TodayViews)
	assert.Equal(t, int64(1), report.Stats.TodayUnique)
	assert.Equal(t, int64(3), report.Stats.TotalViews)
	assert.Equal(t, int64(1), report.Stats.TotalUniqueIPs)
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, int64(1), report.TopProducts[0].Views)
	require.Len(t, report.RecentVisitors, 1)
	assert.Equal(t, "test-agent", report.RecentVisitors[0].UserAgent)
	assert.Equal(t, int64(3), report.RecentVisitors[0].Hits)
	require.Len(t, report.VisitorHistory, 1)

	rec = fx.do(t, http.MethodGet, "/api/analytics/stats", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"todayViews":3,"todayUnique":1,"totalViews":3,"totalUniqueIps":1}`, rec.Body.String())
}

func trackFrom(t *testing.T, fx apiFixtures, remoteAddr, forwardedFor string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalytics_ForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	fx := newTestAPI(t)
	ctx := context.Background()

	for _, spoofed := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		trackFrom(t, fx, "198.51.100.7:4000", spoofed)
	}

	ips, err := fx.store.Visitors.DistinctIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ips)

	recent, err := fx.store.Visitors.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "198.51.100.7", recent[0].IP)
	assert.Equal(t, int64(3), recent[0].Hits)
}

func TestAnalytics_ForwardedForFromTrustedProxy(t *testing.T) {
	fx := newTestAPI(t, func(d *Dependencies) { d.TrustedProxies = []string{"10.0.0.0/8"} })
	ctx := context.Background()

	trackFrom(t, fx, "10.1.2.3:4000", "203.0.113.1")
	trackFrom(t, fx, "198.51.100.7:4000", "203.0.113.2")

	recent, err := fx.store.Visitors.Recent(ctx, 10)
	require.NoError(t, err)
	var got []string
	for _, v := range recent {
		got = append(got, v.IP)
	}
	assert.ElementsMatch(t, []string{"203.0.113.1", "198.51.100.7"}, got)
}

func TestLogin(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": testSecret}, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestHealth(t *testing.T) {
	fx := newTestAPI(t)

	rec := fx.do(t, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
