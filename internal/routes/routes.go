package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"hylehub-store/internal/cache"
	"hylehub-store/internal/handlers"
	"hylehub-store/internal/middleware"
	"hylehub-store/internal/repository"
)

// Dependencies agrupa lo necesario para montar la API
type Dependencies struct {
	Store          *repository.Store
	Cache          *cache.Cache
	Tracker        handlers.Tracker
	AdminPassword  string
	CORSOrigins    []string
	// Proxies cuyo X-Forwarded-For se acepta; vacío usa la IP del socket
	TrustedProxies []string
	Locale         language.Tag
	Logger         logrus.FieldLogger
}

// NewRouter crea el engine de gin con middlewares y rutas
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.WithError(err).Error("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), corsMiddleware(deps.CORSOrigins))
	RegisterRoutes(router, deps)
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.AdminHeader)
	cfg.ExposeHeaders = []string{"X-Total-Count"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	products := handlers.NewProductHandler(deps.Store.Products, deps.Cache, deps.Locale)
	catalog := handlers.NewCatalogHandler(deps.Store, deps.Cache)
	analytics := handlers.NewAnalyticsHandler(deps.Tracker, deps.Logger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "HyleHub catalog API is running.")
	})
	router.GET("/healthz", handlers.Health(deps.Store.Health))

	api := router.Group("/api")
	{
		api.POST("/auth/login", handlers.Login(deps.AdminPassword))

		// La analítica de la tienda responde éxito aunque el almacenamiento falle
		api.POST("/analytics/track", analytics.TrackVisit)
		api.POST("/analytics/view-product/:id", analytics.TrackProductView)
	}

	public := api.Group("", middleware.StoreReady(deps.Store.Health))
	{
		public.GET("/config", catalog.GetConfig)
		public.GET("/categories", catalog.ListCategories)
		public.GET("/socials", catalog.ListSocials)
		public.GET("/products", products.ListProducts)
		public.GET("/products/:id", products.GetProduct)
	}

	admin := api.Group("", middleware.AdminAuth(deps.AdminPassword), middleware.StoreReady(deps.Store.Health))
	{
		admin.POST("/config", catalog.SaveConfig)

		admin.POST("/categories", catalog.UpsertCategory)
		admin.DELETE("/categories/:id", catalog.DeleteCategory)

		admin.POST("/socials", catalog.ReplaceSocials)

		admin.POST("/products", products.UpsertProduct)
		admin.POST("/products/bulk", products.BulkImport)
		admin.DELETE("/products/:id", products.DeleteProduct)

		admin.GET("/analytics/report", analytics.Report)
		admin.GET("/analytics/stats", analytics.Stats)
	}
}
