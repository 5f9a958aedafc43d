package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hylehub-store/internal/cache"
	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
	"hylehub-store/internal/seed"
)

// CatalogHandler sirve configuración del sitio, categorías y enlaces sociales
type CatalogHandler struct {
	store *repository.Store
	cache *cache.Cache
}

func NewCatalogHandler(store *repository.Store, c *cache.Cache) *CatalogHandler {
	return &CatalogHandler{store: store, cache: c}
}

// GetConfig devuelve la configuración; la crea con valores iniciales si no existe
func (h *CatalogHandler) GetConfig(c *gin.Context) {
	cfg, err := cache.Load(c.Request.Context(), h.cache, cache.KeySiteConfig, func(ctx context.Context) (*models.SiteConfig, error) {
		return seed.SiteConfigOrDefault(ctx, h.store.SiteConfig)
	})
	if err != nil {
		storeError(c, err, "failed to load site config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *CatalogHandler) SaveConfig(c *gin.Context) {
	var cfg models.SiteConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.store.SiteConfig.Replace(c.Request.Context(), &cfg); err != nil {
		storeError(c, err, "failed to save site config")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, cfg)
}

// ListCategories devuelve las categorías por orden; ?visible=true oculta las no visibles
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := cache.Load(c.Request.Context(), h.cache, cache.KeyCategories, func(ctx context.Context) ([]models.Category, error) {
		return seed.CategoriesOrDefault(ctx, h.store.Categories)
	})
	if err != nil {
		storeError(c, err, "failed to list categories")
		return
	}

	if c.Query("visible") != "true" {
		c.JSON(http.StatusOK, categories)
		return
	}
	visible := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.IsVisible {
			visible = append(visible, cat)
		}
	}
	c.JSON(http.StatusOK, visible)
}

func (h *CatalogHandler) UpsertCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.store.Categories.Upsert(c.Request.Context(), &category)
	if err != nil {
		storeError(c, err, "failed to save category")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, saved)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.store.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, "failed to delete category")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *CatalogHandler) ListSocials(c *gin.Context) {
	links, err := cache.Load(c.Request.Context(), h.cache, cache.KeySocialLinks, func(ctx context.Context) ([]models.SocialLink, error) {
		return seed.SocialLinksOrDefault(ctx, h.store.SocialLinks)
	})
	if err != nil {
		storeError(c, err, "failed to list social links")
		return
	}
	c.JSON(http.StatusOK, links)
}

// ReplaceSocials sustituye la lista completa de enlaces
func (h *CatalogHandler) ReplaceSocials(c *gin.Context) {
	var links []models.SocialLink
	if err := c.ShouldBindJSON(&links); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.store.SocialLinks.ReplaceAll(c.Request.Context(), links)
	if err != nil {
		storeError(c, err, "failed to save social links")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, saved)
}
