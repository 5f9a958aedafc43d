package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"hylehub-store/internal/cache"
	"hylehub-store/internal/catalog"
	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
)

// Parámetros que activan el filtrado en servidor
var productQueryParams = []string{"category", "q", "priceRange", "sort", "status", "page", "pageSize"}

type ProductHandler struct {
	repo   repository.ProductStore
	cache  *cache.Cache
	locale language.Tag
}

func NewProductHandler(repo repository.ProductStore, c *cache.Cache, locale language.Tag) *ProductHandler {
	return &ProductHandler{
		repo:   repo,
		cache:  c,
		locale: locale,
	}
}

// allProducts devuelve el listado completo (con caché)
func (h *ProductHandler) allProducts(c *gin.Context) ([]models.Product, error) {
	return cache.Load(c.Request.Context(), h.cache, cache.KeyProducts, h.repo.List)
}

// ListProducts devuelve todos los productos; con parámetros de consulta filtra y ordena en servidor
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.allProducts(c)
	if err != nil {
		storeError(c, err, "failed to list products")
		return
	}

	if !hasAnyQuery(c, productQueryParams) {
		c.JSON(http.StatusOK, products)
		return
	}

	query := catalog.Query{
		Category:   c.Query("category"),
		Search:     c.Query("q"),
		PriceRange: catalog.PriceRange(c.Query("priceRange")),
		Sort:       catalog.SortOption(c.Query("sort")),
		Status:     c.Query("status"),
		Locale:     h.locale,
	}
	filtered := catalog.Apply(products, query)

	page, pageSize := getPaginationParams(c)
	c.Header(totalCountHead, strconv.Itoa(len(filtered)))
	c.JSON(http.StatusOK, catalog.Paginate(filtered, page, pageSize))
}

func hasAnyQuery(c *gin.Context, keys []string) bool {
	values := c.Request.URL.Query()
	for _, k := range keys {
		if _, ok := values[k]; ok {
			return true
		}
	}
	return false
}

// GetProduct obtiene un producto por ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "failed to get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpsertProduct crea o actualiza un producto por id
func (h *ProductHandler) UpsertProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateProduct(&product); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.repo.Upsert(c.Request.Context(), &product)
	if err != nil {
		storeError(c, err, "failed to save product")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, saved)
}

// BulkImport inserta una lista de productos
func (h *ProductHandler) BulkImport(c *gin.Context) {
	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			badRequest(c, errors.New("body must be an array of products"))
			return
		}
		badRequest(c, err)
		return
	}
	for i := range products {
		if err := validateProduct(&products[i]); err != nil {
			badRequest(c, fmt.Errorf("item %d: %w", i, err))
			return
		}
	}

	count, err := h.repo.InsertMany(c.Request.Context(), products)
	if err != nil {
		storeError(c, err, "failed to import products")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Count: count})
}

// DeleteProduct elimina un producto
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, "failed to delete product")
		return
	}

	h.cache.Invalidate(cache.PrefixCatalog)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// validateProduct valida los campos que no cubren las etiquetas binding
func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if p.Status != "" && !models.ValidStatus(p.Status) {
		return &ValidationError{Field: "status", Message: "status must be published, draft or hidden"}
	}
	for _, o := range p.PriceOptions {
		if o.Price < 0 {
			return &ValidationError{Field: "priceOptions", Message: "price cannot be negative"}
		}
		if o.PriceScale != "" && o.PriceScale != models.PriceScaleUnit && o.PriceScale != models.PriceScaleThousand {
			return &ValidationError{Field: "priceOptions", Message: "priceScale must be unit or thousand"}
		}
	}
	return nil
}
