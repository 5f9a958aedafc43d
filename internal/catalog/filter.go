package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hylehub-store/internal/models"
)

// AllCategories es el selector que desactiva el filtro por categoría
const AllCategories = "all"

// SortOption es el criterio de ordenamiento de la tienda
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortNameAsc   SortOption = "name_asc"
)

// Query describe una consulta sobre la lista de productos
type Query struct {
	Category   string
	Search     string
	PriceRange PriceRange
	Sort       SortOption
	// Status vacío acepta cualquier estado
	Status string
	// Locale para comparar nombres; por defecto vietnamita
	Locale language.Tag
}

// Matches evalúa los predicados de q sobre p (todos con AND)
func (q Query) Matches(p *models.Product) bool {
	if q.Category != "" && q.Category != AllCategories && p.CategoryID != q.Category {
		return false
	}
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if !matchesSearch(p, q.Search) {
		return false
	}
	if q.PriceRange != "" && q.PriceRange != RangeAll {
		return q.PriceRange.Contains(NormalizedMinPrice(p))
	}
	return true
}

func matchesSearch(p *models.Product, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Apply filtra y ordena products según q. No modifica el slice de entrada.
func Apply(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if q.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	Sort(out, q.Sort, q.Locale)
	return out
}

// Sort ordena products en sitio de forma estable
func Sort(products []models.Product, opt SortOption, locale language.Tag) {
	switch opt {
	case SortPriceAsc, SortPriceDesc:
		type priced struct {
			product models.Product
			price   float64
		}
		keyed := make([]priced, len(products))
		for i := range products {
			keyed[i] = priced{product: products[i], price: NormalizedMinPrice(&products[i])}
		}
		desc := opt == SortPriceDesc
		slices.SortStableFunc(keyed, func(a, b priced) int {
			pa, pb := a.price, b.price
			if desc {
				pa, pb = pb, pa
			}
			switch {
			case pa < pb:
				return -1
			case pa > pb:
				return 1
			}
			return 0
		})
		for i := range keyed {
			products[i] = keyed[i].product
		}
	case SortNameAsc:
		if locale == language.Und {
			locale = language.Vietnamese
		}
		// collate.Collator no es seguro para uso concurrente: uno por llamada
		col := collate.New(locale)
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			if a.IsHot != b.IsHot {
				if a.IsHot {
					return -1
				}
				return 1
			}
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}
}

// Paginate devuelve la página solicitada (base 1). pageSize <= 0 devuelve todo.
func Paginate(products []models.Product, page, pageSize int) []models.Product {
	if pageSize <= 0 {
		return products
	}
	if page < 1 {
		page = 1
	}
	// Comparar antes de multiplicar: page y pageSize vienen de la query y pueden desbordar
	if len(products) == 0 || page-1 > (len(products)-1)/pageSize {
		return []models.Product{}
	}
	start := (page - 1) * pageSize
	end := len(products)
	if pageSize < end-start {
		end = start + pageSize
	}
	return products[start:end]
}
