package catalog

import "hylehub-store/internal/models"

// Umbral bajo el cual un precio sin escala se interpreta en miles (60 => 60.000)
const legacyThousandThreshold = 1000

// PriceRange es un bucket de precio sobre el precio mínimo normalizado
type PriceRange string

const (
	RangeAll      PriceRange = "all"
	RangeUnder50  PriceRange = "under_50"
	Range50To200  PriceRange = "50_200"
	Range200To500 PriceRange = "200_500"
	RangeAbove500 PriceRange = "above_500"
)

// NormalizePrice lleva el precio de una opción con escala explícita a VND.
// Sin escala aplica la heurística heredada: < 1000 se interpreta en miles.
func NormalizePrice(o models.PriceOption) float64 {
	switch o.PriceScale {
	case models.PriceScaleThousand:
		return o.Price * 1000
	case models.PriceScaleUnit:
		return o.Price
	}
	return scaleLegacy(o.Price)
}

func scaleLegacy(price float64) float64 {
	if price < legacyThousandThreshold {
		return price * 1000
	}
	return price
}

// NormalizedMinPrice devuelve el menor precio del producto en VND; 0 si no tiene opciones.
// Las opciones sin escala se reducen primero a su mínimo crudo y luego se escalan,
// igual que los datos cargados antes de existir PriceScale.
func NormalizedMinPrice(p *models.Product) float64 {
	if len(p.PriceOptions) == 0 {
		return 0
	}
	var (
		legacyMin, explicitMin float64
		hasLegacy, hasExplicit bool
	)
	for _, o := range p.PriceOptions {
		if o.PriceScale == "" {
			if !hasLegacy || o.Price < legacyMin {
				legacyMin = o.Price
			}
			hasLegacy = true
			continue
		}
		if v := NormalizePrice(o); !hasExplicit || v < explicitMin {
			explicitMin = v
		}
		hasExplicit = true
	}
	switch {
	case hasLegacy && hasExplicit:
		return min(scaleLegacy(legacyMin), explicitMin)
	case hasLegacy:
		return scaleLegacy(legacyMin)
	}
	return explicitMin
}

// Contains indica si price cae en el bucket. Un bucket desconocido no filtra.
func (r PriceRange) Contains(price float64) bool {
	switch r {
	case RangeUnder50:
		return price < 50000
	case Range50To200:
		return price >= 50000 && price <= 200000
	case Range200To500:
		return price > 200000 && price <= 500000
	case RangeAbove500:
		return price > 500000
	}
	return true
}
