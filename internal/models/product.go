package models

import "time"

// Estados posibles de un producto
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusHidden    = "hidden"
)

// Escalas de precio. Vacío significa registro heredado: se infiere por magnitud.
const (
	PriceScaleUnit     = "unit"
	PriceScaleThousand = "thousand"
)

// Product representa un producto en el catálogo
type Product struct {
	ID               string        `json:"id" bson:"id" yaml:"id"`
	Name             string        `json:"name" bson:"name" yaml:"name" binding:"required"`
	Slug             string        `json:"slug" bson:"slug" yaml:"slug"`
	CategoryID       string        `json:"categoryId" bson:"categoryId" yaml:"categoryId"`
	Status           string        `json:"status" bson:"status" yaml:"status"`
	ThumbnailURL     string        `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty" yaml:"thumbnailUrl"`
	GalleryURLs      []string      `json:"galleryUrls" bson:"galleryUrls" yaml:"galleryUrls"`
	ShortDescription string        `json:"shortDescription,omitempty" bson:"shortDescription,omitempty" yaml:"shortDescription"`
	FullDescription  string        `json:"fullDescription,omitempty" bson:"fullDescription,omitempty" yaml:"fullDescription"`
	Tags             []string      `json:"tags" bson:"tags" yaml:"tags"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty" yaml:"notes"`
	IsHot            bool          `json:"isHot" bson:"isHot" yaml:"isHot"`
	Views            int64         `json:"views" bson:"views" yaml:"-"`
	PriceOptions     []PriceOption `json:"priceOptions" bson:"priceOptions" yaml:"priceOptions" binding:"dive"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// PriceOption es una variante de precio (plan, periodo...)
type PriceOption struct {
	ID          string  `json:"id" bson:"id" yaml:"id"`
	Name        string  `json:"name" bson:"name" yaml:"name"`
	Price       float64 `json:"price" bson:"price" yaml:"price" binding:"gte=0"`
	PriceScale  string  `json:"priceScale,omitempty" bson:"priceScale,omitempty" yaml:"priceScale" binding:"omitempty,oneof=unit thousand"`
	Currency    string  `json:"currency" bson:"currency" yaml:"currency"`
	Unit        string  `json:"unit" bson:"unit" yaml:"unit"`
	Description string  `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	IsHighlight bool    `json:"isHighlight" bson:"isHighlight" yaml:"isHighlight"`
}

// ValidStatus indica si s es un estado conocido
func ValidStatus(s string) bool {
	switch s {
	case StatusPublished, StatusDraft, StatusHidden:
		return true
	}
	return false
}
