package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de colecciones
const (
	ProductsCollection    = "products"
	CategoriesCollection  = "categories"
	SiteConfigCollection  = "site_config"
	SocialLinksCollection = "social_links"
	VisitorsCollection    = "visitors"
)

type mongoPinger struct {
	client  *mongo.Client
	timeout time.Duration
}

func (p mongoPinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Ping(ctx, readpref.Primary())
}

// NewMongoStore construye el Store sobre una base de datos MongoDB
func NewMongoStore(db *mongo.Database, timeout time.Duration) *Store {
	return &Store{
		Products:    NewProductRepository(db.Collection(ProductsCollection), timeout),
		Categories:  NewCategoryRepository(db.Collection(CategoriesCollection), timeout),
		SiteConfig:  NewSiteConfigRepository(db.Collection(SiteConfigCollection), timeout),
		SocialLinks: NewSocialLinkRepository(db.Collection(SocialLinksCollection), timeout),
		Visitors:    NewVisitorRepository(db.Collection(VisitorsCollection), timeout),
		Health:      mongoPinger{client: db.Client(), timeout: timeout},
	}
}
