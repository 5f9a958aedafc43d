package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hylehub-store/internal/models"
)

// SiteConfigRepository persiste el documento único de configuración
type SiteConfigRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewSiteConfigRepository(collection *mongo.Collection, timeout time.Duration) *SiteConfigRepository {
	return &SiteConfigRepository{collection: collection, timeout: timeout}
}

func (r *SiteConfigRepository) Get(ctx context.Context) (*models.SiteConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cfg models.SiteConfig
	if err := r.collection.FindOne(ctx, bson.M{}).Decode(&cfg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find site config")
	}
	if cfg.Notices == nil {
		cfg.Notices = []string{}
	}
	return &cfg, nil
}

func (r *SiteConfigRepository) Replace(ctx context.Context, cfg *models.SiteConfig) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if cfg.Notices == nil {
		cfg.Notices = []string{}
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{}, cfg, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "replace site config")
}

// SocialLinkRepository persiste los enlaces sociales
type SocialLinkRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewSocialLinkRepository(collection *mongo.Collection, timeout time.Duration) *SocialLinkRepository {
	return &SocialLinkRepository{collection: collection, timeout: timeout}
}

func (r *SocialLinkRepository) List(ctx context.Context) ([]models.SocialLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find social links")
	}
	defer cursor.Close(ctx)

	links := make([]models.SocialLink, 0)
	if err = cursor.All(ctx, &links); err != nil {
		return nil, errors.Wrap(err, "decode social links")
	}
	return links, nil
}

// ReplaceAll borra todos los enlaces e inserta los recibidos
func (r *SocialLinkRepository) ReplaceAll(ctx context.Context, links []models.SocialLink) ([]models.SocialLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, errors.Wrap(err, "clear social links")
	}

	saved := make([]models.SocialLink, 0, len(links))
	docs := make([]interface{}, 0, len(links))
	for _, l := range links {
		if l.ID == "" {
			l.ID = NewID()
		}
		saved = append(saved, l)
		docs = append(docs, l)
	}
	if len(docs) == 0 {
		return saved, nil
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, errors.Wrap(err, "insert social links")
	}
	return saved, nil
}
