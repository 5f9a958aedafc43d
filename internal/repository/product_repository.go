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

type ProductRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewProductRepository(collection *mongo.Collection, timeout time.Duration) *ProductRepository {
	return &ProductRepository{
		collection: collection,
		timeout:    timeout,
	}
}

// List obtiene todos los productos (destacados primero, luego los más recientes)
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "isHot", Value: -1},
		{Key: "updatedAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	return &product, nil
}

// Upsert crea o actualiza un producto por id. createdAt y views solo se fijan al insertar.
func (r *ProductRepository) Upsert(ctx context.Context, product *models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	PrepareProduct(product)
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"id":               product.ID,
			"name":             product.Name,
			"slug":             product.Slug,
			"categoryId":       product.CategoryID,
			"status":           product.Status,
			"thumbnailUrl":     product.ThumbnailURL,
			"galleryUrls":      product.GalleryURLs,
			"shortDescription": product.ShortDescription,
			"fullDescription":  product.FullDescription,
			"tags":             product.Tags,
			"notes":            product.Notes,
			"isHot":            product.IsHot,
			"priceOptions":     product.PriceOptions,
			"updatedAt":        now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
			"views":     int64(0),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": product.ID}, update, opts).Decode(&saved); err != nil {
		return nil, errors.Wrapf(err, "upsert product %s", product.ID)
	}
	return &saved, nil
}

// InsertMany inserta productos nuevos (importación masiva)
func (r *ProductRepository) InsertMany(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*r.timeout)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(products))
	ids := make([]string, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := products[i]
		PrepareProduct(&p)
		if _, ok := seen[p.ID]; ok {
			return 0, errors.Wrapf(ErrDuplicateID, "product %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Views = 0
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
		ids = append(ids, p.ID)
	}

	var existing models.Product
	err := r.collection.FindOne(ctx, bson.M{"id": bson.M{"$in": ids}}).Decode(&existing)
	switch {
	case err == nil:
		return 0, errors.Wrapf(ErrDuplicateID, "product %s", existing.ID)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return 0, errors.Wrap(err, "check product ids")
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, errors.Wrap(ErrDuplicateID, err.Error())
		}
		return 0, errors.Wrap(err, "insert products")
	}
	return len(result.InsertedIDs), nil
}

// Delete elimina un producto
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews suma una vista sin crear el producto si no existe
func (r *ProductRepository) IncrementViews(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return false, errors.Wrapf(err, "increment views %s", id)
	}
	return result.MatchedCount > 0, nil
}

// TopViewed devuelve los productos más vistos
func (r *ProductRepository) TopViewed(ctx context.Context, limit int) ([]models.TopProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"id":           1,
			"name":         1,
			"thumbnailUrl": 1,
			"views":        1,
			"categoryId":   1,
		})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find top products")
	}
	defer cursor.Close(ctx)

	top := make([]models.TopProduct, 0, limit)
	if err = cursor.All(ctx, &top); err != nil {
		return nil, errors.Wrap(err, "decode top products")
	}
	return top, nil
}
