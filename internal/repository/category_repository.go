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

type CategoryRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewCategoryRepository(collection *mongo.Collection, timeout time.Duration) *CategoryRepository {
	return &CategoryRepository{collection: collection, timeout: timeout}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find categories")
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// Upsert reemplaza los campos de la categoría identificada por id
func (r *CategoryRepository) Upsert(ctx context.Context, category *models.Category) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if category.ID == "" {
		category.ID = NewID()
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": category.ID}, bson.M{"$set": category}, opts).Decode(&saved)
	if err != nil {
		return nil, errors.Wrapf(err, "upsert category %s", category.ID)
	}
	return &saved, nil
}

func (r *CategoryRepository) InsertMany(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs := make([]interface{}, 0, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			c.ID = NewID()
		}
		docs = append(docs, c)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return errors.Wrap(err, "insert categories")
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete category %s", id)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
