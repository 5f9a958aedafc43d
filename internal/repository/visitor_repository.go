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

type VisitorRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewVisitorRepository(collection *mongo.Collection, timeout time.Duration) *VisitorRepository {
	return &VisitorRepository{collection: collection, timeout: timeout}
}

// Record hace un upsert atómico sobre el índice único (ip, date, userAgent)
func (r *VisitorRepository) Record(ctx context.Context, ip, date, userAgent string, seen time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"ip": ip, "date": date, "userAgent": userAgent}
	update := bson.M{
		"$inc": bson.M{"hits": 1},
		"$set": bson.M{"lastSeen": seen},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Dos upserts simultáneos sobre la misma clave: el segundo ya encuentra el documento
		_, err = r.collection.UpdateOne(ctx, filter, update, opts)
	}
	return errors.Wrap(err, "record visit")
}

type hitsSummary struct {
	Hits    int64 `bson:"hits"`
	Records int64 `bson:"records"`
}

func (r *VisitorRepository) summarize(ctx context.Context, match bson.M) (hitsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"hits":    bson.M{"$sum": "$hits"},
			"records": bson.M{"$sum": 1},
		}}},
	}

	var out hitsSummary
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return out, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		if err := cursor.Decode(&out); err != nil {
			return out, err
		}
	}
	return out, cursor.Err()
}

func (r *VisitorRepository) DaySummary(ctx context.Context, date string) (int64, int64, error) {
	s, err := r.summarize(ctx, bson.M{"date": date})
	if err != nil {
		return 0, 0, errors.Wrapf(err, "summarize visits for %s", date)
	}
	return s.Hits, s.Records, nil
}

func (r *VisitorRepository) TotalHits(ctx context.Context) (int64, error) {
	s, err := r.summarize(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "summarize visits")
	}
	return s.Hits, nil
}

func (r *VisitorRepository) DistinctIPs(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ips, err := r.collection.Distinct(ctx, "ip", bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "distinct visitor ips")
	}
	return int64(len(ips)), nil
}

func (r *VisitorRepository) History(ctx context.Context, limit int) ([]models.DailyVisits, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    "$date",
			"hits":   bson.M{"$sum": "$hits"},
			"unique": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate visitor history")
	}
	defer cursor.Close(ctx)

	history := make([]models.DailyVisits, 0, limit)
	if err = cursor.All(ctx, &history); err != nil {
		return nil, errors.Wrap(err, "decode visitor history")
	}
	return history, nil
}

func (r *VisitorRepository) Recent(ctx context.Context, limit int) ([]models.Visitor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "lastSeen", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find recent visitors")
	}
	defer cursor.Close(ctx)

	visitors := make([]models.Visitor, 0, limit)
	if err = cursor.All(ctx, &visitors); err != nil {
		return nil, errors.Wrap(err, "decode recent visitors")
	}
	return visitors, nil
}

func (r *VisitorRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*r.timeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": date}})
	if err != nil {
		return 0, errors.Wrapf(err, "delete visitors before %s", date)
	}
	return result.DeletedCount, nil
}
