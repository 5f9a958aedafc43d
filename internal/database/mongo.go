package database

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hylehub-store/internal/repository"
)

var credentialsPattern = regexp.MustCompile(`//([^:/@]+):([^@]+)@`)

// MaskURI oculta usuario y contraseña de una URI de conexión para los logs
func MaskURI(uri string) string {
	return credentialsPattern.ReplaceAllString(uri, "//***:***@")
}

// Connect abre el cliente de MongoDB y verifica la conexión.
// serverSelection acota cuánto esperamos a que el servidor responda.
func Connect(ctx context.Context, uri string, serverSelection time.Duration) (*mongo.Client, error) {
	logrus.WithField("uri", MaskURI(uri)).Info("🔌 Connecting to MongoDB")

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelection)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, serverSelection)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	logrus.Info("✅ MongoDB connection established")
	return client, nil
}

// EnsureIndexes crea los índices que sostienen los upserts por id y por visitante
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		repository.ProductsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "isHot", Value: -1}, {Key: "updatedAt", Value: -1}}},
			{Keys: bson.D{{Key: "views", Value: -1}}},
		},
		repository.CategoriesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		repository.SocialLinksCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		repository.VisitorsCollection: {
			{Keys: bson.D{{Key: "ip", Value: 1}, {Key: "date", Value: 1}, {Key: "userAgent", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "lastSeen", Value: -1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}
