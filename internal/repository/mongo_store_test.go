package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hylehub-store/internal/database"
	"hylehub-store/internal/repository"
	"hylehub-store/internal/repository/storetest"
)

// Requiere una instancia real: MONGO_TEST_URI=mongodb://localhost:27017 go test ./...
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	n := 0
	storetest.Run(t, func(t *testing.T) *repository.Store {
		n++
		db := client.Database(fmt.Sprintf("hylehub_test_%d_%d", time.Now().UnixNano(), n))
		t.Cleanup(func() { _ = db.Drop(ctx) })
		require.NoError(t, database.EnsureIndexes(ctx, db))
		return repository.NewMongoStore(db, 5*time.Second)
	})
}
