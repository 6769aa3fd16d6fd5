// internal/testutil/db.go

// Package testutil provides shared helpers for integration tests: a real
// MongoDB test database, data fixtures, and HTTP request helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/bordhub/bordhub/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// SetupTestDB connects to a local MongoDB instance and returns a uniquely
// named database with all indexes ensured. The database is dropped and the
// client disconnected when the test finishes. Tests are skipped when no
// MongoDB is reachable, so the suite still runs on machines without one.
//
// Override the URI with BORDHUB_TEST_MONGO_URI.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("BORDHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("skipping: MongoDB at %s not reachable: %v", uri, err)
	}

	dbName := fmt.Sprintf("bordhub_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		t.Fatalf("failed to ensure indexes on test db: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test db %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test database
// operations, cancelled automatically at test end.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
