// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoCtxTimeout = 5 * time.Second

// SetupTestMongoDB connects to the MongoDB named by THREADQ_TEST_MONGO_URI
// and returns a uniquely named database dropped on cleanup. Tests are
// skipped when the variable is unset, so the unit suite stays runnable
// without a live store.
func SetupTestMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("THREADQ_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("THREADQ_TEST_MONGO_URI not set; skipping store integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoCtxTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	dbName := sanitizeDBName(fmt.Sprintf("threadq_test_%s_%d", t.Name(), time.Now().UnixNano()))
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mongoCtxTimeout)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

func sanitizeDBName(name string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", ".", "_", "$", "_")
	name = replacer.Replace(name)
	if len(name) > 60 {
		name = name[:60]
	}
	return name
}
