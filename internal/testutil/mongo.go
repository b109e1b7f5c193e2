// Package testutil starts throwaway MongoDB containers for repository tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"coursework/pkg/config"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/logger"
	"coursework/pkg/model"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoImage   = "mongo:7"
	testDatabase = "coursework_test"
)

// SkipUnlessIntegration skips tests that need Docker.
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

// StartMongo runs a MongoDB container for the lifetime of the test and
// returns a store on a fresh database.
func StartMongo(t *testing.T) *mongodb.Store {
	t.Helper()
	SkipUnlessIntegration(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("warning: failed to terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		t.Fatalf("failed to ping mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return mongodb.NewStore(client, testDatabase)
}

// Config returns a configuration suitable for repository and service tests.
func Config() *config.Config {
	return &config.Config{
		MongoDatabaseName:   testDatabase,
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
		RollbackMaxAttempts: 3,
		RollbackRetryDelay:  10 * time.Millisecond,
		SearchMaxResults:    100,
		Log:                 logger.Discard(),
	}
}

// SeedLessons inserts lessons and returns their ids in input order.
func SeedLessons(t *testing.T, store *mongodb.Store, lessons ...model.Lesson) []string {
	t.Helper()

	docs := make([]any, 0, len(lessons))
	for _, l := range lessons {
		docs = append(docs, bson.M{
			"subject":  l.Subject,
			"location": l.Location,
			"price":    l.Price,
			"spaces":   l.Spaces,
			"image":    l.Image,
			"icon":     l.Icon,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := store.Lessons.InsertMany(ctx, docs)
	if err != nil {
		t.Fatalf("failed to seed lessons: %v", err)
	}

	ids := make([]string, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		ids = append(ids, id.(primitive.ObjectID).Hex())
	}
	return ids
}

// Clean empties both collections.
func Clean(t *testing.T, store *mongodb.Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := store.Lessons.DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean lessons: %v", err)
	}
	if _, err := store.Orders.DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean orders: %v", err)
	}
}
