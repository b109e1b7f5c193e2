package main

import (
	"context"
	"time"

	mongoMigration "coursework/internal/migrations/mongo"
	"coursework/pkg/client"
	"coursework/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	mongoClient, err := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	err = mongoMigration.RunMigration(ctx, mongoClient.Database(cfg.MongoDatabaseName), cfg.Log)
	cancel()

	if disconnectErr := mongoClient.Disconnect(context.Background()); disconnectErr != nil {
		cfg.Log.Error("Failed to disconnect from MongoDB", "error", disconnectErr)
	}
	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
