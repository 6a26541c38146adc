package db

import (
	"context"
	"fmt"
	"time"

	"exercise_tracker/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection     = "users"
	ExercisesCollection = "exercises"
)

// InitMongo connects to MongoDB and returns the configured database,
// retrying the initial ping like InitPostgres.
func InitMongo(ctx context.Context, mongoCfg *config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoCfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err == nil {
			break
		}
		logrus.WithError(err).Warnf("Failed to ping MongoDB (attempt %d/%d)", i+1, maxRetries)
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", maxRetries, err)
	}

	logrus.WithField("database", mongoCfg.Database).Info("Connected to MongoDB")
	return client, client.Database(mongoCfg.Database), nil
}

// EnsureMongoIndexes creates the unique username index and the per-user
// date index used by log queries.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = database.Collection(ExercisesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create exercises index: %w", err)
	}

	return nil
}
