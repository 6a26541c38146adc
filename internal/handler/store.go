package handler

import (
	"context"
	"fmt"

	"exercise_tracker/internal/config"
	"exercise_tracker/internal/db"
	"exercise_tracker/internal/exercise"
	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/user"

	"github.com/sirupsen/logrus"
)

// Stores bundles the repositories of the selected store driver.
type Stores struct {
	Users     user.UserRepositoryInterface
	Exercises exercise.ExerciseRepositoryInterface
	close     func(context.Context) error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects to the store named by cfg.StoreDriver and prepares
// its indexes or tables.
func OpenStores(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, database, err := db.InitMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Stores{
			Users:     user.NewMongoUserRepository(database, metrics),
			Exercises: exercise.NewMongoExerciseRepository(database, metrics),
			close:     client.Disconnect,
		}, nil

	case config.StorePostgres:
		sqlDB, err := db.InitPostgres(ctx, &cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := db.EnsurePostgresSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return &Stores{
			Users:     user.NewPostgresUserRepository(sqlDB, metrics),
			Exercises: exercise.NewPostgresExerciseRepository(sqlDB, metrics),
			close:     func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.StoreMemory:
		logrus.Warn("Using in-memory store; data is lost on restart")
		return &Stores{
			Users:     user.NewMemoryUserRepository(),
			Exercises: exercise.NewMemoryExerciseRepository(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
