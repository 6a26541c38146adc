package user

import (
	"context"
	"os"
	"testing"
	"time"

	"exercise_tracker/internal/config"
	"exercise_tracker/internal/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against live servers and skip when MONGO_TEST_URI or
// POSTGRES_TEST_HOST are not set.

func mongoUserRepo(t *testing.T) UserRepositoryInterface {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, database, err := db.InitMongo(ctx, &config.MongoConfig{URI: uri, Database: "exercise_tracker_test_" + uuid.NewString()[:8]})
	require.NoError(t, err)
	require.NoError(t, db.EnsureMongoIndexes(ctx, database))

	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	return NewMongoUserRepository(database, nil)
}

func postgresUserRepo(t *testing.T) UserRepositoryInterface {
	t.Helper()
	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		t.Skip("POSTGRES_TEST_HOST not set, skipping test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.InitPostgres(ctx, &config.DBConfig{
		Host:     host,
		Port:     getTestEnv("POSTGRES_TEST_PORT", "5432"),
		User:     getTestEnv("POSTGRES_TEST_USER", "postgres"),
		Password: getTestEnv("POSTGRES_TEST_PASSWORD", "postgres"),
		Name:     getTestEnv("POSTGRES_TEST_DB", "exercise_tracker_test"),
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	require.NoError(t, db.EnsurePostgresSchema(ctx, database))
	_, err = database.Exec("TRUNCATE TABLE users")
	require.NoError(t, err)

	t.Cleanup(func() {
		database.Exec("TRUNCATE TABLE users")
		database.Close()
	})

	return NewPostgresUserRepository(database, nil)
}

func getTestEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exerciseUserRepository(t *testing.T, repo UserRepositoryInterface) {
	ctx := context.Background()

	id, err := repo.Create(ctx, &User{Username: "fcc_test"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = repo.Create(ctx, &User{Username: "fcc_test"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &User{ID: id, Username: "fcc_test"}, got)

	got, err = repo.GetByUsername(ctx, "fcc_test")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.Create(ctx, &User{Username: "second"})
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "fcc_test", users[0].Username)
	assert.Equal(t, "second", users[1].Username)
}

func TestMongoUserRepository(t *testing.T) {
	exerciseUserRepository(t, mongoUserRepo(t))
}

func TestPostgresUserRepository(t *testing.T) {
	exerciseUserRepository(t, postgresUserRepo(t))
}
