package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"exercise_tracker/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

const maxRetries = 5

// InitPostgres opens a pgx-backed *sql.DB, retrying while the server comes up.
func InitPostgres(ctx context.Context, DBCfg *config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", DBCfg.Host, DBCfg.Port, DBCfg.User, DBCfg.Password, DBCfg.Name, DBCfg.SSLMode)

	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to open database connection (attempt %d/%d)", i+1, maxRetries)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if err = db.PingContext(ctx); err != nil {
			logrus.WithError(err).Warnf("Failed to ping database (attempt %d/%d)", i+1, maxRetries)
			if err := db.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close database connection")
			}
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		break
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	logrus.Info("Database connection established successfully")
	return db, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		username   TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		seq         BIGSERIAL PRIMARY KEY,
		id          UUID UNIQUE NOT NULL,
		user_id     UUID NOT NULL,
		description TEXT NOT NULL,
		duration    DOUBLE PRECISION NOT NULL,
		date        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS exercises_user_id_date_idx ON exercises (user_id, date)`,
}

// EnsurePostgresSchema creates the tables on first start, in one
// transaction. It never alters existing tables.
func EnsurePostgresSchema(ctx context.Context, db *sql.DB) error {
	err := WithTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range postgresSchema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}
