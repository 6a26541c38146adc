package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"exercise_tracker/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const pgUniqueViolation = "23505"

type PostgresUserRepository struct {
	db      *sql.DB
	metrics *observability.Metrics
}

func NewPostgresUserRepository(db *sql.DB, metrics *observability.Metrics) UserRepositoryInterface {
	return &PostgresUserRepository{db: db, metrics: metrics}
}

// Create creates a new user in the database
func (r *PostgresUserRepository) Create(ctx context.Context, user *User) (string, error) {
	defer r.metrics.ObserveStoreSince("insert_user", time.Now())

	query := `
		INSERT INTO users (
			id, username, created_at
		)
		VALUES ($1, $2, NOW())
	`

	id := uuid.New()
	if _, err := r.db.ExecContext(ctx, query, id, user.Username); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", ErrDuplicateUsername
		}
		logrus.WithError(err).Error("Failed to create user")
		return "", fmt.Errorf("insert user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id.String(),
		"username": user.Username,
	}).Info("User created successfully")

	return id.String(), nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	defer r.metrics.ObserveStoreSince("find_user_by_id", time.Now())

	uid, err := uuid.Parse(id)
	if err != nil {
		logrus.WithField("user_id", id).Warn("User not found")
		return nil, ErrUserNotFound
	}

	query := `
		SELECT id, username
		FROM users
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, uid), logrus.Fields{"user_id": id})
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	defer r.metrics.ObserveStoreSince("find_user_by_username", time.Now())

	query := `
		SELECT id, username
		FROM users
		WHERE username = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username), logrus.Fields{"username": username})
}

func (r *PostgresUserRepository) scanOne(row *sql.Row, fields logrus.Fields) (*User, error) {
	var id uuid.UUID
	user := &User{}
	if err := row.Scan(&id, &user.Username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logrus.WithFields(fields).Debug("User not found")
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithFields(fields).Error("Failed to get user")
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.ID = id.String()
	return user, nil
}

// List returns every user in creation order
func (r *PostgresUserRepository) List(ctx context.Context) ([]*User, error) {
	defer r.metrics.ObserveStoreSince("list_users", time.Now())

	query := `
		SELECT id, username
		FROM users
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		var id uuid.UUID
		var u User
		if err := rows.Scan(&id, &u.Username); err != nil {
			logrus.Error("Error scanning user row: ", err)
			continue
		}
		u.ID = id.String()
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
