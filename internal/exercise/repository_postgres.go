package exercise

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"exercise_tracker/internal/observability"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PostgresExerciseRepository struct {
	db      *sql.DB
	metrics *observability.Metrics
}

func NewPostgresExerciseRepository(db *sql.DB, metrics *observability.Metrics) ExerciseRepositoryInterface {
	return &PostgresExerciseRepository{db: db, metrics: metrics}
}

func (r *PostgresExerciseRepository) Create(ctx context.Context, exercise *Exercise) (string, error) {
	defer r.metrics.ObserveStoreSince("insert_exercise", time.Now())

	userID, err := uuid.Parse(exercise.UserID)
	if err != nil {
		return "", fmt.Errorf("insert exercise: invalid user id %q: %w", exercise.UserID, err)
	}

	query := `
		INSERT INTO exercises (
			id, user_id, description, duration, date
		)
		VALUES ($1, $2, $3, $4, $5)
	`

	id := uuid.New()
	_, err = r.db.ExecContext(ctx, query,
		id,
		userID,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
	)
	if err != nil {
		logrus.WithError(err).WithField("user_id", exercise.UserID).Error("Failed to create exercise")
		return "", fmt.Errorf("insert exercise: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"exercise_id": id.String(),
		"user_id":     exercise.UserID,
	}).Info("Exercise created successfully")

	return id.String(), nil
}

// buildFindQuery renders the log query for filter with positional args.
func buildFindQuery(userID uuid.UUID, filter LogFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, description, duration, date
		FROM exercises
		WHERE user_id = $1`)
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND date <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY seq")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args
}

func (r *PostgresExerciseRepository) FindByUser(ctx context.Context, filter LogFilter) ([]*Exercise, error) {
	defer r.metrics.ObserveStoreSince("find_exercises", time.Now())

	userID, err := uuid.Parse(filter.UserID)
	if err != nil {
		return []*Exercise{}, nil
	}

	query, args := buildFindQuery(userID, filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logrus.WithError(err).WithField("user_id", filter.UserID).Error("Failed to find exercises")
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	defer rows.Close()

	exercises := make([]*Exercise, 0)
	for rows.Next() {
		var id, uid uuid.UUID
		var e Exercise
		if err := rows.Scan(&id, &uid, &e.Description, &e.Duration, &e.Date); err != nil {
			logrus.Error("Error scanning exercise row: ", err)
			continue
		}
		e.ID = id.String()
		e.UserID = uid.String()
		e.Date = e.Date.UTC()
		exercises = append(exercises, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}

	return exercises, nil
}
