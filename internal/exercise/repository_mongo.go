package exercise

import (
	"context"
	"fmt"
	"time"

	"exercise_tracker/internal/db"
	"exercise_tracker/internal/observability"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    float64            `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

func (d *exerciseDocument) toExercise() *Exercise {
	return &Exercise{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Description: d.Description,
		Duration:    d.Duration,
		Date:        d.Date.UTC(),
	}
}

type MongoExerciseRepository struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

func NewMongoExerciseRepository(database *mongo.Database, metrics *observability.Metrics) ExerciseRepositoryInterface {
	return &MongoExerciseRepository{
		coll:    database.Collection(db.ExercisesCollection),
		metrics: metrics,
	}
}

func (r *MongoExerciseRepository) Create(ctx context.Context, exercise *Exercise) (string, error) {
	defer r.metrics.ObserveStoreSince("insert_exercise", time.Now())

	userID, err := primitive.ObjectIDFromHex(exercise.UserID)
	if err != nil {
		return "", fmt.Errorf("insert exercise: invalid user id %q: %w", exercise.UserID, err)
	}

	res, err := r.coll.InsertOne(ctx, exerciseDocument{
		UserID:      userID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", exercise.UserID).Error("Failed to create exercise")
		return "", fmt.Errorf("insert exercise: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert exercise: unexpected id type %T", res.InsertedID)
	}

	logrus.WithFields(logrus.Fields{
		"exercise_id": oid.Hex(),
		"user_id":     exercise.UserID,
	}).Info("Exercise created successfully")

	return oid.Hex(), nil
}

func (r *MongoExerciseRepository) FindByUser(ctx context.Context, filter LogFilter) ([]*Exercise, error) {
	defer r.metrics.ObserveStoreSince("find_exercises", time.Now())

	userID, err := primitive.ObjectIDFromHex(filter.UserID)
	if err != nil {
		return []*Exercise{}, nil
	}

	query := bson.M{"userId": userID}
	if filter.HasDateRange() {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["date"] = dateRange
	}

	// ObjectIDs grow with insertion time, so _id order is insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		logrus.WithError(err).WithField("user_id", filter.UserID).Error("Failed to find exercises")
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	defer cursor.Close(ctx)

	exercises := make([]*Exercise, 0)
	for cursor.Next(ctx) {
		var doc exerciseDocument
		if err := cursor.Decode(&doc); err != nil {
			logrus.WithError(err).Error("Error decoding exercise document")
			continue
		}
		exercises = append(exercises, doc.toExercise())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}

	return exercises, nil
}
