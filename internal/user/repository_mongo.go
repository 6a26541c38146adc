package user

import (
	"context"
	"errors"
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

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
}

func (d *userDocument) toUser() *User {
	return &User{ID: d.ID.Hex(), Username: d.Username}
}

type MongoUserRepository struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

func NewMongoUserRepository(database *mongo.Database, metrics *observability.Metrics) UserRepositoryInterface {
	return &MongoUserRepository{
		coll:    database.Collection(db.UsersCollection),
		metrics: metrics,
	}
}

// Create creates a new user document
func (r *MongoUserRepository) Create(ctx context.Context, user *User) (string, error) {
	defer r.metrics.ObserveStoreSince("insert_user", time.Now())

	res, err := r.coll.InsertOne(ctx, userDocument{Username: user.Username})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateUsername
		}
		logrus.WithError(err).Error("Failed to create user")
		return "", fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  oid.Hex(),
		"username": user.Username,
	}).Info("User created successfully")

	return oid.Hex(), nil
}

// GetByID retrieves a user by ObjectID hex string
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	defer r.metrics.ObserveStoreSince("find_user_by_id", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithField("user_id", id).Warn("User not found")
		return nil, ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": oid}, logrus.Fields{"user_id": id})
}

// GetByUsername retrieves a user by username
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	defer r.metrics.ObserveStoreSince("find_user_by_username", time.Now())

	return r.findOne(ctx, bson.M{"username": username}, logrus.Fields{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, fields logrus.Fields) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logrus.WithFields(fields).Debug("User not found")
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithFields(fields).Error("Failed to get user")
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

// List returns every user in insertion order
func (r *MongoUserRepository) List(ctx context.Context) ([]*User, error) {
	defer r.metrics.ObserveStoreSince("list_users", time.Now())

	opts := options.Find().
		SetProjection(bson.M{"username": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*User, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			logrus.WithError(err).Error("Error decoding user document")
			continue
		}
		users = append(users, doc.toUser())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
