package user

import (
	"context"
	"encoding/json"
	"errors"

	"exercise_tracker/internal/apperror"
	"exercise_tracker/internal/cache"
	"exercise_tracker/internal/observability"

	"github.com/sirupsen/logrus"
)

type UserServiceInterface interface {
	CreateOrFetchUser(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

type UserService struct {
	repo    UserRepositoryInterface
	cache   cache.Cache
	metrics *observability.Metrics
}

func NewUserService(repo UserRepositoryInterface, userCache cache.Cache, metrics *observability.Metrics) UserServiceInterface {
	if userCache == nil {
		userCache = cache.NopCache{}
	}
	return &UserService{
		repo:    repo,
		cache:   userCache,
		metrics: metrics,
	}
}

// CreateOrFetchUser returns the existing user for username, creating it on
// first use. Calling it twice with the same username yields the same id.
func (s *UserService) CreateOrFetchUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, apperror.MissingField("Username is required")
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, apperror.StoreFailure(err)
	}

	id, err := s.repo.Create(ctx, &User{Username: username})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			// Lost a race with a concurrent create; the winner's record is canonical.
			existing, err := s.repo.GetByUsername(ctx, username)
			if err != nil {
				return nil, apperror.StoreFailure(err)
			}
			return existing, nil
		}
		return nil, apperror.StoreFailure(err)
	}

	s.metrics.UserCreated()
	return &User{ID: id, Username: username}, nil
}

// ListUsers returns all users as {username, _id}
func (s *UserService) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.StoreFailure(err)
	}
	return users, nil
}

// GetUserByID resolves a user id, reading through the cache. Users are
// immutable so cached entries never need invalidation.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*User, error) {
	cacheKey := cache.UserKey(id)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read user cache")
	}
	if err == nil && cachedData != nil {
		var user User
		if json.Unmarshal(cachedData, &user) == nil {
			s.metrics.CacheHit("user")
			return &user, nil
		}
	}
	s.metrics.CacheMiss("user")

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.UserNotFound()
		}
		return nil, apperror.StoreFailure(err)
	}

	if err := s.cache.Set(ctx, cacheKey, user); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for user")
	}

	return user, nil
}
