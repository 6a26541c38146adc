package exercise

import (
	"context"
	"time"

	"exercise_tracker/internal/apperror"
	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/queue"
	"exercise_tracker/internal/user"

	"github.com/sirupsen/logrus"
)

const publishTimeout = 2 * time.Second

type ExerciseServiceInterface interface {
	AddExercise(ctx context.Context, userID string, in ExerciseInput) (*ExerciseResponse, error)
	GetLogs(ctx context.Context, userID string, q LogQuery) (*LogResponse, error)
}

// UserFinder resolves a user id; user.UserServiceInterface satisfies it.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

type ExerciseService struct {
	repo      ExerciseRepositoryInterface
	users     UserFinder
	publisher queue.EventPublisher
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewExerciseService(repo ExerciseRepositoryInterface, users UserFinder, publisher queue.EventPublisher, metrics *observability.Metrics) *ExerciseService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &ExerciseService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to default missing exercise dates.
func (s *ExerciseService) WithClock(now func() time.Time) *ExerciseService {
	s.now = now
	return s
}

// AddExercise records an exercise for userID and returns it formatted
// together with the user's identity.
func (s *ExerciseService) AddExercise(ctx context.Context, userID string, in ExerciseInput) (*ExerciseResponse, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exercise, err := NewExercise(u.ID, in, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, exercise)
	if err != nil {
		return nil, apperror.StoreFailure(err)
	}
	exercise.ID = id

	s.metrics.ExerciseLogged(exercise.Duration)
	s.publishLogged(ctx, u, exercise)

	return NewExerciseResponse(u, exercise), nil
}

// publishLogged emits exercise.logged. The exercise is already stored, so a
// publish failure is logged and otherwise ignored.
func (s *ExerciseService) publishLogged(ctx context.Context, u *user.User, e *Exercise) {
	event, err := queue.NewEvent(queue.EventExerciseLogged, queue.ExerciseLogged{
		ExerciseID:  e.ID,
		UserID:      u.ID,
		Username:    u.Username,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
	}, s.now())
	if err != nil {
		logrus.WithError(err).Warn("Failed to build exercise event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"exercise_id": e.ID,
			"user_id":     u.ID,
		}).Warn("Failed to publish exercise event")
	}
}

// GetLogs returns userID's exercises filtered by q.
func (s *ExerciseService) GetLogs(ctx context.Context, userID string, q LogQuery) (*LogResponse, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter, err := BuildLogFilter(u.ID, q)
	if err != nil {
		return nil, err
	}

	exercises, err := s.repo.FindByUser(ctx, filter)
	if err != nil {
		return nil, apperror.StoreFailure(err)
	}

	s.metrics.LogQueried(filter.HasDateRange() || filter.Limit > 0, len(exercises))
	return NewLogResponse(u, exercises), nil
}
