package exercise

import "context"

// ExerciseRepositoryInterface is the Exercises half of the record store.
type ExerciseRepositoryInterface interface {
	Create(ctx context.Context, exercise *Exercise) (string, error)
	// FindByUser returns the exercises matching filter, oldest insertion
	// first, capped at filter.Limit when it is positive.
	FindByUser(ctx context.Context, filter LogFilter) ([]*Exercise, error)
}
