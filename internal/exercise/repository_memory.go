package exercise

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryExerciseRepository keeps exercises in insertion order in memory.
type MemoryExerciseRepository struct {
	mu        sync.RWMutex
	exercises []*Exercise
}

func NewMemoryExerciseRepository() *MemoryExerciseRepository {
	return &MemoryExerciseRepository{}
}

func (r *MemoryExerciseRepository) Create(_ context.Context, exercise *Exercise) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *exercise
	stored.ID = uuid.NewString()
	r.exercises = append(r.exercises, &stored)

	return stored.ID, nil
}

func (r *MemoryExerciseRepository) FindByUser(_ context.Context, filter LogFilter) ([]*Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Exercise, 0)
	for _, e := range r.exercises {
		if !filter.Matches(e) {
			continue
		}
		copied := *e
		result = append(result, &copied)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
