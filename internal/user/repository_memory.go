package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryUserRepository keeps users in process memory. It backs the
// "memory" store driver used for local runs and router tests.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	users      []*User
	byID       map[string]*User
	byUsername map[string]*User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       make(map[string]*User),
		byUsername: make(map[string]*User),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return "", ErrDuplicateUsername
	}

	stored := &User{ID: uuid.NewString(), Username: user.Username}
	r.users = append(r.users, stored)
	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored

	return stored.ID, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}
