package user

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepositoryInterface is the Users half of the record store.
type UserRepositoryInterface interface {
	// Create inserts a new user and returns its id. It returns
	// ErrDuplicateUsername when the username is already taken.
	Create(ctx context.Context, user *User) (string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
