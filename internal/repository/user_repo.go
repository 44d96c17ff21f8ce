// internal/repository/user_repo.go
package repository

import (
	"context"

	"user-service/internal/domain"
)

// UserRepository defines the interface for user data operations.
// Lookups of a missing id return util.ErrUserNotFound.
type UserRepository interface {
	// ListUsers returns every user in insertion order.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// CreateUser inserts a user and writes the store-assigned ID back into it.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// UpdateUser overwrites name and age of an existing user.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// DeleteUser removes a user by their ID.
	DeleteUser(ctx context.Context, q DBExecutor, id int64) error
}

// FixtureNames are the users a fresh store is seeded with when fixtures are enabled.
var FixtureNames = []string{"alex", "bob", "chris"}
