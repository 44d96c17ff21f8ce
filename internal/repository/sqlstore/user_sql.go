// internal/repository/sqlstore/user_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user-service/internal/domain"
	"user-service/internal/repository"
	"user-service/internal/util"

	"github.com/jmoiron/sqlx"
)

var errNoRow = errors.New("executor returned no row")

// UserRepository implements repository.UserRepository for any sqlx driver.
// Queries use '?' placeholders and are rebound by the executor, so the same
// statements run on PostgreSQL and SQLite.
type UserRepository struct {
	// No *sqlx.DB here: methods receive the session as a DBExecutor.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// ListUsers returns all users ordered by ID.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT id, name, age FROM users ORDER BY id`
	if err := q.SelectContext(ctx, &users, q.Rebind(query)); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, name, age FROM users WHERE id = ?`
	err := q.GetContext(ctx, &user, q.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (name, age) VALUES (?, ?) RETURNING id`
	row := q.QueryRowContext(ctx, q.Rebind(query), user.Name, user.Age)
	if row == nil {
		return fmt.Errorf("failed to create user: %w", errNoRow)
	}
	if err := row.Scan(&user.ID); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser writes name and age of the user with user.ID.
func (r *UserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `UPDATE users SET name = ?, age = ? WHERE id = ?`
	result, err := q.ExecContext(ctx, q.Rebind(query), user.Name, user.Age, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return requireRow(result, user.ID)
}

// DeleteUser removes the user with the given ID.
func (r *UserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id int64) error {
	query := `DELETE FROM users WHERE id = ?`
	result, err := q.ExecContext(ctx, q.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for user %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}
