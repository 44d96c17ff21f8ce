// Package memory provides an in-process UserRepository used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"user-service/internal/domain"
	"user-service/internal/repository"
	"user-service/internal/util"
)

// UserRepository keeps users in a map guarded by a mutex. The DBExecutor
// argument of each method is ignored; every call is atomic on its own.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	lastID int64
}

// NewUserRepository creates an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]domain.User)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) ListUsers(ctx context.Context, _ repository.DBExecutor) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, clone(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, _ repository.DBExecutor, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, util.ErrUserNotFound
	}
	u = clone(u)
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, _ repository.DBExecutor, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	user.ID = r.lastID
	r.users[user.ID] = clone(*user)
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, _ repository.DBExecutor, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return util.ErrUserNotFound
	}
	r.users[user.ID] = clone(*user)
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, _ repository.DBExecutor, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return util.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func clone(u domain.User) domain.User {
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	return u
}
