// internal/service/user_service.go
package service

import (
	"context"
	"fmt"

	"user-service/internal/domain"
	"user-service/internal/repository"
	"user-service/internal/util"
	"user-service/pkg/db"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	SignUp(ctx context.Context, name string, age *int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// userService implements the UserService interface.
type userService struct {
	dbBeginner db.DBTxBeginner       // For starting sessions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo   repository.UserRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) UserService {
	return &userService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// ListUsers returns every stored user.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns the user with the given ID or util.ErrUserNotFound.
func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// SignUp persists a new user and returns it with the store-assigned ID.
func (s *userService) SignUp(ctx context.Context, name string, age *int64) (*domain.User, error) {
	txController, txExecutor, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	defer s.rollbackTx(txController)

	user := domain.NewUser(name, age)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("sign up: failed to create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("sign up: failed to commit transaction: %w", err)
	}
	return user, nil
}

// UpdateUser applies the provided fields of patch to an existing user.
// An empty patch fails with util.ErrEmptyUpdate before the store is touched.
func (s *userService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, util.ErrEmptyUpdate
	}

	txController, txExecutor, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	defer s.rollbackTx(txController)

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	patch.Apply(user)
	if err := s.userRepo.UpdateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update user %d: failed to commit transaction: %w", id, err)
	}
	return user, nil
}

// DeleteUser removes an existing user.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	txController, txExecutor, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	defer s.rollbackTx(txController)

	if _, err := s.userRepo.GetUserByID(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if err := s.userRepo.DeleteUser(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete user %d: failed to commit transaction: %w", id, err)
	}
	return nil
}

// begin opens a session and exposes it as a DBExecutor for the repositories.
func (s *userService) begin(ctx context.Context) (db.TxController, repository.DBExecutor, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		s.rollbackTx(txController)
		return nil, nil, fmt.Errorf("transaction controller does not implement DBExecutor")
	}
	return txController, txExecutor, nil
}
