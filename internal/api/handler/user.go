// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-service/internal/api/types"
	"user-service/internal/api/validation"
	"user-service/internal/domain"
	"user-service/internal/service"
)

// MaxBodyBytes caps the size of JSON request bodies.
const MaxBodyBytes = 1 << 20

// WelcomeNotifier schedules the post-sign-up welcome email.
type WelcomeNotifier interface {
	ScheduleWelcome(name string)
}

// UserHandler handles HTTP requests related to user records.
type UserHandler struct {
	service  service.UserService
	notifier WelcomeNotifier
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, notifier WelcomeNotifier, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:  svc,
		notifier: notifier,
		logger:   logger,
	}
}

// SignUpRequest represents the request body for sign-up.
type SignUpRequest struct {
	Name string `json:"name" validate:"required,max=32"`
	Age  *int64 `json:"age" validate:"omitempty,min=1"`
}

// UpdateUserRequest represents the request body for a partial update.
type UpdateUserRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=32"`
	Age  *int64  `json:"age" validate:"omitempty,min=1"`
}

// ListUsers handles the list users request.
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.NewUserViews(users))
}

// SearchUsers handles the search users request.
// GET /users/search?name=&age=
//
// The store is not queried: the validated parameters are echoed back with a
// placeholder id of 0.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	params, err := validation.Search(r.URL.Query())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.UserView{ID: 0, Name: params.Name, Age: params.Age})
}

// GetUser handles the get user by id request.
// GET /users/{user_id}?field=
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := validation.UserID(chi.URLParam(r, "user_id"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	field := validation.Field(r.URL.Query())
	respondWithJSON(h.logger, w, http.StatusOK, types.Project(types.NewUserView(user), field))
}

// SignUp handles the sign-up request. The welcome email is scheduled only
// after the response has been written.
// POST /users/sign-up
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := validation.DecodeJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes), &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	user, err := h.service.SignUp(r.Context(), req.Name, req.Age)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, types.NewUserView(user))
	h.notifier.ScheduleWelcome(user.Name)
}

// UpdateUser handles the partial update request.
// PATCH /users/{user_id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := validation.UserID(chi.URLParam(r, "user_id"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req UpdateUserRequest
	if err := validation.DecodeJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes), &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, domain.UserPatch{Name: req.Name, Age: req.Age})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.NewUserView(user))
}

// DeleteUser handles the delete user request.
// DELETE /users/{user_id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := validation.UserID(chi.URLParam(r, "user_id"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
