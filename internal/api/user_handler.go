package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil for UserHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /api/v1/users requests
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid pagination parameters")
		return
	}

	users, total, err := h.userService.ListUsers(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	shared.RespondWithList(w, r, usersToResponse(users), metaFor(page, total))
}

// GetUser handles GET /api/v1/users/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user), "")
}

// CreateUser handles POST /api/v1/users requests
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("user created via API",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, userToResponse(user), "User created")
}

// UpdateUser handles PUT /api/v1/users/{id} requests
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request body")
		return
	}
	if req.Email == nil && req.Name == nil {
		HandleAPIError(w, r, errEmptyUpdate, "")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, service.UserUpdate{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user), "User updated")
}

// DeleteUser handles DELETE /api/v1/users/{id} requests
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, nil, "User deleted")
}

// errEmptyUpdate rejects update bodies that name no field.
var errEmptyUpdate = domain.NewValidationError("body", "must contain at least one field", nil)
