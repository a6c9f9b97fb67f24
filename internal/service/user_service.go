package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/events"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/store"
)

// UserUpdate carries the fields of a partial user update; nil fields are kept.
type UserUpdate struct {
	Email *string
	Name  *string
}

// UserService provides user-related operations.
type UserService interface {
	// CreateUser creates a new user. Returns store.ErrEmailExists when the
	// email is taken and a validation error for bad input.
	CreateUser(ctx context.Context, email, name string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns one page of users and the total count.
	ListUsers(ctx context.Context, page domain.Page) ([]*domain.User, int, error)

	// UpdateUser applies a partial update and returns the updated user.
	UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (*domain.User, error)

	// DeleteUser deletes a user by ID.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewUserService creates a new UserService. A nil emitter disables events.
func NewUserService(
	userStore store.UserStore,
	db *sql.DB,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		emitter:   emitter,
		logger:    logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

type userEventPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
}

// CreateUser implements UserService.CreateUser
func (s *UserServiceImpl) CreateUser(ctx context.Context, email, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, name)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)
		if err := ensureEmailAvailable(ctx, txStore, user.Email, uuid.Nil); err != nil {
			return err
		}
		return txStore.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.DebugContext(ctx, "attempted to create user with existing email")
		}
		return nil, wrapUnexpected("create_user", "failed to create user", err)
	}

	log.InfoContext(ctx, "user created", "user_id", user.ID)
	publish(ctx, s.emitter, s.logger, events.TypeUserCreated, userEventPayload{UserID: user.ID, Email: user.Email})
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapUnexpected("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context, page domain.Page) ([]*domain.User, int, error) {
	users, total, err := s.userStore.List(ctx, page)
	if err != nil {
		return nil, 0, wrapUnexpected("list_users", "failed to list users", err)
	}
	return users, total, nil
}

// UpdateUser implements UserService.UpdateUser
// The current user is loaded and modified inside one transaction.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	update UserUpdate,
) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		previousEmail := user.Email
		if err := user.ApplyUpdate(update.Email, update.Name); err != nil {
			return err
		}

		if user.Email != previousEmail {
			if err := ensureEmailAvailable(ctx, txStore, user.Email, user.ID); err != nil {
				return err
			}
		}

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected("update_user", "failed to update user", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "user updated", "user_id", userID)
	publish(ctx, s.emitter, s.logger, events.TypeUserUpdated, userEventPayload{UserID: updated.ID, Email: updated.Email})
	return updated, nil
}

// DeleteUser implements UserService.DeleteUser
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.Delete(ctx, userID); err != nil {
		return wrapUnexpected("delete_user", "failed to delete user", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "user deleted", "user_id", userID)
	publish(ctx, s.emitter, s.logger, events.TypeUserDeleted, userEventPayload{UserID: userID})
	return nil
}

// ensureEmailAvailable returns store.ErrEmailExists when email belongs to a
// user other than self. The unique index still guards against races.
func ensureEmailAvailable(ctx context.Context, users store.UserStore, email string, self uuid.UUID) error {
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return store.ErrEmailExists
	default:
		return nil
	}
}
