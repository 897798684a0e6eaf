package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// UserService covers admin-facing account management.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// ListUsers returns all registered accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account by id.
func (s *UserService) DeleteUser(ctx context.Context, admin *domain.User, userID string) error {
	user, err := s.loadByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserDeleted,
		Actor: events.Actor{UserID: admin.ID, Username: admin.Username, Role: admin.Role},
		Payload: events.UserAdminPayload{
			TargetUserID: user.ID,
			Username:     user.Username,
		},
	})
	return nil
}

// UpdateUserRole changes an account's role. The change takes effect on the
// target's next request because roles are re-resolved from the store, not
// read from outstanding tokens.
func (s *UserService) UpdateUserRole(ctx context.Context, admin *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("validation failed",
			map[string]any{"role": "must be USER or ADMIN"})
	}
	user, err := s.loadByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldRole := user.Role
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserRoleChanged,
		Actor: events.Actor{UserID: admin.ID, Username: admin.Username, Role: admin.Role},
		Payload: events.UserAdminPayload{
			TargetUserID: user.ID,
			Username:     user.Username,
			OldRole:      &oldRole,
			NewRole:      &role,
		},
	})
	return user, nil
}

func (s *UserService) loadByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	return user, nil
}
