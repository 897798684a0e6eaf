package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/config"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Subject, cfg.Auth.TokenTTLMinutes),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with role USER.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("user with username '%s' already exists", username), nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: user.ID, Username: user.Username, Role: user.Role},
		Payload: events.UserAdminPayload{
			TargetUserID: user.ID,
			Username:     user.Username,
		},
	})
	return user, nil
}

// Login verifies credentials and issues a signed token carrying the account's
// username and role at issuance time.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("incorrect credentials")
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("incorrect credentials")
	}
	return s.tokenMgr.GenerateToken(user.Username, user.Role)
}

// EnsureDefaultAdmin creates the bootstrap admin account when absent.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	return s.users.Create(ctx, admin)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
