package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// memUserRepo is an in-memory credential store for middleware tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	repo := &memUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		repo.users[user.Username] = user
	}
	return repo
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for username, user := range r.users {
		if user.ID == id {
			delete(r.users, username)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func newMiddlewareApp(tm *TokenManager, repo *memUserRepo) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	app.Use(NewAuthMiddleware(tm, repo).Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{
			"username": principal.User.Username,
			"role":     principal.Role,
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareAnonymousFallThrough(t *testing.T) {
	tm := newTestTokenManager()
	app := newMiddlewareApp(tm, newMemUserRepo())

	for _, header := range []string{"", "Basic abc123", "Bearer"} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "header %q", header)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	tm := newTestTokenManager()
	app := newMiddlewareApp(tm, newMemUserRepo())

	resp := doRequest(t, app, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	tm := newTestTokenManager()
	repo := newMemUserRepo(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser})
	app := newMiddlewareApp(tm, repo)

	token, _, err := tm.GenerateToken("alice", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareUsesStoreRoleNotTokenClaim(t *testing.T) {
	tm := newTestTokenManager()
	repo := newMemUserRepo(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin})
	app := fiber.New()
	app.Use(NewAuthMiddleware(tm, repo).Handle)

	var seenRole domain.Role
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		seenRole = principal.Role
		return c.SendStatus(http.StatusOK)
	})

	// Token was minted while alice was USER; the store now says ADMIN.
	token, _, err := tm.GenerateToken("alice", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.RoleAdmin, seenRole)
}

func TestMiddlewareRejectsDeletedIdentity(t *testing.T) {
	tm := newTestTokenManager()
	app := newMiddlewareApp(tm, newMemUserRepo())

	// Valid token for a user the store no longer knows.
	token, _, err := tm.GenerateToken("ghost", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
