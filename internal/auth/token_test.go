package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
)

const (
	testSecret  = "token-test-secret"
	testIssuer  = "TaskListApp"
	testSubject = "User details"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(testSecret, testIssuer, testSubject, 60)
}

func signClaims(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(username string, role domain.Role) *Claims {
	now := time.Now()
	return &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSubject,
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	for _, identity := range []struct {
		username string
		role     domain.Role
	}{
		{"alice", domain.RoleUser},
		{"bob", domain.RoleAdmin},
	} {
		token, expiresAt, err := tm.GenerateToken(identity.username, identity.role)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, identity.username, claims.Username)
		assert.Equal(t, identity.role, claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := newTestTokenManager()
	token := signClaims(t, "another-secret", baseClaims("alice", domain.RoleUser))

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := newTestTokenManager()
	claims := baseClaims("alice", domain.RoleUser)
	claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signClaims(t, testSecret, claims)

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	tm := newTestTokenManager()
	claims := baseClaims("alice", domain.RoleUser)
	claims.Issuer = "SomeOtherApp"
	token := signClaims(t, testSecret, claims)

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSubject(t *testing.T) {
	tm := newTestTokenManager()
	claims := baseClaims("alice", domain.RoleUser)
	claims.Subject = "Service details"
	token := signClaims(t, testSecret, claims)

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsMissingExpiry(t *testing.T) {
	tm := newTestTokenManager()
	claims := baseClaims("alice", domain.RoleUser)
	claims.ExpiresAt = nil
	token := signClaims(t, testSecret, claims)

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	tm := newTestTokenManager()
	claims := baseClaims("alice", "SUPERUSER")
	token := signClaims(t, testSecret, claims)

	_, err := tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	tm := newTestTokenManager()

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokenTTLDefaultsTo60Minutes(t *testing.T) {
	tm := NewTokenManager(testSecret, testIssuer, testSubject, 0)

	_, expiresAt, err := tm.GenerateToken("alice", domain.RoleUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), expiresAt, 5*time.Second)
}
