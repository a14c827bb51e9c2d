package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/construplaza/construplaza-backend/pkg/auth"
	"github.com/construplaza/construplaza-backend/pkg/auth/session"
	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/security"
)

type stubUsers struct {
	byID       map[uuid.UUID]*models.User
	byUsername map[string]*models.User
	lastLogin  map[uuid.UUID]time.Time
}

func newStubUsers(users ...*models.User) *stubUsers {
	s := &stubUsers{
		byID:       map[uuid.UUID]*models.User{},
		byUsername: map[string]*models.User{},
		lastLogin:  map[uuid.UUID]time.Time{},
	}
	for _, user := range users {
		s.byID[user.ID] = user
		s.byUsername[user.Username] = user
	}
	return s
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	s.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubLimiter struct {
	counts map[string]int64
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{counts: map[string]int64{}}
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	s.counts[scope]++
	return s.counts[scope] <= limit, s.counts[scope], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "unit-test-secret",
		Issuer:                 "construplaza",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 10080,
	}
}

func testRateLimitConfig() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		LoginWindow:        time.Minute,
		LoginUsernameLimit: 3,
		LoginIPLimit:       10,
	}
}

func testAuthPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newSeller(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testAuthPasswordConfig())
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "mquispe",
		Email:        "mquispe@construplaza.com",
		PasswordHash: hash,
		FirstName:    "María",
		LastName:     "Quispe",
		Role:         enums.UserRoleVendedor,
		IsActive:     true,
	}
}

func newAuthService(t *testing.T, users *stubUsers, sessions *stubSessions, limiter *stubLimiter) Service {
	t.Helper()
	svc, err := NewService(users, sessions, limiter, testJWTConfig(), testRateLimitConfig())
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(nil, newStubSessions(), newStubLimiter(), testJWTConfig(), testRateLimitConfig())
	require.Error(t, err)

	_, err = NewService(newStubUsers(), nil, newStubLimiter(), testJWTConfig(), testRateLimitConfig())
	require.Error(t, err)

	_, err = NewService(newStubUsers(), newStubSessions(), nil, testJWTConfig(), testRateLimitConfig())
	require.Error(t, err)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	users := newStubUsers(seller)
	sessions := newStubSessions()
	svc := newAuthService(t, users, sessions, newStubLimiter())

	pair, err := svc.Login(context.Background(), LoginInput{
		Username: "  MQuispe ",
		Password: "Tornillo#2026",
		ClientIP: "10.0.0.7",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, 15*60, pair.ExpiresIn)
	require.Equal(t, seller.ID, pair.User.ID)
	require.Equal(t, "VENDEDOR", pair.User.Role)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, seller.ID, claims.UserID)
	require.Equal(t, "mquispe", claims.Username)
	require.Equal(t, enums.UserRoleVendedor, claims.Role)

	require.Equal(t, pair.RefreshToken, sessions.tokens[claims.ID])
	require.False(t, users.lastLogin[seller.ID].IsZero())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	inactive := &models.User{
		ID:           uuid.New(),
		Username:     "jperez",
		PasswordHash: seller.PasswordHash,
		Role:         enums.UserRoleVendedor,
		IsActive:     false,
	}
	svc := newAuthService(t, newStubUsers(seller, inactive), newStubSessions(), newStubLimiter())

	cases := []struct {
		name  string
		input LoginInput
		code  pkgerrors.Code
	}{
		{"unknownUser", LoginInput{Username: "nadie", Password: "Tornillo#2026"}, pkgerrors.CodeUnauthorized},
		{"wrongPassword", LoginInput{Username: "mquispe", Password: "Martillo#2026"}, pkgerrors.CodeUnauthorized},
		{"inactiveUser", LoginInput{Username: "jperez", Password: "Tornillo#2026"}, pkgerrors.CodeUnauthorized},
		{"missingPassword", LoginInput{Username: "mquispe"}, pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, tc.code, typed.Code())
		})
	}
}

func TestLoginRateLimitsByUsername(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	svc := newAuthService(t, newStubUsers(seller), newStubSessions(), newStubLimiter())

	input := LoginInput{Username: "mquispe", Password: "Martillo#2026"}
	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}

	_, err := svc.Login(context.Background(), LoginInput{Username: "mquispe", Password: "Tornillo#2026"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeRateLimit, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	sessions := newStubSessions()
	svc := newAuthService(t, newStubUsers(seller), sessions, newStubLimiter())

	pair, err := svc.Login(context.Background(), LoginInput{Username: "mquispe", Password: "Tornillo#2026"})
	require.NoError(t, err)
	oldClaims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	newClaims, err := pkgauth.ParseAccessToken(testJWTConfig(), rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, seller.ID, newClaims.UserID)
	require.NotEqual(t, oldClaims.ID, newClaims.ID)

	_, hasOld := sessions.tokens[oldClaims.ID]
	require.False(t, hasOld)
	require.Equal(t, rotated.RefreshToken, sessions.tokens[newClaims.ID])

	// Replaying the consumed refresh token must fail.
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRejectsInvalidInput(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	sessions := newStubSessions()
	svc := newAuthService(t, newStubUsers(seller), sessions, newStubLimiter())

	pair, err := svc.Login(context.Background(), LoginInput{Username: "mquispe", Password: "Tornillo#2026"})
	require.NoError(t, err)

	t.Run("garbageAccessToken", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: "not-a-jwt", RefreshToken: pair.RefreshToken})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	})

	t.Run("mismatchedRefreshToken", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: pair.AccessToken, RefreshToken: "stolen"})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	})

	t.Run("deactivatedUser", func(t *testing.T) {
		seller.IsActive = false
		defer func() { seller.IsActive = true }()

		_, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	seller := newSeller(t, "Tornillo#2026")
	sessions := newStubSessions()
	svc := newAuthService(t, newStubUsers(seller), sessions, newStubLimiter())

	pair, err := svc.Login(context.Background(), LoginInput{Username: "mquispe", Password: "Tornillo#2026"})
	require.NoError(t, err)
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	require.Equal(t, []string{claims.ID}, sessions.revoked)
	require.Empty(t, sessions.tokens)

	err = svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}