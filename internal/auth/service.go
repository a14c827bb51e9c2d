package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/construplaza/construplaza-backend/pkg/auth"
	"github.com/construplaza/construplaza-backend/pkg/auth/session"
	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/security"
)

// LoginInput carries the credentials and origin of a sign-in attempt.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// RefreshInput pairs the expired access token with its refresh token.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// SessionUserDTO is the account summary returned alongside a token pair.
type SessionUserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
}

// TokenPairDTO is the payload returned by login and refresh.
type TokenPairDTO struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`
	User         SessionUserDTO `json:"user"`
}

// Service exposes the authentication lifecycle.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*TokenPairDTO, error)
	Refresh(ctx context.Context, input RefreshInput) (*TokenPairDTO, error)
	Logout(ctx context.Context, accessID string) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type service struct {
	users    userLoader
	sessions sessionManager
	limiter  rateLimiter
	jwtCfg   config.JWTConfig
	rlCfg    config.AuthRateLimitConfig
	now      func() time.Time
}

// NewService wires the authentication service.
func NewService(users userLoader, sessions sessionManager, limiter rateLimiter, jwtCfg config.JWTConfig, rlCfg config.AuthRateLimitConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user loader is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		rlCfg:    rlCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*TokenPairDTO, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	if err := s.checkLoginLimits(ctx, username, input.ClientIP); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(user, accessID, refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*TokenPairDTO, error) {
	if strings.TrimSpace(input.AccessToken) == "" || strings.TrimSpace(input.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access token and refresh token are required")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, err
	}

	return s.issueTokens(user, newAccessID, newRefreshToken)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	return s.sessions.Revoke(ctx, accessID)
}

// checkLoginLimits applies the per-username and per-IP fixed windows. The
// username window counts even before credentials are checked so guessing
// against one account stays bounded.
func (s *service) checkLoginLimits(ctx context.Context, username, clientIP string) error {
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:user:"+username, int64(s.rlCfg.LoginUsernameLimit), s.rlCfg.LoginWindow)
	if err != nil {
		return err
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}

	if strings.TrimSpace(clientIP) == "" {
		return nil
	}
	allowed, _, err = s.limiter.FixedWindowAllow(ctx, "login:ip:"+clientIP, int64(s.rlCfg.LoginIPLimit), s.rlCfg.LoginWindow)
	if err != nil {
		return err
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}
	return nil
}

func (s *service) issueTokens(user *models.User, accessID, refreshToken string) (*TokenPairDTO, error) {
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		JTI:      accessID,
	})
	if err != nil {
		return nil, err
	}

	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		User: SessionUserDTO{
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role.String(),
		},
	}, nil
}
