package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/internal/employees"
	"github.com/smartgrocer/grocer-backend/pkg/auth"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
	"github.com/smartgrocer/grocer-backend/pkg/security"
)

// RateLimiter is the fixed-window limiter surface used for login throttling.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// SessionStore tracks issued tokens so logout can revoke them server side.
type SessionStore interface {
	StoreSession(ctx context.Context, employeeID, token string, ttl time.Duration) error
	RevokeSession(ctx context.Context, employeeID string) error
}

// Service exposes employee authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, employeeID uuid.UUID) error
}

// LoginInput carries the credentials plus the caller's IP for throttling.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// LoginResult is the issued token and the signed-in employee.
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Employee    *models.Employee `json:"employee"`
}

type service struct {
	employees employees.Repository
	limiter   RateLimiter
	sessions  SessionStore
	jwtCfg    config.JWTConfig
	limitCfg  config.RateLimitConfig
	logg      *logger.Logger
}

// NewService constructs an auth service instance. Limiter and sessions may be
// nil when Redis is not configured; throttling and revocation are skipped.
func NewService(
	repo employees.Repository,
	limiter RateLimiter,
	sessions SessionStore,
	jwtCfg config.JWTConfig,
	limitCfg config.RateLimitConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{
		employees: repo,
		limiter:   limiter,
		sessions:  sessions,
		jwtCfg:    jwtCfg,
		limitCfg:  limitCfg,
		logg:      logg,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if err := s.throttle(ctx, email, input.RemoteIP); err != nil {
		return nil, err
	}

	employee, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, *employee.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "email", email), "login rejected: bad password")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := time.Now().UTC()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		EmployeeID: employee.ID,
		Email:      employee.Email,
		Position:   employee.Position,
	})
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.StoreSession(ctx, employee.ID.String(), token, s.jwtCfg.AccessTokenTTL()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
		}
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   now.Add(s.jwtCfg.AccessTokenTTL()),
		Employee:    employee,
	}, nil
}

func (s *service) Logout(ctx context.Context, employeeID uuid.UUID) error {
	if employeeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, employeeID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// throttle applies per-email and per-IP fixed windows. A limiter failure
// degrades open: login proceeds without throttling rather than locking
// everyone out when Redis is down.
func (s *service) throttle(ctx context.Context, email, remoteIP string) error {
	if s.limiter == nil {
		return nil
	}

	scopes := []struct {
		scope string
		limit int64
	}{
		{scope: "login:email:" + email, limit: int64(s.limitCfg.LoginEmailLimit)},
	}
	if remoteIP != "" {
		scopes = append(scopes, struct {
			scope string
			limit int64
		}{scope: "login:ip:" + remoteIP, limit: int64(s.limitCfg.LoginIPLimit)})
	}

	for _, sc := range scopes {
		allowed, count, err := s.limiter.FixedWindowAllow(ctx, sc.scope, sc.limit, s.limitCfg.LoginWindow)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "rate limiter unavailable, allowing login attempt")
			}
			return nil
		}
		if !allowed {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"scope": sc.scope, "count": count}), "login rate limited")
			}
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}
