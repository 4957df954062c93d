package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/smartgrocer/grocer-backend/api/responses"
	pkgauth "github.com/smartgrocer/grocer-backend/pkg/auth"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

// SessionChecker verifies a token is still the active session for an employee.
type SessionChecker interface {
	GetSession(ctx context.Context, employeeID string) (string, error)
}

// Auth validates a bearer token and seeds the request context with the claims.
// When a session checker is supplied, tokens revoked by logout are rejected
// even before their expiry.
func Auth(cfg config.JWTConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if sessions != nil {
				stored, err := sessions.GetSession(r.Context(), claims.EmployeeID.String())
				if err != nil && !errors.Is(err, redis.Nil) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if stored != token {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxEmployeeID, claims.EmployeeID.String())
			ctx = context.WithValue(ctx, ctxPosition, claims.Position)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"employee_id": claims.EmployeeID.String(),
					"position":    claims.Position,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
