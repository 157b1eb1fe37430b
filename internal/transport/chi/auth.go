package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/logger"
)

// SessionVerifier resolves bearer tokens into sessions.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (session.Session, error)
}

type sessionKey struct{}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}

// ContextWithSession attaches s to ctx.
func ContextWithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionMiddleware requires a valid Bearer token and attaches the resolved
// session to the request context.
func SessionMiddleware(v SessionVerifier, fallback *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if len(auth) < len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := strings.TrimSpace(auth[len(bearerPrefix):])
			sess, err := v.Verify(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrSessionExpired):
				writeError(w, http.StatusUnauthorized, ErrorCodeSessionExpired, "session expired")
				return
			case errors.Is(err, domain.ErrUnauthorized):
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid or revoked token")
				return
			default:
				logger.FromContextOr(r.Context(), fallback).Error("session verification failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
				return
			}

			ctx := ContextWithSession(r.Context(), sess)
			ctx = logger.With(ctx, zap.String("user_id", sess.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects sessions without the admin role. Must run after SessionMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "authentication required")
			return
		}
		if !sess.IsAdmin() {
			writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
