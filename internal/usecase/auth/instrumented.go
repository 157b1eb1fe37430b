package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/metrics"
)

// InstrumentedAuthenticator wraps an Authenticator with metrics and logging.
type InstrumentedAuthenticator struct {
	inner  Authenticator
	logger *zap.Logger
}

// NewInstrumentedAuthenticator wraps inner.
func NewInstrumentedAuthenticator(inner Authenticator, logger *zap.Logger) *InstrumentedAuthenticator {
	return &InstrumentedAuthenticator{inner: inner, logger: logger}
}

// Authenticate delegates to the inner authenticator and records the outcome.
func (a *InstrumentedAuthenticator) Authenticate(ctx context.Context, creds Credentials) (session.Session, error) {
	start := time.Now()
	sess, err := a.inner.Authenticate(ctx, creds)
	metrics.AuthDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
		a.logger.Info("Login succeeded",
			zap.String("user_id", sess.UserID),
			zap.String("role", string(sess.Role)),
		)
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		a.logger.Warn("Login rejected", zap.String("username", creds.Username))
	default:
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		a.logger.Error("Login failed", zap.String("username", creds.Username), zap.Error(err))
	}
	return sess, err //nolint:wrapcheck // decorator is transparent
}
