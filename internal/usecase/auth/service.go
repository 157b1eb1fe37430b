package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// Password length limits. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Config configures token issuance and password hashing.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service registers accounts and manages their sessions.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   *tokenIssuer
	cost     int
	// dummyHash keeps unknown-user logins as slow as wrong-password ones.
	dummyHash []byte
	now       func() time.Time
	logger    *zap.Logger
}

// New creates an auth service.
func New(users UserRepository, sessions SessionRepository, cfg Config, logger *zap.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		users:    users,
		sessions: sessions,
		cost:     cfg.BcryptCost,
		now:      time.Now,
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.cost < bcrypt.MinCost || s.cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside %d..%d", s.cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	tokens, err := newTokenIssuer(cfg.Secret, cfg.TokenTTL, func() time.Time { return s.now() })
	if err != nil {
		return nil, err
	}
	s.tokens = tokens

	s.dummyHash, err = bcrypt.GenerateFromPassword([]byte("tastebud-dummy-password"), s.cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return s, nil
}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, username, email, password string) (user.User, error) {
	return s.create(ctx, username, email, password, user.RoleUser)
}

// Authenticate verifies credentials and opens a session.
// The username is trimmed the same way registration trims it.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (session.Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(creds.Password))
		return session.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(creds.Password)); err != nil {
		return session.Session{}, domain.ErrInvalidCredentials
	}

	sess, err := s.tokens.issue(u)
	if err != nil {
		return session.Session{}, err
	}
	if err := s.sessions.Save(ctx, sess.Token, u.ID(), s.tokens.ttl); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Verify resolves a bearer token into its session. The token must carry a
// valid signature, be unexpired, still be recorded server-side and belong
// to an existing account. Role and username come from the current account.
func (s *Service) Verify(ctx context.Context, token string) (session.Session, error) {
	c, err := s.tokens.parse(token)
	if err != nil {
		return session.Session{}, err
	}

	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return session.Session{}, fmt.Errorf("lookup session: %w", err)
	}
	if userID != c.UserID {
		return session.Session{}, domain.ErrUnauthorized
	}

	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return session.Session{}, domain.ErrUnauthorized
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("get user: %w", err)
	}

	return session.Session{
		Token:     token,
		UserID:    u.ID(),
		Username:  u.Username(),
		Role:      u.Role(),
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session's token.
func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	if err := s.sessions.Delete(ctx, sess.Token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// BootstrapAdmin creates an admin account unless username is already taken.
// Blank credentials disable bootstrapping. Reports whether an account was created.
func (s *Service) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	_, created, err := s.bootstrap(ctx, username, email, password, user.RoleAdmin)
	return created, err
}

// BootstrapUser creates a regular account unless username is already taken,
// returning the new account. Blank credentials disable bootstrapping.
func (s *Service) BootstrapUser(ctx context.Context, username, email, password string) (user.User, bool, error) {
	return s.bootstrap(ctx, username, email, password, user.RoleUser)
}

func (s *Service) bootstrap(ctx context.Context, username, email, password string, role user.Role) (user.User, bool, error) {
	if username == "" || password == "" {
		return user.User{}, false, nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return user.User{}, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return user.User{}, false, fmt.Errorf("lookup %s: %w", role, err)
	}

	u, err := s.create(ctx, username, email, password, role)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return user.User{}, false, nil
		}
		return user.User{}, false, err
	}
	s.logger.Info("Account bootstrapped", zap.String("username", username), zap.String("role", string(role)))
	return u, true, nil
}

func (s *Service) create(ctx context.Context, username, email, password string, role user.Role) (user.User, error) {
	if n := len(password); n < MinPasswordLength || n > MaxPasswordLength {
		return user.User{}, fmt.Errorf("password must be %d-%d bytes: %w",
			MinPasswordLength, MaxPasswordLength, domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.New(username, email, role, string(hash))
	if err != nil {
		return user.User{}, fmt.Errorf("validate user: %w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
