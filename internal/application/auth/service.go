// Package auth implements login and account bootstrap. Passwords are
// bcrypt hashes; successful logins return a signed session token.
package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/user"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

const minPasswordLength = 8

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id common.Identity) (string, time.Time, error)
}

// AttemptRecorder counts login outcomes.
type AttemptRecorder interface {
	RecordAuthAttempt(success bool, reason string)
}

// LoginResult is returned by a successful login.
type LoginResult = common.LoginResult

// Service authenticates users.
type Service struct {
	users    user.Repository
	tokens   TokenIssuer
	attempts AttemptRecorder
	logger   logging.Logger
	cost     int
}

// Option configures a Service.
type Option func(*Service)

// WithAttemptRecorder reports every login outcome to r.
func WithAttemptRecorder(r AttemptRecorder) Option {
	return func(s *Service) { s.attempts = r }
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// NewService returns a Service.
func NewService(users user.Repository, tokens TokenIssuer, logger logging.Logger, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the password and issues a token. Unknown email and wrong
// password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.NewValidationError("email", "email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.record(false, "unknown_email")
			return nil, errors.New(errors.ErrCodeInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.record(false, "bad_password")
		s.logger.Info("login rejected", logging.String("email", email))
		return nil, errors.New(errors.ErrCodeInvalidCredentials, "invalid email or password")
	}

	id := u.Identity()
	token, exp, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLogin(ctx, u.ID); err != nil {
		s.logger.Warn("failed to record login time", logging.String("user_id", u.ID), logging.Err(err))
	}
	s.record(true, "")
	s.logger.Info("user logged in", logging.String("email", email))
	return &LoginResult{Token: token, ExpiresAt: exp, Identity: id}, nil
}

// Register creates an account with a hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, errors.NewValidationError("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, errors.NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to hash password")
	}
	u := &user.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureUser registers email unless it already exists. Used for the
// configured bootstrap account at startup.
func (s *Service) EnsureUser(ctx context.Context, email, name, password string) error {
	_, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}
	_, err = s.Register(ctx, email, name, password)
	if errors.IsConflict(err) {
		return nil
	}
	return err
}

func (s *Service) record(success bool, reason string) {
	if s.attempts != nil {
		s.attempts.RecordAuthAttempt(success, reason)
	}
}

//Personal.AI order the ending
