// Package session issues and verifies the signed bearer tokens handed out
// by login. A token only carries attribution; it grants no permissions.
package session

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

const (
	DefaultIssuer   = "coal-transition-atlas"
	DefaultTokenTTL = 12 * time.Hour
	minSecretLength = 16
)

// Claims is the JWT payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Manager signs HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, errors.NewValidationError("auth.jwt_secret", "secret must be at least 16 characters")
	}
	m := &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
	if m.issuer == "" {
		m.issuer = DefaultIssuer
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTokenTTL
	}
	return m, nil
}

// Issue signs a token for id and returns it with its expiry.
func (m *Manager) Issue(id common.Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to sign token")
	}
	return signed, exp, nil
}

// Verify checks signature, issuer and expiry and returns the identity.
func (m *Manager) Verify(raw string) (common.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return common.Identity{}, errors.New(errors.ErrCodeTokenExpired, "token expired").WithCause(err)
		}
		return common.Identity{}, errors.New(errors.ErrCodeTokenInvalid, "invalid token").WithCause(err)
	}
	name := strings.TrimSpace(claims.Name)
	return common.Identity{
		Email:    claims.Email,
		Name:     name,
		Initials: common.InitialsFor(name),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Request context
// ─────────────────────────────────────────────────────────────────────────────

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id common.Identity) context.Context {
	return context.WithValue(ctx, common.ContextKeyIdentity, id)
}

// IdentityFrom returns the caller identity, or AnonymousIdentity.
func IdentityFrom(ctx context.Context) common.Identity {
	if id, ok := ctx.Value(common.ContextKeyIdentity).(common.Identity); ok {
		return id
	}
	return common.AnonymousIdentity
}

//Personal.AI order the ending
