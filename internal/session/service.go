// Package session issues and verifies stateless, signed session tokens.
// The server keeps no session table; validity is signature plus expiry.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed lifetime of a session.
const TTL = 24 * time.Hour

// Issuer is written into and required from every token.
const Issuer = "backoffice"

var (
	ErrSecretRequired = errors.New("session signing secret is required")
	ErrInvalidToken   = errors.New("invalid session token")
)

// Service signs and verifies HS256 tokens with one process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now; used by tests to move across the expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService refuses to build without a secret, so nothing can sign with a
// guessable default.
func NewService(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	s := &Service{secret: []byte(secret), ttl: TTL, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Issue signs id into a token valid for TTL. It returns the token and its expiry.
func (s *Service) Issue(id Identity) (string, time.Time, error) {
	if id.ID == "" {
		return "", time.Time{}, fmt.Errorf("issue session: empty subject")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the identity in token. Any defect (malformed, wrong
// algorithm, bad signature, expired, missing subject) yields ErrInvalidToken.
func (s *Service) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}
