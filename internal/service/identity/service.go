// Package identity turns bearer tokens into callers and signs tokens for
// operators and trusted services.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnknownRole  = errors.New("unknown role")
	ErrNoSecret     = errors.New("token secret not configured")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs an HS256 token for subject with role. Service tokens may have
// an empty subject.
func (s *Service) Issue(subject, role string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	if !knownRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if role == domain.RoleAuthenticated && strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("customer tokens need a subject")
	}
	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Resolve verifies token and returns its caller. An empty token is a guest.
func (s *Service) Resolve(token string) (domain.Caller, error) {
	if token == "" {
		return domain.AnonymousCaller(), nil
	}
	if len(s.secret) == 0 {
		return domain.Caller{}, ErrInvalidToken
	}
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return domain.Caller{}, ErrInvalidToken
	}
	if !knownRole(claims.Role) {
		return domain.Caller{}, ErrInvalidToken
	}
	if claims.Role == domain.RoleAuthenticated && claims.Subject == "" {
		return domain.Caller{}, ErrInvalidToken
	}
	return domain.Caller{UserID: claims.Subject, Role: claims.Role}, nil
}

func knownRole(role string) bool {
	switch role {
	case domain.RoleAuthenticated, domain.RoleAdmin, domain.RoleService:
		return true
	}
	return false
}
