package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer          = "darew"
	minSecretLength = 16
	// DefaultSessionTTL bounds how long a console token stays valid.
	DefaultSessionTTL = 8 * time.Hour
)

// Claims represents the JWT claims of an admin console session.
type Claims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 console tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SessionOption configures Sessions behavior.
type SessionOption func(*Sessions) error

// WithSessionTTL overrides token lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *Sessions) error {
		if ttl <= 0 {
			return fmt.Errorf("%w: ttl must be greater than zero", ErrInvalidInput)
		}
		s.ttl = ttl
		return nil
	}
}

// WithSessionClock injects a time source, mainly for tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Sessions) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSessions builds a token issuer. An empty secret generates a random one,
// which invalidates every token when the process restarts.
func NewSessions(secret string, opts ...SessionOption) (*Sessions, error) {
	s := &Sessions{ttl: DefaultSessionTTL, now: time.Now}
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("auth: generate session secret: %w", err)
		}
		s.secret = buf
	case len(secret) < minSecretLength:
		return nil, ErrSessionSecret
	default:
		s.secret = []byte(secret)
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue signs a token whose subject is the identity id.
func (s *Sessions) Issue(id Identity) (string, time.Time, error) {
	if strings.TrimSpace(id.ID) == "" {
		return "", time.Time{}, fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	expires := now.Add(s.ttl)
	claims := Claims{
		Name: id.Name,
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies the token signature and required claims.
func (s *Sessions) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
