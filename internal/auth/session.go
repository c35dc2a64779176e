package auth

import (
	"errors"
	"strings"
	"time"

	"seeker/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired marks a credential whose lifetime has elapsed. Parsing wraps
// the library's expiry error so callers can distinguish an expired session
// from a malformed or forged one.
var ErrExpired = errors.New("session credential expired")

// Claims is the session credential payload. The role is resolved from the
// store when the credential is minted and stays frozen for its lifetime;
// role changes take effect only after re-authentication.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// ExternalID returns the identity provider subject the credential was
// minted for.
func (c *Claims) ExternalID() string {
	return c.Subject
}

// Manager mints and validates session credentials. Validation is pure
// computation over the token; it never touches the store.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager creates a new session credential manager.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour * 24 * 7
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "seeker"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the credential lifetime, which also bounds the cookie age.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// IssueCredential signs a session credential for the provided user.
func (m *Manager) IssueCredential(user *entity.DbUser) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("session manager is nil")
	}
	if user == nil || strings.TrimSpace(user.ExternalID) == "" {
		return "", time.Time{}, errors.New("invalid user for credential")
	}
	now := time.Now().UTC()
	expiry := now.Add(m.ttl)

	claims := Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ExternalID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseCredential validates the credential's signature and expiry and
// returns its claims.
func (m *Manager) ParseCredential(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("session manager is nil")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid credential claims")
	}
	return claims, nil
}
