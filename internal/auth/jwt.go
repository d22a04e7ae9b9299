package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mossdrift/orgshare-backend/internal/identity"
)

// Claims defines the JWT claims we embed in our token. Besides the
// registered set they carry a snapshot of the member's organization,
// department and role taken at login. The snapshot is display context
// only: workflow guards never trust it, RequirePrincipal reloads the
// membership row so role changes take effect on the next request.
type Claims struct {
	UserID         string `json:"sub"`
	Email          string `json:"email"`
	OrganizationID string `json:"org"`
	Department     string `json:"dept,omitempty"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Snapshot returns the membership snapshot embedded in the claims.
func (c *Claims) Snapshot() identity.Principal {
	return identity.Principal{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		Department:     c.Department,
		Role:           identity.Role(c.Role),
	}
}

// JWTManager manages JWT access token creation and validation.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateAccessToken creates a signed JWT for the given member.
func (m *JWTManager) GenerateAccessToken(member identity.Principal, email string) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		UserID:         member.UserID,
		Email:          email,
		OrganizationID: member.OrganizationID,
		Department:     member.Department,
		Role:           string(member.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}

	return signed, nil
}

// ParseAndValidate validates a JWT and returns the parsed claims.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure token is signed using HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid jwt token")
	}

	return claims, nil
}
