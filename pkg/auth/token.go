package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity encoded in a session token.
// Subject (from RegisteredClaims) holds the opaque principal id.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. The signing key is process-wide
// configuration loaded once at startup; signing and verification are pure
// computations over it and need no locking.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec creates a token codec with the given signing key and token lifetime
func NewCodec(key string, ttl time.Duration) (*Codec, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Codec{key: []byte(key), ttl: ttl}, nil
}

// TTL returns the configured token lifetime
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign produces a signed token encoding the principal's identity and role
func (c *Codec) Sign(subjectID, email string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify parses and validates a token. It deterministically rejects malformed,
// forged and expired tokens by returning (nil, false); callers never see raw
// signature or parsing errors.
func (c *Codec) Verify(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" || !claims.Role.Valid() {
		return nil, false
	}

	return claims, true
}
